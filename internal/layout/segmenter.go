package layout

import (
	"strings"
	"unicode"

	"github.com/jonathan/resume-matcher/internal/types"
	"go.uber.org/zap"
)

const (
	defaultGapRatio       = 0.05
	defaultMinColumnChars = 100
	defaultPreambleChars  = 100
	maxHeaderLength       = 60

	spatialWeight = 0.3
	headerWeight  = 0.4
	balanceWeight = 0.1

	// titleCaseStrength scales headers that are neither upper-case nor colon-terminated
	titleCaseStrength = 0.8
)

// Options configures a Segmenter. Zero values select the defaults.
type Options struct {
	Rules RuleSet
	// GapRatio is the minimum gutter width as a fraction of page width
	GapRatio float64
	// MinColumnChars is the minimum text per column for a two-column split
	MinColumnChars int
	// PreambleChars bounds the name/contact block before the first header
	PreambleChars int
	// StrictHeaders rejects title-case headers such as "Work Experience";
	// only uppercase lines and lines ending in ':' are accepted
	StrictHeaders bool
	Logger        *zap.Logger
}

// Segmenter partitions documents into sections. It holds no mutable state and
// is safe for concurrent use.
type Segmenter struct {
	rules          RuleSet
	gapRatio       float64
	minColumnChars int
	preambleChars  int
	strictHeaders  bool
	logger         *zap.Logger
}

// New creates a Segmenter.
func New(opts Options) *Segmenter {
	s := &Segmenter{
		rules:          opts.Rules,
		gapRatio:       opts.GapRatio,
		minColumnChars: opts.MinColumnChars,
		preambleChars:  opts.PreambleChars,
		strictHeaders:  opts.StrictHeaders,
		logger:         opts.Logger,
	}
	if len(s.rules) == 0 {
		s.rules = ResumeRules()
	}
	if s.gapRatio <= 0 {
		s.gapRatio = defaultGapRatio
	}
	if s.minColumnChars <= 0 {
		s.minColumnChars = defaultMinColumnChars
	}
	if s.preambleChars <= 0 {
		s.preambleChars = defaultPreambleChars
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Segment partitions doc into an ordered list of segments, left column first,
// each column top to bottom. It never fails: when no structure is found, or
// analysis panics, the result is a single full-width "other" segment holding
// the original text.
func (s *Segmenter) Segment(doc types.RawDocument) (segments []types.Segment) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("segmentation failed, using fallback", zap.Any("panic", r))
			segments = fallback(doc)
		}
	}()

	split := splitResult{}
	if doc.HasTokens() {
		split = splitColumns(doc.Tokens, s.gapRatio, s.minColumnChars)
	}
	columns := split.Columns
	if len(columns) == 0 {
		columns = []columnText{{Column: types.ColumnFull, Text: doc.Text}}
	}

	var base float64
	if split.Spatial {
		base += spatialWeight
		if split.Balanced {
			base += balanceWeight
		}
	}

	var sections []*section
	headers := 0
	for _, col := range columns {
		found := s.scanColumn(col.Text)
		for _, sec := range found {
			sec.column = col.Column
			if sec.headed {
				headers++
			}
		}
		sections = append(sections, found...)
	}

	if headers == 0 && !split.Spatial {
		s.logger.Debug("no section headers found", zap.Int("chars", len(doc.Text)))
		return fallback(doc)
	}

	mean := meanStrength(sections)
	segments = make([]types.Segment, 0, len(sections))
	for _, sec := range sections {
		text := sec.text()
		if text == "" {
			continue
		}
		strength := mean
		if sec.headed {
			strength = sec.strength
		}
		segments = append(segments, types.Segment{
			SectionKind: sec.kind,
			Column:      sec.column,
			Text:        text,
			Confidence:  clamp01(base + headerWeight*strength),
		})
	}
	if len(segments) == 0 {
		return fallback(doc)
	}

	s.logger.Debug("segmented document",
		zap.Bool("spatial", split.Spatial),
		zap.Int("columns", len(columns)),
		zap.Int("headers", headers),
		zap.Int("segments", len(segments)),
	)
	return segments
}

// Segment partitions doc with the default résumé rules.
func Segment(doc types.RawDocument) []types.Segment {
	return defaultSegmenter.Segment(doc)
}

var defaultSegmenter = New(Options{})

// section is a segment under construction
type section struct {
	kind     types.SectionKind
	column   types.Column
	strength float64
	headed   bool
	lines    []string
}

func (sec *section) add(line string) {
	sec.lines = append(sec.lines, line)
}

func (sec *section) text() string {
	return strings.TrimSpace(strings.Join(sec.lines, "\n"))
}

// scanColumn splits one column's text at accepted header lines. Later
// sections of an already-seen kind are folded into the first one.
func (s *Segmenter) scanColumn(text string) []*section {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var out []*section
	byKind := make(map[types.SectionKind]*section)
	var current *section

	preamble := &section{kind: types.SectionHeader}
	other := &section{kind: types.SectionOther}
	offset := 0
	depth := 0

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		lineStart := offset
		offset += len(raw) + 1

		if line == "" {
			if current != nil {
				current.add("")
			}
			continue
		}

		if r, strength, ok := s.acceptHeader(line, depth); ok {
			if existing, seen := byKind[r.Kind]; seen {
				current = existing
				current.add("")
			} else {
				current = &section{kind: r.Kind, strength: strength, headed: true}
				byKind[r.Kind] = current
				out = append(out, current)
			}
			continue
		}
		depth = parenDepth(depth, line)

		switch {
		case current != nil:
			current.add(line)
		case lineStart < s.preambleChars:
			preamble.add(line)
		default:
			other.add(line)
		}
	}

	var leading []*section
	if len(preamble.lines) > 0 {
		leading = append(leading, preamble)
	}
	if len(other.lines) > 0 {
		if existing, ok := byKind[types.SectionOther]; ok {
			// one "other" segment per column
			existing.lines = append(append(other.lines, ""), existing.lines...)
		} else {
			leading = append(leading, other)
		}
	}
	return append(leading, out...)
}

// acceptHeader decides whether line is a section header.
func (s *Segmenter) acceptHeader(line string, depth int) (Rule, float64, bool) {
	if len([]rune(line)) >= maxHeaderLength || depth > 0 || isBullet(line) {
		return Rule{}, 0, false
	}
	if parenDepth(0, line) != 0 || strings.Count(line, "(") != strings.Count(line, ")") {
		return Rule{}, 0, false
	}

	r, ok := s.rules.Match(line)
	if !ok {
		return Rule{}, 0, false
	}

	trimmed := strings.TrimRight(line, " \t*_")
	switch {
	case mostlyUpper(line) || strings.HasSuffix(trimmed, ":"):
		return r, r.Strength, true
	case !s.strictHeaders && titleCase(line):
		return r, r.Strength * titleCaseStrength, true
	default:
		return Rule{}, 0, false
	}
}

func meanStrength(sections []*section) float64 {
	var sum float64
	n := 0
	for _, sec := range sections {
		if sec.headed {
			sum += sec.strength
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func fallback(doc types.RawDocument) []types.Segment {
	return []types.Segment{{
		SectionKind: types.SectionOther,
		Column:      types.ColumnFull,
		Text:        doc.Text,
		Confidence:  0,
	}}
}

var bulletPrefixes = []string{"-", "*", "•", "·", "▪", "●", "◦", "‣", "–", "—", "○", "■", "►", "✓", "➢"}

func isBullet(line string) bool {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			rest := strings.TrimPrefix(line, p)
			// "**Skills**" and "---" are emphasis or rules, not bullets
			if rest == "" || strings.HasPrefix(rest, " ") || strings.HasPrefix(rest, "\t") {
				return rest != ""
			}
		}
	}
	// numbered items: "1." or "2)"
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')')
}

// parenDepth returns the open-parenthesis depth after line, starting from depth.
func parenDepth(depth int, line string) int {
	for _, r := range line {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		}
	}
	return depth
}

func mostlyUpper(line string) bool {
	letters, upper := 0, 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	return letters >= 2 && float64(upper) >= 0.7*float64(letters)
}

// titleCase reports whether every word of four or more letters starts with a
// capital, and at least one word does.
func titleCase(line string) bool {
	capitalized := 0
	for _, w := range strings.Fields(line) {
		w = strings.TrimLeft(w, "#*_([\"'")
		runes := []rune(w)
		if len(runes) == 0 || !unicode.IsLetter(runes[0]) {
			continue
		}
		if unicode.IsUpper(runes[0]) {
			capitalized++
			continue
		}
		if len(runes) >= 4 {
			return false
		}
	}
	return capitalized > 0
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
