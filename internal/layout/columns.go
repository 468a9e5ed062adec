package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	histogramBins = 200
	// gapNoiseRatio is the share of tokens allowed to cross a column gap
	// (centered names, full-width rules)
	gapNoiseRatio = 0.02
)

// columnText is the reconstructed text of one column
type columnText struct {
	Column types.Column
	Text   string
}

// splitResult describes the outcome of spatial analysis
type splitResult struct {
	Columns  []columnText
	Spatial  bool
	Balanced bool
}

// splitColumns looks for a vertical gutter in token x-coverage. It returns a
// two-column split when the widest interior gap exceeds gapRatio of the page
// width and both sides carry at least minChars characters; otherwise the
// tokens are rejoined as a single full-width column.
func splitColumns(tokens []types.Token, gapRatio float64, minChars int) splitResult {
	tokens = usableTokens(tokens)
	if len(tokens) == 0 {
		return splitResult{}
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, t := range tokens {
		minX = math.Min(minX, t.Left)
		maxX = math.Max(maxX, t.Right())
	}
	width := maxX - minX
	full := splitResult{Columns: []columnText{{Column: types.ColumnFull, Text: joinLines(tokens)}}}
	if width <= 0 {
		return full
	}

	binWidth := width / histogramBins
	coverage := make([]int, histogramBins)
	for _, t := range tokens {
		from := int((t.Left - minX) / binWidth)
		to := int(math.Ceil((t.Right()-minX)/binWidth)) - 1
		for b := max(from, 0); b <= min(to, histogramBins-1); b++ {
			coverage[b]++
		}
	}

	noise := int(gapNoiseRatio * float64(len(tokens)))
	bestStart, bestLen := -1, 0
	for b := 0; b < histogramBins; {
		if coverage[b] > noise {
			b++
			continue
		}
		start := b
		for b < histogramBins && coverage[b] <= noise {
			b++
		}
		// runs touching the page edge are margins, not gutters
		if start == 0 || b == histogramBins {
			continue
		}
		if b-start > bestLen {
			bestStart, bestLen = start, b-start
		}
	}
	if bestStart < 0 || float64(bestLen)*binWidth <= gapRatio*width {
		return full
	}

	split := minX + (float64(bestStart)+float64(bestLen)/2)*binWidth
	var left, right []types.Token
	for _, t := range tokens {
		if t.Left+t.Width/2 < split {
			left = append(left, t)
		} else {
			right = append(right, t)
		}
	}

	leftChars, rightChars := charCount(left), charCount(right)
	if leftChars < minChars || rightChars < minChars {
		return full
	}

	smaller := math.Min(float64(leftChars), float64(rightChars))
	return splitResult{
		Columns: []columnText{
			{Column: types.ColumnLeft, Text: joinLines(left)},
			{Column: types.ColumnRight, Text: joinLines(right)},
		},
		Spatial:  true,
		Balanced: smaller >= 0.25*float64(leftChars+rightChars),
	}
}

func usableTokens(tokens []types.Token) []types.Token {
	out := make([]types.Token, 0, len(tokens))
	for _, t := range tokens {
		if strings.TrimSpace(t.Text) == "" || t.Width < 0 || math.IsNaN(t.Left) || math.IsNaN(t.Width) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func charCount(tokens []types.Token) int {
	n := 0
	for _, t := range tokens {
		n += len([]rune(t.Text)) + 1
	}
	return n
}

// joinLines orders tokens by page, top and left, and rejoins them into lines.
// Tokens whose vertical centers lie within half a line height share a line.
func joinLines(tokens []types.Token) string {
	sorted := make([]types.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.Top != b.Top {
			return a.Top < b.Top
		}
		return a.Left < b.Left
	})

	var sb strings.Builder
	var line []types.Token
	flush := func() {
		if len(line) == 0 {
			return
		}
		sort.SliceStable(line, func(i, j int) bool { return line[i].Left < line[j].Left })
		for i, t := range line {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strings.TrimSpace(t.Text))
		}
		sb.WriteByte('\n')
		line = line[:0]
	}

	for _, t := range sorted {
		if len(line) > 0 {
			anchor := line[0]
			if t.Page != anchor.Page || math.Abs(center(t)-center(anchor)) > lineTolerance(t, anchor) {
				flush()
			}
		}
		line = append(line, t)
	}
	flush()
	return strings.TrimRight(sb.String(), "\n")
}

func center(t types.Token) float64 {
	return t.Top + t.Height/2
}

func lineTolerance(a, b types.Token) float64 {
	h := math.Max(a.Height, b.Height)
	if h <= 0 {
		h = 1
	}
	return h / 2
}
