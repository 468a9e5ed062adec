package parsing

import (
	"strings"
	"time"

	"github.com/jonathan/resume-matcher/internal/experience"
	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	maxHeaderLines     = 3
	maxHeaderLineChars = 80
	maxTitleWords      = 8
	maxCompanyWords    = 3
	maxLegalNameWords  = 6
	maxLookaheadLines  = 2
)

// anchor is one date range that starts an experience entry
type anchor struct {
	rng      experience.DateRange
	residual string
}

// dateLine is a physical line carrying one or more anchors
type dateLine struct {
	index   int
	anchors []anchor
}

// extractExperience finds date-anchored entries in experience segments. Blocks
// that read as academic records are returned as deferred text for education
// extraction.
func (e *Extractor) extractExperience(segments []types.Segment) ([]types.ExperienceEntry, []string, []Ambiguity) {
	lines := blockLines(segments)

	var dated []dateLine
	for i, line := range lines {
		if anchors := e.anchorsOn(line); len(anchors) > 0 {
			dated = append(dated, dateLine{index: i, anchors: anchors})
		}
	}
	if len(dated) == 0 {
		return []types.ExperienceEntry{}, nil, nil
	}

	headerStarts := make([]int, len(dated))
	for k, d := range dated {
		lower := 0
		if k > 0 {
			lower = dated[k-1].index + 1
		}
		headerStarts[k] = headerStart(lines, d.index, lower)
	}

	var entries []types.ExperienceEntry
	var deferred []string
	var ambiguities []Ambiguity

	for k, d := range dated {
		header := lines[headerStarts[k]:d.index]
		end := len(lines)
		if k+1 < len(dated) {
			end = headerStarts[k+1]
		}
		following := lines[d.index+1 : end]

		for n, a := range d.anchors {
			var body []string
			// description lines belong to the last entry on a shared line
			if n == len(d.anchors)-1 {
				body = following
			}
			entry, block, ok := e.buildEntry(header, a, body)
			if !ok {
				continue
			}

			if institutionKeywords.In(entry.Company) {
				if degreeKeywords.In(block) {
					deferred = append(deferred, block)
					ambiguities = append(ambiguities, Ambiguity{
						Family:     "experience",
						Text:       block,
						Reason:     "employer reads as an institution and the block names a degree",
						Resolution: "deferred to education",
					})
					continue
				}
				ambiguities = append(ambiguities, Ambiguity{
					Family:     "experience",
					Text:       block,
					Reason:     "employer reads as an institution",
					Resolution: "kept as experience",
				})
			}
			entries = append(entries, entry)
		}
	}

	return mergeDuplicates(entries), deferred, ambiguities
}

// anchorsOn returns the anchors on one line. Several ranges separated by
// text become separate anchors; ranges with nothing between them are
// resolved to a single anchor by the present-range policy.
func (e *Extractor) anchorsOn(line string) []anchor {
	ranges := experience.FindDateRanges(line)
	switch len(ranges) {
	case 0:
		return nil
	case 1:
		r := ranges[0]
		return []anchor{{rng: r, residual: line[:r.From] + " " + line[r.To:]}}
	}

	pieces := make([]string, len(ranges))
	prev := 0
	splittable := true
	for i, r := range ranges {
		pieces[i] = line[prev:r.From]
		prev = r.To
		if i > 0 && onlySeparators(pieces[i]) {
			splittable = false
		}
	}
	trailing := line[prev:]

	if !splittable {
		chosen := ranges[0]
		if e.preferPresent {
			for _, r := range ranges {
				if r.IsPresent() {
					chosen = r
					break
				}
			}
		}
		residual := pieces[0] + " " + trailing
		return []anchor{{rng: chosen, residual: residual}}
	}

	out := make([]anchor, len(ranges))
	for i, r := range ranges {
		out[i] = anchor{rng: r, residual: pieces[i]}
	}
	out[len(out)-1].residual += " " + trailing
	return out
}

func onlySeparators(s string) bool {
	s = strings.ToLower(s)
	s = strings.NewReplacer("and", "", "&", "", ",", "", ";", "", "|", "", "/", "", "(", "", ")", "").Replace(s)
	return strings.TrimSpace(s) == ""
}

// headerStart walks back from a date line over at most maxHeaderLines lines
// that look like title or company lines, stopping at blank lines, bullets,
// prose and lower.
func headerStart(lines []string, dateIndex, lower int) int {
	start := dateIndex
	for i := dateIndex - 1; i >= lower && dateIndex-i <= maxHeaderLines; i-- {
		if !looksLikeHeaderLine(lines[i]) {
			break
		}
		start = i
	}
	return start
}

func looksLikeHeaderLine(line string) bool {
	switch {
	case line == "",
		len(line) > maxHeaderLineChars,
		isBulletLine(line),
		strings.HasSuffix(line, "."),
		actionVerbs.In(line),
		experience.ContainsDateRange(line):
		return false
	}
	// "Tech: Go, Python" style lines are description
	if i := strings.Index(line, ":"); i > 0 && wordCount(line[:i]) <= 3 && !roleKeywords.In(line[:i]) {
		return false
	}
	return true
}

// buildEntry classifies the lines around an anchor. It returns the entry,
// the full block text and whether the entry has a title or a company.
func (e *Extractor) buildEntry(header []string, a anchor, following []string) (types.ExperienceEntry, string, bool) {
	var pieces []string
	for _, l := range header {
		pieces = append(pieces, splitPieces(l)...)
	}
	pieces = append(pieces, splitPieces(a.residual)...)
	title, company := classifyPieces(pieces)

	// "Jan 2019 - Present" followed by "Acme Corp" / "Engineer" lines
	body := following
lookahead:
	for n := 0; n < maxLookaheadLines && len(body) > 0 && (title == "" || company == ""); n++ {
		line := body[0]
		if !looksLikeHeaderLine(line) {
			break lookahead
		}
		t, c := classifyPieces(splitPieces(line))
		switch {
		case title == "" && t != "":
			title = t
			if company == "" {
				company = c
			}
		case company == "" && c != "" && t == "":
			company = c
		default:
			break lookahead
		}
		body = body[1:]
	}

	var desc []string
	for _, l := range body {
		if l = stripBullet(l); l != "" {
			desc = append(desc, l)
		}
	}

	blockParts := append(append([]string{}, header...), a.rng.Text)
	if r := strings.TrimSpace(a.residual); r != "" {
		blockParts = append(blockParts, r)
	}
	blockParts = append(blockParts, following...)
	block := strings.TrimSpace(strings.Join(blockParts, "\n"))

	entry := types.ExperienceEntry{
		Title:        title,
		Company:      company,
		StartDate:    a.rng.Start,
		EndDate:      a.rng.End,
		Description:  strings.Join(desc, "\n"),
		Technologies: e.matcher.FindInText(block),
	}
	if entry.Technologies == nil {
		entry.Technologies = []string{}
	}
	return entry, block, title != "" || company != ""
}

// classifyPieces picks a job title and a company from header pieces.
func classifyPieces(pieces []string) (title, company string) {
	var fallback string
	for _, p := range pieces {
		switch {
		case title == "" && isTitle(p):
			title = p
		case company == "" && isCompany(p):
			if legalSuffixes.In(p) || institutionKeywords.In(p) {
				company = p
			} else if fallback == "" {
				fallback = p
			}
		}
	}
	if company == "" {
		company = fallback
	}
	return title, company
}

func isTitle(p string) bool {
	return roleKeywords.In(p) &&
		!actionVerbs.In(p) &&
		!digitPattern.MatchString(p) &&
		!institutionKeywords.In(p) &&
		wordCount(p) <= maxTitleWords
}

func isCompany(p string) bool {
	words := wordCount(p)
	switch {
	case words == 0,
		isTitle(p),
		degreeKeywords.In(p),
		actionVerbs.In(p),
		locationWords.In(p),
		stateCode.MatchString(p),
		strings.Contains(p, "@"),
		urlPattern.MatchString(p),
		yearPattern.MatchString(p):
		return false
	}
	if legalSuffixes.In(p) || institutionKeywords.In(p) {
		return words <= maxLegalNameWords
	}
	return words <= maxCompanyWords
}

// farFuture stands in for "present" when comparing intervals
var farFuture = time.Date(9999, time.January, 1, 0, 0, 0, 0, time.UTC)

func span(e types.ExperienceEntry) (time.Time, time.Time) {
	start := experience.ResolveDate(*e.StartDate, farFuture)
	end := start
	if e.EndDate != nil {
		end = experience.ResolveDate(*e.EndDate, farFuture)
	}
	return start, end
}

// duplicates reports whether two entries describe the same job: same company,
// compatible titles and overlapping dates.
func duplicates(a, b types.ExperienceEntry) bool {
	ca, cb := strings.ToLower(strings.TrimSpace(a.Company)), strings.ToLower(strings.TrimSpace(b.Company))
	if ca == "" || cb == "" || (ca != cb && !strings.Contains(ca, cb) && !strings.Contains(cb, ca)) {
		return false
	}
	if a.Title != "" && b.Title != "" && !strings.EqualFold(a.Title, b.Title) {
		return false
	}
	if a.StartDate == nil || b.StartDate == nil {
		return false
	}
	as, ae := span(a)
	bs, be := span(b)
	return !as.After(be) && !bs.After(ae)
}

// preferred reports whether a should be kept over b when merging. An
// open-ended entry always wins.
func preferred(a, b types.ExperienceEntry) bool {
	if a.IsCurrent() != b.IsCurrent() {
		return a.IsCurrent()
	}
	score := func(e types.ExperienceEntry) int {
		s := 0
		if e.Title != "" {
			s++
		}
		if e.HasDateRange() {
			s++
		}
		return s
	}
	return score(a) >= score(b)
}

func mergeDuplicates(entries []types.ExperienceEntry) []types.ExperienceEntry {
	out := make([]types.ExperienceEntry, 0, len(entries))
	for _, entry := range entries {
		merged := false
		for i := range out {
			if !duplicates(out[i], entry) {
				continue
			}
			primary, secondary := out[i], entry
			if !preferred(primary, secondary) {
				primary, secondary = secondary, primary
			}
			out[i] = fillFrom(primary, secondary)
			merged = true
			break
		}
		if !merged {
			out = append(out, entry)
		}
	}
	return out
}

func fillFrom(primary, secondary types.ExperienceEntry) types.ExperienceEntry {
	if primary.Title == "" {
		primary.Title = secondary.Title
	}
	if primary.Company == "" {
		primary.Company = secondary.Company
	}
	if primary.StartDate == nil {
		primary.StartDate = secondary.StartDate
	}
	if primary.EndDate == nil {
		primary.EndDate = secondary.EndDate
	}
	if secondary.Description != "" && !strings.Contains(primary.Description, secondary.Description) {
		primary.Description = strings.TrimSpace(primary.Description + "\n" + secondary.Description)
	}
	techs := append(append([]string{}, primary.Technologies...), secondary.Technologies...)
	primary.Technologies = dedupeFold(techs)
	return primary
}

// dedupeFold removes case-insensitive duplicates, keeping first occurrences.
func dedupeFold(list []string) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, s := range list {
		k := strings.ToLower(s)
		if !seen[k] {
			seen[k] = true
			out = append(out, s)
		}
	}
	return out
}
