package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	maxProjectTitleWords = 10
	maxCertificationLen  = 150
	maxLanguageWords     = 3
	maxNameWords         = 4
)

var (
	techLabel     = regexp.MustCompile(`(?i)^(?:tech(?:nologies|nology|\s+stack)?|stack|tools|built\s+with|skills\s+used)\s*[:\-]\s*`)
	projectSplit  = regexp.MustCompile(`\s+[|–—]\s+|\s+-\s+|:\s+`)
	certSplit     = regexp.MustCompile(`\s+[|–—]\s+|\s+-\s+|,\s+|\s+by\s+|\s+from\s+`)
	languageSplit = regexp.MustCompile(`\s*[,;|•·]\s*`)
	proficiencyOf = regexp.MustCompile(`\s*[(\-–:]\s*`)
)

// extractProjects splits project segments into entries. A project starts at
// a blank-line boundary or at a short title line following description lines.
func (e *Extractor) extractProjects(segments []types.Segment) []types.ProjectEntry {
	out := []types.ProjectEntry{}
	for _, block := range blocks(blockLines(segments)) {
		var current []string
		for _, line := range block {
			if len(current) > 1 && looksLikeProjectTitle(line) {
				if p, ok := e.buildProject(current); ok {
					out = append(out, p)
				}
				current = nil
			}
			current = append(current, line)
		}
		if p, ok := e.buildProject(current); ok {
			out = append(out, p)
		}
	}
	return out
}

func looksLikeProjectTitle(line string) bool {
	return !isBulletLine(line) &&
		!strings.HasSuffix(line, ".") &&
		!techLabel.MatchString(line) &&
		!actionVerbs.In(line) &&
		wordCount(line) <= maxProjectTitleWords
}

func (e *Extractor) buildProject(lines []string) (types.ProjectEntry, bool) {
	if len(lines) == 0 {
		return types.ProjectEntry{}, false
	}
	first := stripBullet(lines[0])
	p := types.ProjectEntry{Technologies: []string{}}

	if url := urlPattern.FindString(first); url != "" {
		p.URL = url
		first = strings.TrimSpace(strings.Replace(first, url, "", 1))
	}
	parts := projectSplit.Split(first, 2)
	p.Name = strings.TrimSpace(strings.Trim(parts[0], "()[]"))

	var desc []string
	if len(parts) == 2 {
		desc = append(desc, strings.TrimSpace(parts[1]))
	}
	var explicit []string
	for _, l := range lines[1:] {
		l = stripBullet(l)
		if p.URL == "" {
			if url := urlPattern.FindString(l); url != "" {
				p.URL = url
			}
		}
		if loc := techLabel.FindStringIndex(l); loc != nil {
			explicit = append(explicit, e.skillTokens(l[loc[1]:])...)
			continue
		}
		if l != "" {
			desc = append(desc, l)
		}
	}
	p.Description = strings.TrimSpace(strings.Join(desc, "\n"))
	p.Technologies = e.matcher.Dedupe(append(explicit, e.matcher.FindInText(strings.Join(lines, "\n"))...))
	if p.Name == "" {
		return types.ProjectEntry{}, false
	}
	return p, true
}

// extractCertifications reads one certification per line:
// "Name - Issuer (2021)", "Name, Issuer, 2021" or "Name | Issuer".
func extractCertifications(segments []types.Segment) []types.Certification {
	out := []types.Certification{}
	for _, s := range segments {
		for _, line := range s.Lines() {
			line = stripBullet(line)
			if line == "" || len(line) > maxCertificationLen {
				continue
			}
			var c types.Certification
			if years := yearPattern.FindAllString(line, -1); len(years) > 0 {
				c.Year = years[len(years)-1]
				line = yearPattern.ReplaceAllString(line, "")
			}
			line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "()[],-–|"))
			parts := certSplit.Split(line, -1)
			var kept []string
			for _, p := range parts {
				if p = strings.TrimSpace(strings.Trim(p, "()[] ")); p != "" {
					kept = append(kept, p)
				}
			}
			if len(kept) == 0 {
				continue
			}
			c.Name = kept[0]
			if len(kept) > 1 {
				c.Issuer = kept[1]
			}
			out = append(out, c)
		}
	}
	return out
}

// extractLanguages reads "English (Native), French - B2, Spanish: Fluent".
func extractLanguages(segments []types.Segment) []types.Language {
	out := []types.Language{}
	seen := make(map[string]bool)
	for _, s := range segments {
		for _, line := range s.Lines() {
			for _, piece := range languageSplit.Split(stripBullet(line), -1) {
				piece = strings.TrimSpace(piece)
				if piece == "" {
					continue
				}
				var lang types.Language
				parts := proficiencyOf.Split(piece, 2)
				lang.Name = strings.TrimSpace(parts[0])
				if len(parts) == 2 {
					lang.Proficiency = strings.TrimSpace(strings.Trim(parts[1], "() "))
				}
				// "Native English" style
				if lang.Proficiency == "" && wordCount(lang.Name) == 2 && proficiencyWords.In(strings.Fields(lang.Name)[0]) {
					words := strings.Fields(lang.Name)
					lang.Proficiency, lang.Name = words[0], words[1]
				}
				if lang.Name == "" || wordCount(lang.Name) > maxLanguageWords || digitPattern.MatchString(lang.Name) {
					continue
				}
				key := strings.ToLower(lang.Name)
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, lang)
			}
		}
	}
	return out
}

// extractContact finds the email, phone and name in the header block, or in
// the first lines of the document when no header segment exists.
func extractContact(segments []types.Segment) Contact {
	var lines []string
	if header := types.SegmentsOfKind(segments, types.SectionHeader); len(header) > 0 {
		for _, s := range header {
			lines = append(lines, s.Lines()...)
		}
	} else if len(segments) > 0 {
		lines = segments[0].Lines()
		if len(lines) > 5 {
			lines = lines[:5]
		}
	}

	var c Contact
	for _, l := range lines {
		if c.Email == "" {
			c.Email = emailPattern.FindString(l)
		}
		if c.Phone == "" {
			if p := phonePattern.FindString(l); p != "" && !yearRangeOnly(p) {
				c.Phone = strings.TrimSpace(p)
			}
		}
		if c.Name == "" && looksLikeName(l) {
			c.Name = l
		}
	}
	return c
}

func looksLikeName(line string) bool {
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > maxNameWords {
		return false
	}
	if strings.ContainsAny(line, "@:/|,") || digitPattern.MatchString(line) {
		return false
	}
	for _, w := range words {
		r := []rune(w)
		if len(r) == 0 || !(r[0] >= 'A' && r[0] <= 'Z' || r[0] > 127) {
			return false
		}
	}
	return !roleKeywords.In(line)
}

// yearRangeOnly reports whether a phone-shaped match is really "2019 - 2021".
func yearRangeOnly(s string) bool {
	return len(yearPattern.FindAllString(s, -1)) >= 2 && len(strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)) == 8
}
