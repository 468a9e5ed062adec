package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	maxSkillWords = 4
	maxSkillChars = 40
	maxLabelWords = 4
)

var (
	skillDelimiters = regexp.MustCompile(`\s*[,;|•·▪●]\s*`)
	parenthetical   = regexp.MustCompile(`[()\[\]]`)
	conjunction     = regexp.MustCompile(`(?i)\s+(?:and|&)\s+`)
	numericOnly     = regexp.MustCompile(`^[\d\s.+\-/%]+$`)
)

// extractSkills reads skills segments. Without any, known skill names are
// scanned from the whole document.
func (e *Extractor) extractSkills(segments []types.Segment) types.SkillSet {
	set := types.SkillSet{}
	var tokens []string

	skillSegments := types.SegmentsOfKind(segments, types.SectionSkills)
	if len(skillSegments) == 0 {
		var text []string
		for _, s := range segments {
			text = append(text, s.Text)
		}
		tokens = e.matcher.FindInText(strings.Join(text, "\n"))
	} else {
		for _, s := range skillSegments {
			for _, line := range s.Lines() {
				tokens = append(tokens, e.skillTokens(line)...)
			}
		}
	}

	for _, token := range e.matcher.Dedupe(tokens) {
		set.Add(e.matcher.CategoryOf(token), token)
	}
	return set
}

// skillTokens splits one skills line. "Category: a, b" lines drop the label;
// unlabeled lines are split on delimiters, or on spaces when every word is a
// known skill.
func (e *Extractor) skillTokens(line string) []string {
	line = stripBullet(line)
	if line == "" {
		return nil
	}
	if i := strings.Index(line, ":"); i > 0 {
		label := line[:i]
		if wordCount(label) <= maxLabelWords && !digitPattern.MatchString(label) {
			line = line[i+1:]
		}
	}
	line = parenthetical.ReplaceAllString(line, ",")

	var out []string
	for _, piece := range skillDelimiters.Split(line, -1) {
		piece = strings.TrimSpace(strings.TrimRight(strings.Trim(piece, " &"), "."))
		if piece == "" {
			continue
		}
		for _, part := range e.splitConjunctions(piece) {
			for _, token := range e.splitSlashes(part) {
				out = append(out, e.splitSpaces(token)...)
			}
		}
	}

	valid := out[:0]
	for _, token := range out {
		if validSkillToken(token) {
			valid = append(valid, token)
		}
	}
	return valid
}

// splitConjunctions splits "Kubernetes and Terraform" unless the whole piece
// is a known name.
func (e *Extractor) splitConjunctions(piece string) []string {
	if !conjunction.MatchString(piece) || e.matcher.Known(piece) {
		return []string{piece}
	}
	var out []string
	for _, p := range conjunction.Split(piece, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitSlashes splits "React/Redux" but keeps known names like "CI/CD".
func (e *Extractor) splitSlashes(piece string) []string {
	if !strings.Contains(piece, "/") || e.matcher.Known(piece) {
		return []string{piece}
	}
	var out []string
	for _, p := range strings.Split(piece, "/") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitSpaces splits "Python Java SQL" when every word is a known skill and
// the whole piece is not.
func (e *Extractor) splitSpaces(piece string) []string {
	words := strings.Fields(piece)
	if len(words) < 2 || e.matcher.Known(piece) {
		return []string{piece}
	}
	for _, w := range words {
		if !e.matcher.Known(w) {
			if len(words) > maxSkillWords {
				// a sentence; salvage the skills it names
				return e.matcher.FindInText(piece)
			}
			return []string{piece}
		}
	}
	return words
}

// validSkillToken rejects sentences, dates and noise.
func validSkillToken(token string) bool {
	switch {
	case token == "",
		len(token) > maxSkillChars,
		wordCount(token) > maxSkillWords,
		actionVerbs.In(token),
		yearPattern.MatchString(token),
		numericOnly.MatchString(token):
		return false
	}
	return true
}
