// Package layout partitions raw document text into columns and labeled
// sections.
package layout

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// Rule maps a header pattern to a section kind. Patterns are matched against
// the normalized header text (lowercase, outer punctuation stripped, single
// spaces). Strength in (0,1] says how unambiguous the header is.
type Rule struct {
	Kind     types.SectionKind
	Pattern  *regexp.Regexp
	Strength float64
}

// RuleSet is an ordered rule table; the first matching rule wins.
type RuleSet []Rule

// Match returns the first rule matching a raw header line.
func (rs RuleSet) Match(line string) (Rule, bool) {
	text := normalizeHeader(line)
	if text == "" {
		return Rule{}, false
	}
	for _, r := range rs {
		if r.Pattern.MatchString(text) {
			return r, true
		}
	}
	return Rule{}, false
}

func rule(kind types.SectionKind, strength float64, pattern string) Rule {
	return Rule{Kind: kind, Pattern: regexp.MustCompile(`^(?:` + pattern + `)$`), Strength: strength}
}

var resumeRules = RuleSet{
	rule(types.SectionExperience, 1.0, `(?:work|professional|relevant|industry|job)\s+experiences?|experiences?`),
	rule(types.SectionExperience, 1.0, `(?:employment|work|career|professional)\s+(?:history|background|record)`),
	rule(types.SectionExperience, 0.8, `employment|internships?|(?:work\s+)?experience\s*(?:&|and)\s*internships?|internship\s+experience`),

	rule(types.SectionEducation, 1.0, `education(?:al)?(?:\s+(?:background|qualifications?|details|history))?`),
	rule(types.SectionEducation, 0.9, `academics?(?:\s+(?:background|qualifications?|history|details|profile))?|education\s*(?:&|and)\s*(?:training|certifications?)`),
	rule(types.SectionEducation, 0.6, `qualifications?`),

	rule(types.SectionSkills, 1.0, `(?:(?:technical|key|core|professional|relevant|it|computer|soft|hard)\s+)?(?:skills?|competenc(?:y|ies)|proficienc(?:y|ies))(?:\s*(?:&|and)\s*(?:tools|technologies|abilities|interests|expertise))?`),
	rule(types.SectionSkills, 0.9, `tech(?:nical)?\s+stack|technologies|tools\s*(?:&|and)\s*technologies|skill\s*set|areas\s+of\s+expertise|expertise`),

	rule(types.SectionProjects, 1.0, `(?:(?:academic|personal|key|notable|selected|side|relevant|major|professional|technical)\s+)?projects?(?:\s+(?:experience|work|undertaken))?`),

	rule(types.SectionCertifications, 1.0, `certifications?|certificates?|licen[cs]es?(?:\s*(?:&|and)\s*certifications?)?|certifications?\s*(?:&|and)\s*(?:licen[cs]es?|courses|trainings?|awards)`),
	rule(types.SectionCertifications, 0.7, `courses|courses?\s*(?:&|and)\s*certifications?|trainings?|professional\s+development`),

	rule(types.SectionLanguages, 1.0, `(?:spoken\s+)?languages?(?:\s+(?:known|spoken|proficiency))?|language\s+skills`),

	rule(types.SectionOther, 0.6, `(?:professional\s+|career\s+|executive\s+)?summary|profile|(?:career\s+)?objective|about(?:\s+me)?|interests|hobbies(?:\s*(?:&|and)\s*interests)?|achievements|awards(?:\s*(?:&|and)\s*(?:honou?rs|achievements))?|honou?rs|publications|references|volunteer(?:ing|\s+(?:experience|work))?|extra[-\s]?curricular(?:\s+activities)?|activities|declaration|personal\s+(?:details|information|profile)|contact(?:\s+(?:details|information))?`),
}

var jobPostingRules = RuleSet{
	rule(types.SectionRequirements, 1.0, `(?:job\s+|minimum\s+|basic\s+|required\s+|key\s+)?(?:requirements|qualifications)|requirements?\s*(?:&|and)\s*qualifications|must[-\s]haves?|what\s+you(?:'ll)?\s+(?:need|bring)|what\s+we(?:'re|\s+are)\s+looking\s+for|who\s+you\s+are|required\s+skills(?:\s*(?:&|and)\s*experience)?|you\s+have|about\s+you`),
	rule(types.SectionPreferred, 1.0, `(?:preferred|desired|additional|bonus)\s+(?:qualifications|skills|experience)|nice[-\s]to[-\s]haves?|good[-\s]to[-\s]haves?|bonus(?:\s+points)?|pluses|preferred|it(?:'s|\s+is|\s+would\s+be)\s+(?:a\s+)?(?:plus|nice)\s+if(?:\s+you\s+have)?`),
	rule(types.SectionResponsibilities, 1.0, `(?:key\s+|main\s+|job\s+|your\s+)?(?:responsibilities|duties)|what\s+you(?:'ll|\s+will)\s+do|the\s+role|your\s+role|role\s+overview|day[-\s]to[-\s]day|in\s+this\s+role(?:,\s+you\s+will)?|your\s+impact|what\s+you(?:'ll|\s+will)\s+work\s+on`),
	rule(types.SectionSkills, 0.9, `(?:technical\s+)?skills|tech(?:nical)?\s+stack|our\s+stack|technologies|tools\s*(?:&|and)\s*technologies`),
	rule(types.SectionOther, 0.6, `about\s+(?:us|the\s+(?:company|team))|who\s+we\s+are|benefits|perks(?:\s*(?:&|and)\s*benefits)?|compensation|salary|why\s+join\s+us|(?:equal\s+opportunity|eeo)(?:\s+employer|\s+statement)?|how\s+to\s+apply|location|job\s+description|overview|company\s+description|summary`),
}

// ResumeRules returns the header table for résumés.
func ResumeRules() RuleSet {
	return resumeRules
}

// JobPostingRules returns the header table for job postings.
func JobPostingRules() RuleSet {
	return jobPostingRules
}

var (
	headerSpaces  = regexp.MustCompile(`\s+`)
	wordGaps      = regexp.MustCompile(`\s{2,}`)
	headerReplace = strings.NewReplacer("’", "'", "‘", "'", "–", "-", "—", "-", "＆", "&")
)

// normalizeHeader lowercases the line and strips decoration such as markdown
// hashes, emphasis markers, trailing colons and enclosing rules.
func normalizeHeader(line string) string {
	s := headerReplace.Replace(strings.ToLower(line))
	s = strings.Trim(s, " \t#*_=~:|-.>[]")
	words := wordGaps.Split(s, -1)
	for i, w := range words {
		words[i] = collapseSpaced(headerSpaces.ReplaceAllString(w, " "))
	}
	return strings.Join(words, " ")
}

// collapseSpaced joins letter-spaced words such as "e x p e r i e n c e".
func collapseSpaced(s string) string {
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return s
	}
	for _, f := range fields {
		if len([]rune(f)) != 1 {
			return s
		}
	}
	return strings.Join(fields, "")
}
