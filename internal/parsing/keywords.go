package parsing

import (
	"regexp"
	"strings"
)

// wordSet is a case-insensitive set of whole words or phrases matched on word
// boundaries.
type wordSet struct {
	re *regexp.Regexp
}

func newWordSet(words ...string) wordSet {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return wordSet{re: regexp.MustCompile(`(?i)(?:^|[^\pL\pN])(?:` + strings.Join(quoted, "|") + `)(?:$|[^\pL\pN])`)}
}

// In reports whether s contains any member of the set.
func (w wordSet) In(s string) bool {
	return w.re.MatchString(s)
}

var (
	roleKeywords = newWordSet(
		"developer", "engineer", "manager", "analyst", "intern", "internship", "consultant",
		"architect", "designer", "lead", "scientist", "specialist", "administrator",
		"director", "officer", "associate", "assistant", "coordinator", "head",
		"executive", "trainee", "programmer", "tester", "technician", "founder",
		"co-founder", "cto", "ceo", "cfo", "vp", "vice president", "president",
		"sde", "sre", "devops", "qa", "researcher", "fellow", "freelancer",
		"contractor", "owner", "partner", "representative", "supervisor", "advisor",
		"instructor", "teacher", "tutor", "editor", "writer", "strategist", "accountant",
	)

	actionVerbs = newWordSet(
		"developed", "built", "led", "managed", "created", "implemented", "designed",
		"improved", "increased", "reduced", "delivered", "launched", "maintained",
		"collaborated", "worked", "responsible", "achieved", "optimized", "migrated",
		"automated", "architected", "mentored", "established", "deployed", "wrote",
		"spearheaded", "coordinated", "analyzed", "conducted", "supported", "handled",
		"utilized", "using", "used", "leveraged", "ensured", "drove", "owned",
		"develop", "build", "manage", "create", "implement", "design", "maintain",
	)

	institutionKeywords = newWordSet(
		"university", "college", "institute", "institution", "school", "academy",
		"polytechnic", "universidad", "université", "universität", "iit", "nit",
	)

	degreeKeywords = newWordSet(
		"bachelor", "bachelors", "bachelor's", "master", "masters", "master's", "mca", "bca",
		"mba", "b.sc", "bsc", "m.sc", "msc", "b.s", "m.s", "b.a", "m.a", "b.tech", "btech",
		"m.tech", "mtech", "b.e", "m.e", "b.com", "m.com", "phd", "ph.d", "doctorate",
		"doctor of", "associate degree", "associate of", "diploma", "high school", "hsc",
		"ssc", "a-levels", "gcse", "degree",
	)

	legalSuffixes = newWordSet(
		"ltd", "ltd.", "limited", "inc", "inc.", "llc", "llp", "plc", "corp", "corp.",
		"corporation", "co.", "company", "gmbh", "ag", "s.a.", "pvt", "pvt.", "private",
		"technologies", "technology", "solutions", "systems", "labs", "group",
		"software", "services", "consulting", "partners", "holdings", "bank",
		"studios", "ventures", "networks", "industries", "enterprises", "global",
	)

	legalForms = newWordSet(
		"ltd", "ltd.", "limited", "inc", "inc.", "llc", "llp", "plc", "corp", "corp.",
		"co.", "gmbh", "ag", "s.a.", "pvt", "pvt.",
	)

	locationWords = newWordSet(
		"remote", "hybrid", "onsite", "on-site", "usa", "united states", "uk",
		"united kingdom", "india", "canada", "germany", "europe",
	)

	proficiencyWords = newWordSet(
		"native", "mother tongue", "fluent", "fluency", "proficient", "proficiency",
		"professional", "full professional", "working", "limited working", "intermediate",
		"basic", "beginner", "conversational", "elementary", "advanced", "bilingual",
		"a1", "a2", "b1", "b2", "c1", "c2",
	)

	preferredCues = newWordSet(
		"nice to have", "nice-to-have", "preferred", "a plus", "is a plus", "bonus",
		"desirable", "good to have", "ideally", "optional",
	)
)

var (
	yearPattern     = regexp.MustCompile(`\b(19[5-9]\d|20\d{2})\b`)
	digitPattern    = regexp.MustCompile(`\d`)
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern    = regexp.MustCompile(`(?:\+?\d{1,3}[\s.\-]?)?(?:\(\d{2,4}\)[\s.\-]?)?\d[\d\s.\-]{6,}\d`)
	urlPattern      = regexp.MustCompile(`(?i)\b(?:https?://|www\.|github\.com/|gitlab\.com/)[^\s,;|)]+`)
	stateCode       = regexp.MustCompile(`^[A-Z]{2}$`)
	bulletPrefix    = regexp.MustCompile(`^(?:[-*•·▪●◦‣–—○■►✓➢]+|\d{1,2}[.)])\s*`)
	pieceSeparators = regexp.MustCompile(`\s+[|@·•]\s+|\s+[-–—]\s+|\s*\|\s*|,\s+|\s+at\s+|\t+`)
	emptyBrackets   = regexp.MustCompile(`\(\s*\)|\[\s*\]`)
)

// stripBullet removes a leading list marker.
func stripBullet(line string) string {
	return strings.TrimSpace(bulletPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
}

// isBulletLine reports whether the line starts with a list marker.
func isBulletLine(line string) bool {
	return bulletPrefix.MatchString(strings.TrimSpace(line))
}

// splitPieces splits a header line on the separators résumés use between
// title, company and location.
func splitPieces(line string) []string {
	var out []string
	// a range cut out of "Title (Jan 2019 - Present)" leaves "( )"
	line = emptyBrackets.ReplaceAllString(line, " ")
	for _, p := range pieceSeparators.Split(line, -1) {
		p = strings.Trim(p, " \t,;:|()[]")
		if p == "" {
			continue
		}
		// "Acme, Inc." stays one piece
		if len(out) > 0 && wordCount(p) == 1 && legalForms.In(p) {
			out[len(out)-1] += ", " + p
			continue
		}
		out = append(out, p)
	}
	return out
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
