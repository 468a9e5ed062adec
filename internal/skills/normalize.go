package skills

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes a skill token using the default table: lowercase,
// punctuation other than '-', '.', '+' and '#' replaced by spaces, trailing
// periods removed, whitespace collapsed and known plural terms singularized.
func Normalize(skill string) string {
	return normalizeWith(skill, defaultTable.plurals)
}

func normalizeWith(skill string, plurals map[string]string) string {
	if skill == "" {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(skill))
	for _, r := range strings.ToLower(skill) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case r == '-' || r == '.' || r == '+' || r == '#':
			sb.WriteRune(r)
		default:
			sb.WriteByte(' ')
		}
	}

	words := strings.Fields(sb.String())
	out := words[:0]
	for _, w := range words {
		w = strings.TrimRight(w, ".")
		w = strings.Trim(w, "-")
		if w == "" {
			continue
		}
		if singular, ok := plurals[w]; ok {
			w = singular
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

// singularize collapses a regular English plural. Tokens shorter than three
// characters are returned unchanged.
func singularize(s string) string {
	if len(s) < 3 {
		return s
	}
	switch {
	case strings.HasSuffix(s, "ies") && len(s) > 4:
		return s[:len(s)-3] + "y"
	case strings.HasSuffix(s, "sses"), strings.HasSuffix(s, "xes"),
		strings.HasSuffix(s, "ches"), strings.HasSuffix(s, "shes"):
		return s[:len(s)-2]
	case strings.HasSuffix(s, "ss"), strings.HasSuffix(s, "us"), strings.HasSuffix(s, "is"):
		return s
	case strings.HasSuffix(s, "s"):
		return s[:len(s)-1]
	}
	return s
}
