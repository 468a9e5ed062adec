package skills

import (
	"sort"
	"unicode"
)

// FindInText scans free text for known skill names and returns their
// canonical names in order of first appearance. Ambiguous names such as "Go"
// or "Spring" only count when written with a leading capital letter.
func (m *Matcher) FindInText(text string) []string {
	original := []rune(text)
	folded := foldText(original)
	if len(folded) == 0 {
		return nil
	}

	first := make(map[int]int)
	// claimed marks runes already matched by a longer alias
	claimed := make([]bool, len(folded))

	for _, alias := range m.table.aliases {
		needle := []rune(alias)
		idx := m.table.index[alias]
		for _, pos := range findWord(folded, needle) {
			end := pos + len(needle)
			if anyClaimed(claimed, pos, end) {
				continue
			}
			if m.table.ambiguous[alias] && !unicode.IsUpper(original[pos]) {
				continue
			}
			for i := pos; i < end; i++ {
				claimed[i] = true
			}
			if at, ok := first[idx]; !ok || pos < at {
				first[idx] = pos
			}
		}
	}

	found := make([]int, 0, len(first))
	for idx := range first {
		found = append(found, idx)
	}
	sort.Slice(found, func(i, j int) bool { return first[found[i]] < first[found[j]] })

	out := make([]string, len(found))
	for i, idx := range found {
		out[i] = m.table.clusters[idx].Name
	}
	return out
}

// FindInText scans text with the default table.
func FindInText(text string) []string {
	return defaultMatcher.FindInText(text)
}

// foldText lowercases text rune by rune and blanks out punctuation the same
// way normalizeWith does, keeping rune offsets aligned with the input.
func foldText(text []rune) []rune {
	out := make([]rune, len(text))
	for i, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			out[i] = unicode.ToLower(r)
		case r == '-' || r == '.' || r == '+' || r == '#':
			out[i] = r
		default:
			out[i] = ' '
		}
	}
	return out
}

// findWord returns offsets of whole-word occurrences of needle in haystack.
func findWord(haystack, needle []rune) []int {
	var out []int
	n := len(needle)
	for pos := 0; pos+n <= len(haystack); pos++ {
		if !equalAt(haystack, needle, pos) {
			continue
		}
		if boundaryBefore(haystack, pos) && boundaryAfter(haystack, pos+n) {
			out = append(out, pos)
		}
	}
	return out
}

func equalAt(haystack, needle []rune, pos int) bool {
	for i, r := range needle {
		if haystack[pos+i] != r {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#'
}

// joiner reports whether r glues two words into one token ("node.js", "c-level").
func joiner(r rune) bool {
	return r == '.' || r == '-'
}

func boundaryBefore(s []rune, pos int) bool {
	if pos == 0 {
		return true
	}
	prev := s[pos-1]
	if isWordRune(prev) {
		return false
	}
	if joiner(prev) && pos >= 2 && isWordRune(s[pos-2]) {
		return false
	}
	return true
}

func boundaryAfter(s []rune, end int) bool {
	if end >= len(s) {
		return true
	}
	next := s[end]
	if isWordRune(next) {
		return false
	}
	if joiner(next) && end+1 < len(s) && isWordRune(s[end+1]) {
		return false
	}
	return true
}

func anyClaimed(claimed []bool, from, to int) bool {
	for i := from; i < to; i++ {
		if claimed[i] {
			return true
		}
	}
	return false
}
