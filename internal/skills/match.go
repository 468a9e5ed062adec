package skills

import (
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	// fuzzyThreshold is the minimum similarity ratio for a fuzzy match
	fuzzyThreshold = 0.85
	// fuzzyMinLength guards fuzzy matching against short tokens ("js" vs "jsx")
	fuzzyMinLength = 4
	// pluralMinLength guards the singular/plural collapse
	pluralMinLength = 3
	// containmentMaxDelta is the largest length difference allowed for containment
	containmentMaxDelta = 3
	// containmentMinLength is the shortest token allowed to match by containment
	containmentMinLength = 3
)

// MatchKind records which rule decided a match
type MatchKind int

// Match rules in precedence order
const (
	MatchNone MatchKind = iota
	MatchExact
	MatchAlias
	MatchFuzzy
	MatchPlural
	MatchContainment
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchAlias:
		return "alias"
	case MatchFuzzy:
		return "fuzzy"
	case MatchPlural:
		return "plural"
	case MatchContainment:
		return "containment"
	default:
		return "none"
	}
}

// Matcher compares skill tokens through an alias table
type Matcher struct {
	table *Table
}

// NewMatcher creates a matcher over the given table. A nil table uses the default.
func NewMatcher(table *Table) *Matcher {
	if table == nil {
		table = defaultTable
	}
	return &Matcher{table: table}
}

var defaultMatcher = NewMatcher(defaultTable)

// Default returns the matcher over the built-in table.
func Default() *Matcher {
	return defaultMatcher
}

// Table returns the matcher's alias table.
func (m *Matcher) Table() *Table {
	return m.table
}

// Normalize canonicalizes a token with this matcher's plural table.
func (m *Matcher) Normalize(skill string) string {
	return normalizeWith(skill, m.table.plurals)
}

// Match reports whether a and b name the same skill.
func (m *Matcher) Match(a, b string) bool {
	return m.Explain(a, b) != MatchNone
}

// Explain returns the first rule under which a and b match. Rules are tried
// in order: exact, alias cluster, guarded fuzzy, singular/plural and
// containment. A denylisted pair never matches under any rule but exact.
func (m *Matcher) Explain(a, b string) MatchKind {
	na, nb := m.Normalize(a), m.Normalize(b)
	if na == "" || nb == "" {
		return MatchNone
	}
	if na == nb {
		return MatchExact
	}
	if m.table.denied(na, nb) {
		return MatchNone
	}

	if ca := m.table.cluster(na); ca >= 0 && ca == m.table.cluster(nb) {
		return MatchAlias
	}

	if len(na) >= fuzzyMinLength && len(nb) >= fuzzyMinLength && Ratio(na, nb) >= fuzzyThreshold {
		return MatchFuzzy
	}

	if len(na) >= pluralMinLength && len(nb) >= pluralMinLength && singularize(na) == singularize(nb) {
		return MatchPlural
	}

	shorter, longer := na, nb
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) >= containmentMinLength &&
		len(longer)-len(shorter) <= containmentMaxDelta &&
		strings.Contains(longer, shorter) {
		return MatchContainment
	}

	return MatchNone
}

// Canonical returns the display name of the token's alias cluster, or the
// trimmed token itself when it is not in the table.
func (m *Matcher) Canonical(skill string) string {
	if idx := m.table.cluster(m.Normalize(skill)); idx >= 0 {
		return m.table.clusters[idx].Name
	}
	return strings.TrimSpace(skill)
}

// Known reports whether the token belongs to an alias cluster.
func (m *Matcher) Known(skill string) bool {
	return m.table.cluster(m.Normalize(skill)) >= 0
}

// CategoryOf returns the category of a token. Unknown tokens are filed under tools.
func (m *Matcher) CategoryOf(skill string) types.SkillCategory {
	if idx := m.table.cluster(m.Normalize(skill)); idx >= 0 && m.table.clusters[idx].Category != "" {
		return m.table.clusters[idx].Category
	}
	return types.CategoryTools
}

// IndexOf returns the index of the first element of list matching skill, or -1.
func (m *Matcher) IndexOf(list []string, skill string) int {
	for i, candidate := range list {
		if m.Match(candidate, skill) {
			return i
		}
	}
	return -1
}

// Contains reports whether any element of list matches skill.
func (m *Matcher) Contains(list []string, skill string) bool {
	return m.IndexOf(list, skill) >= 0
}

// Dedupe drops later elements that match an earlier one, keeping first occurrences verbatim.
func (m *Matcher) Dedupe(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if strings.TrimSpace(s) == "" {
			continue
		}
		if !m.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// Match reports whether a and b name the same skill under the default table.
func Match(a, b string) bool {
	return defaultMatcher.Match(a, b)
}

// Canonical returns the default-table display name for a token.
func Canonical(skill string) string {
	return defaultMatcher.Canonical(skill)
}

// Known reports whether the default table knows the token.
func Known(skill string) bool {
	return defaultMatcher.Known(skill)
}

// CategoryOf returns the default-table category of a token.
func CategoryOf(skill string) types.SkillCategory {
	return defaultMatcher.CategoryOf(skill)
}
