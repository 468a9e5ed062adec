// Package skills normalizes skill vocabulary and decides whether two skill
// tokens refer to the same thing.
package skills

import (
	"sort"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// Cluster is a set of skill-name variants treated as equivalent. Name is the
// canonical display form.
type Cluster struct {
	Name     string              `yaml:"name"`
	Category types.SkillCategory `yaml:"category"`
	Aliases  []string            `yaml:"aliases"`
	// Ambiguous lists aliases that are also ordinary English words ("go",
	// "spring"); FindInText only accepts capitalized occurrences of them.
	Ambiguous []string `yaml:"ambiguous"`
}

// Table is an immutable alias table. Build one with NewTable or Table.With;
// a Table is safe for concurrent use.
type Table struct {
	clusters  []Cluster
	index     map[string]int
	denylist  map[[2]string]struct{}
	plurals   map[string]string
	ambiguous map[string]bool
	// aliases sorted longest first so multi-word names win in FindInText
	aliases []string
}

// NewTable builds a table from clusters, denylisted pairs and a plural map.
// Aliases are normalized with the supplied plural map before indexing.
func NewTable(clusters []Cluster, denylist [][2]string, plurals map[string]string) *Table {
	t := &Table{
		index:     make(map[string]int),
		denylist:  make(map[[2]string]struct{}),
		plurals:   make(map[string]string, len(plurals)),
		ambiguous: make(map[string]bool),
	}
	for k, v := range plurals {
		t.plurals[strings.ToLower(k)] = strings.ToLower(v)
	}
	for _, c := range clusters {
		t.addCluster(c)
	}
	for _, pair := range denylist {
		t.addDenied(pair[0], pair[1])
	}
	t.sortAliases()
	return t
}

// With returns a new table with the overlay applied on top of t. Clusters whose
// name matches an existing cluster extend it; others are appended.
func (t *Table) With(o Overlay) *Table {
	plurals := make(map[string]string, len(t.plurals)+len(o.Plurals))
	for k, v := range t.plurals {
		plurals[k] = v
	}
	for k, v := range o.Plurals {
		plurals[k] = v
	}

	clusters := make([]Cluster, len(t.clusters))
	for i, c := range t.clusters {
		c.Aliases = append([]string(nil), c.Aliases...)
		c.Ambiguous = append([]string(nil), c.Ambiguous...)
		clusters[i] = c
	}
	for _, extra := range o.Clusters {
		merged := false
		for i := range clusters {
			if strings.EqualFold(clusters[i].Name, extra.Name) {
				clusters[i].Aliases = append(clusters[i].Aliases, extra.Aliases...)
				clusters[i].Ambiguous = append(clusters[i].Ambiguous, extra.Ambiguous...)
				if extra.Category != "" {
					clusters[i].Category = extra.Category
				}
				merged = true
				break
			}
		}
		if !merged {
			clusters = append(clusters, extra)
		}
	}

	deny := make([][2]string, 0, len(t.denylist)+len(o.Denylist))
	for pair := range t.denylist {
		deny = append(deny, pair)
	}
	for _, pair := range o.Denylist {
		if len(pair) == 2 {
			deny = append(deny, [2]string{pair[0], pair[1]})
		}
	}
	return NewTable(clusters, deny, plurals)
}

func (t *Table) addCluster(c Cluster) {
	idx := len(t.clusters)
	normalized := make([]string, 0, len(c.Aliases)+1)
	ambiguous := make(map[string]bool, len(c.Ambiguous))
	for _, a := range c.Ambiguous {
		ambiguous[normalizeWith(a, t.plurals)] = true
	}
	for _, alias := range append([]string{c.Name}, c.Aliases...) {
		n := normalizeWith(alias, t.plurals)
		if n == "" {
			continue
		}
		if _, taken := t.index[n]; taken {
			continue
		}
		t.index[n] = idx
		normalized = append(normalized, n)
		if ambiguous[n] {
			t.ambiguous[n] = true
		}
	}
	c.Aliases = normalized
	t.clusters = append(t.clusters, c)
}

func (t *Table) addDenied(a, b string) {
	na, nb := normalizeWith(a, t.plurals), normalizeWith(b, t.plurals)
	if na == "" || nb == "" || na == nb {
		return
	}
	t.denylist[pairKey(na, nb)] = struct{}{}
}

func (t *Table) sortAliases() {
	t.aliases = make([]string, 0, len(t.index))
	for alias := range t.index {
		t.aliases = append(t.aliases, alias)
	}
	sort.Slice(t.aliases, func(i, j int) bool {
		if len(t.aliases[i]) != len(t.aliases[j]) {
			return len(t.aliases[i]) > len(t.aliases[j])
		}
		return t.aliases[i] < t.aliases[j]
	})
}

// cluster returns the cluster index of a normalized token, or -1.
func (t *Table) cluster(normalized string) int {
	if idx, ok := t.index[normalized]; ok {
		return idx
	}
	return -1
}

func (t *Table) denied(na, nb string) bool {
	_, ok := t.denylist[pairKey(na, nb)]
	return ok
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// Clusters returns a copy of the table's clusters.
func (t *Table) Clusters() []Cluster {
	out := make([]Cluster, len(t.clusters))
	for i, c := range t.clusters {
		c.Aliases = append([]string(nil), c.Aliases...)
		out[i] = c
	}
	return out
}

// DeniedPairs returns the denylisted pairs in sorted order.
func (t *Table) DeniedPairs() [][2]string {
	out := make([][2]string, 0, len(t.denylist))
	for pair := range t.denylist {
		out = append(out, pair)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}
