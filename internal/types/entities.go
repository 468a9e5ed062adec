// Package types provides type definitions for structured data used throughout the resume-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PartialDate is a date known to year or year+month granularity, or the
// open-ended "present" marker. Month is 0 when unknown.
type PartialDate struct {
	Year    int
	Month   int
	Present bool
}

// PresentDate returns the open-ended end marker.
func PresentDate() *PartialDate {
	return &PartialDate{Present: true}
}

// String renders the date as "2019", "2019-03" or "present".
func (d PartialDate) String() string {
	switch {
	case d.Present:
		return "present"
	case d.Month > 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d", d.Year)
	}
}

// Before reports whether d sorts strictly before o. Present sorts after every
// concrete date; an unknown month sorts as January.
func (d PartialDate) Before(o PartialDate) bool {
	if d.Present {
		return false
	}
	if o.Present {
		return true
	}
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	return max(d.Month, 1) < max(o.Month, 1)
}

// MarshalJSON encodes the date as a string.
func (d PartialDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes "YYYY", "YYYY-MM" or "present".
func (d *PartialDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("partial date must be a string: %w", err)
	}
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "present" {
		*d = PartialDate{Present: true}
		return nil
	}
	parts := strings.SplitN(s, "-", 2)
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return fmt.Errorf("invalid partial date %q: %w", s, err)
	}
	month := 0
	if len(parts) == 2 {
		month, err = strconv.Atoi(parts[1])
		if err != nil || month < 1 || month > 12 {
			return fmt.Errorf("invalid partial date month %q", s)
		}
	}
	*d = PartialDate{Year: year, Month: month}
	return nil
}

// ExperienceEntry is one job extracted from a résumé
type ExperienceEntry struct {
	Title        string       `json:"title,omitempty"`
	Company      string       `json:"company,omitempty"`
	StartDate    *PartialDate `json:"start_date,omitempty"`
	EndDate      *PartialDate `json:"end_date,omitempty"`
	Description  string       `json:"description,omitempty"`
	Technologies []string     `json:"technologies"`
}

// IsCurrent reports whether the entry is open-ended.
func (e ExperienceEntry) IsCurrent() bool {
	return e.EndDate != nil && e.EndDate.Present
}

// HasDateRange reports whether both ends of the range are known.
func (e ExperienceEntry) HasDateRange() bool {
	return e.StartDate != nil && e.EndDate != nil
}

// EducationEntry is one academic record
type EducationEntry struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Field       string `json:"field,omitempty"`
	Year        string `json:"year,omitempty"`
}

// ProjectEntry is one personal, academic or professional project
type ProjectEntry struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url,omitempty"`
}

// Text returns everything known about the project as one string, used for keyword matching.
func (p ProjectEntry) Text() string {
	return strings.Join([]string{p.Name, p.Description, strings.Join(p.Technologies, " ")}, " ")
}

// Certification is a license or certificate line
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Year   string `json:"year,omitempty"`
}

// Language is a spoken language with optional proficiency
type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

// SkillCategory groups skill tokens
type SkillCategory string

// Skill categories
const (
	CategoryFrontend SkillCategory = "frontend"
	CategoryBackend  SkillCategory = "backend"
	CategoryData     SkillCategory = "data"
	CategoryDevOps   SkillCategory = "devops"
	CategoryAIML     SkillCategory = "ai-ml"
	CategoryTools    SkillCategory = "tools"
	CategorySoft     SkillCategory = "soft"
)

// AllCategories lists categories in display order.
var AllCategories = []SkillCategory{
	CategoryFrontend, CategoryBackend, CategoryData, CategoryDevOps,
	CategoryAIML, CategoryTools, CategorySoft,
}

// SkillSet holds verbatim skill tokens grouped by category. Tokens are never
// compared by raw string equality; use the skills package for matching.
type SkillSet map[SkillCategory][]string

// Add appends a token to a category.
func (s SkillSet) Add(category SkillCategory, token string) {
	s[category] = append(s[category], token)
}

// All returns every token, ordered by category then insertion.
func (s SkillSet) All() []string {
	var out []string
	for _, c := range AllCategories {
		out = append(out, s[c]...)
	}
	// Categories outside the known list (e.g. from older stored profiles)
	var extra []string
	for c := range s {
		if !isKnownCategory(c) {
			extra = append(extra, string(c))
		}
	}
	sort.Strings(extra)
	for _, c := range extra {
		out = append(out, s[SkillCategory(c)]...)
	}
	return out
}

// Len returns the total number of tokens.
func (s SkillSet) Len() int {
	n := 0
	for _, tokens := range s {
		n += len(tokens)
	}
	return n
}

func isKnownCategory(c SkillCategory) bool {
	for _, k := range AllCategories {
		if k == c {
			return true
		}
	}
	return false
}
