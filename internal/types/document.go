// Package types provides type definitions for structured data used throughout the resume-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// RawDocument is the immutable input to the segmenter: plain text plus optional
// positioned tokens from a PDF text layer or an OCR provider.
type RawDocument struct {
	Text   string  `json:"text"`
	Tokens []Token `json:"tokens,omitempty"`
}

// Token is a single positioned word. Coordinates are in page units with the
// origin at the top-left corner.
type Token struct {
	Text   string  `json:"text"`
	Page   int     `json:"page"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the right edge of the token.
func (t Token) Right() float64 {
	return t.Left + t.Width
}

// HasTokens reports whether spatial data is available.
func (d RawDocument) HasTokens() bool {
	return len(d.Tokens) > 0
}

// SectionKind labels the logical section a segment belongs to
type SectionKind string

// Resume section kinds
const (
	SectionExperience     SectionKind = "experience"
	SectionEducation      SectionKind = "education"
	SectionSkills         SectionKind = "skills"
	SectionProjects       SectionKind = "projects"
	SectionCertifications SectionKind = "certifications"
	SectionLanguages      SectionKind = "languages"
	SectionHeader         SectionKind = "header"
	SectionOther          SectionKind = "other"
)

// Job posting section kinds
const (
	SectionRequirements     SectionKind = "requirements"
	SectionPreferred        SectionKind = "preferred"
	SectionResponsibilities SectionKind = "responsibilities"
)

// Column identifies which column of a page a segment was read from
type Column string

// Column values
const (
	ColumnLeft  Column = "left"
	ColumnRight Column = "right"
	ColumnFull  Column = "full"
)

// Segment is a contiguous span of document text attributed to one section and column
type Segment struct {
	SectionKind SectionKind `json:"section_kind"`
	Column      Column      `json:"column"`
	Text        string      `json:"text"`
	Confidence  float64     `json:"confidence"`
}

// Lines returns the non-empty, trimmed lines of the segment text.
func (s Segment) Lines() []string {
	raw := strings.Split(s.Text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// SegmentsOfKind filters segments by section kind, preserving order.
func SegmentsOfKind(segments []Segment, kind SectionKind) []Segment {
	var out []Segment
	for _, s := range segments {
		if s.SectionKind == kind {
			out = append(out, s)
		}
	}
	return out
}
