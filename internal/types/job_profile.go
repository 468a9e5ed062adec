// Package types provides type definitions for structured data used throughout the resume-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// JobProfile is the structured form of a job posting. A profile is immutable
// once built; re-parsing produces a new Version.
type JobProfile struct {
	ID                      uuid.UUID `json:"id"`
	Version                 int       `json:"version"`
	Title                   string    `json:"title,omitempty"`
	Company                 string    `json:"company,omitempty"`
	RequiredSkills          []string  `json:"required_skills"`
	NiceToHaveSkills        []string  `json:"nice_to_have_skills"`
	ExperienceYearsRequired *float64  `json:"experience_years_required,omitempty"`
	Responsibilities        []string  `json:"responsibilities"`
	Description             string    `json:"description"`
	RawText                 string    `json:"raw_text"`
	SourceHash              string    `json:"source_hash,omitempty"`
	ParsedBy                string    `json:"parsed_by,omitempty"`
	BuiltAt                 time.Time `json:"built_at"`
}

// AllSkills returns required followed by nice-to-have skills.
func (j *JobProfile) AllSkills() []string {
	out := make([]string, 0, len(j.RequiredSkills)+len(j.NiceToHaveSkills))
	out = append(out, j.RequiredSkills...)
	return append(out, j.NiceToHaveSkills...)
}
