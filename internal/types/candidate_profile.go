// Package types provides type definitions for structured data used throughout the resume-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// CandidateProfile is the structured form of a résumé. Every entity list is
// owned by the profile that produced it.
type CandidateProfile struct {
	ID              uuid.UUID         `json:"id"`
	Version         int               `json:"version"`
	Name            string            `json:"name,omitempty"`
	Email           string            `json:"email,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	Experience      []ExperienceEntry `json:"experience"`
	Education       []EducationEntry  `json:"education"`
	Projects        []ProjectEntry    `json:"projects"`
	Certifications  []Certification   `json:"certifications"`
	Languages       []Language        `json:"languages"`
	Skills          SkillSet          `json:"skills"`
	ExperienceYears *float64          `json:"experience_years,omitempty"`
	RawText         string            `json:"raw_text"`
	SourceHash      string            `json:"source_hash,omitempty"`
	BuiltAt         time.Time         `json:"built_at"`
}

// YearsOrZero returns the derived experience figure, treating "not enough
// signal" as zero years.
func (c *CandidateProfile) YearsOrZero() float64 {
	if c.ExperienceYears == nil {
		return 0
	}
	return *c.ExperienceYears
}
