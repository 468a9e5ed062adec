// Package types provides type definitions for structured data used throughout the resume-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// Confidence is a coarse label derived from the overall score
type Confidence string

// Confidence levels
const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// DimensionScores holds the per-dimension scores, each in [0,100]
type DimensionScores struct {
	SkillMatch        float64 `json:"skill_match" validate:"gte=0,lte=100"`
	Experience        float64 `json:"experience" validate:"gte=0,lte=100"`
	ProjectSimilarity float64 `json:"project_similarity" validate:"gte=0,lte=100"`
	DomainFamiliarity float64 `json:"domain_familiarity" validate:"gte=0,lte=100"`
}

// MatchScore is the explainable result of scoring one candidate against one job
type MatchScore struct {
	CandidateID     uuid.UUID       `json:"candidate_id"`
	JobID           uuid.UUID       `json:"job_id"`
	Overall         float64         `json:"overall" validate:"gte=0,lte=100"`
	Confidence      Confidence      `json:"confidence" validate:"oneof=low medium high"`
	DimensionScores DimensionScores `json:"dimension_scores"`
	PercentileRank  *float64        `json:"percentile_rank,omitempty" validate:"omitempty,gte=0,lte=100"`
	MatchedSkills   []string        `json:"matched_skills"`
	MissingSkills   []string        `json:"missing_skills"`
	Notes           string          `json:"notes,omitempty"`
	ComputedAt      time.Time       `json:"computed_at"`
}

// ScoreKey identifies a cached score
type ScoreKey struct {
	CandidateID uuid.UUID
	JobID       uuid.UUID
}

// String renders the key for logging and singleflight grouping.
func (k ScoreKey) String() string {
	return k.CandidateID.String() + ":" + k.JobID.String()
}

// Explanation is free-text feedback produced downstream of scoring
type Explanation struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
	Source          string   `json:"source"`
}
