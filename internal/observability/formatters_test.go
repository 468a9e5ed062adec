package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintSegments(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSegments([]types.Segment{
		{SectionKind: types.SectionHeader, Column: types.ColumnFull, Text: "Jane Doe\njane@example.com", Confidence: 1},
		{SectionKind: types.SectionExperience, Column: types.ColumnLeft, Text: "Senior Engineer, Acme", Confidence: 0.92},
	})
	output := buf.String()

	assert.Contains(t, output, "SEGMENTS (2)")
	assert.Contains(t, output, "header")
	assert.Contains(t, output, "2 lines")
	assert.Contains(t, output, "experience")
	assert.Contains(t, output, "conf 0.92")
	assert.Contains(t, output, "Senior Engineer, Acme")
}

func TestPrintSegments_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSegments(nil)
	assert.Empty(t, buf.String())
}

func TestPrintCandidateProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	years := 6.5
	p.PrintCandidateProfile(&types.CandidateProfile{
		Version: 2,
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Experience: []types.ExperienceEntry{
			{Title: "Senior Engineer", Company: "Acme", StartDate: &types.PartialDate{Year: 2019, Month: 3}, EndDate: types.PresentDate()},
			{Title: "Engineer", Company: "Initech"},
		},
		Education:       []types.EducationEntry{{Degree: "BSc Computer Science", Institution: "State University"}},
		Skills:          types.SkillSet{types.CategoryBackend: {"Go", "PostgreSQL"}},
		ExperienceYears: &years,
	})
	output := buf.String()

	assert.Contains(t, output, "CANDIDATE PROFILE")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "Years:    6.5")
	assert.Contains(t, output, "Senior Engineer, Acme (2019-03 – present)")
	assert.Contains(t, output, "Engineer, Initech (dates unknown)")
	assert.Contains(t, output, "BSc Computer Science, State University")
	assert.Contains(t, output, "Go, PostgreSQL")
}

func TestPrintJobProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	years := 5.0
	p.PrintJobProfile(&types.JobProfile{
		Company:                 "Acme Corp",
		Title:                   "Senior Engineer",
		RequiredSkills:          []string{"Go", "Kubernetes", "PostgreSQL", "Kafka", "gRPC", "Terraform"},
		NiceToHaveSkills:        []string{"Rust"},
		ExperienceYearsRequired: &years,
		ParsedBy:                "rules",
	})
	output := buf.String()

	assert.Contains(t, output, "PARSED JOB PROFILE")
	assert.Contains(t, output, "Acme Corp")
	assert.Contains(t, output, "Senior Engineer")
	assert.Contains(t, output, "Years:    5+")
	assert.Contains(t, output, "Parser:   rules")
	assert.Contains(t, output, "... and 1 more")
	assert.NotContains(t, output, "Terraform")
	assert.Contains(t, output, "Rust")
}

func TestPrintJobProfile_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobProfile(nil)
	p.PrintCandidateProfile(nil)
	p.PrintMatchScore(nil)

	assert.Empty(t, buf.String())
}

func TestPrintMatchScore(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	pct := 80.0
	p.PrintMatchScore(&types.MatchScore{
		Overall:         72.3,
		Confidence:      types.ConfidenceHigh,
		DimensionScores: types.DimensionScores{SkillMatch: 90, Experience: 60, ProjectSimilarity: 50, DomainFamiliarity: 40},
		PercentileRank:  &pct,
		MatchedSkills:   []string{"Go"},
		Notes:           "Strong skill overlap.",
	})
	output := buf.String()

	assert.Contains(t, output, "MATCH SCORE")
	assert.Contains(t, output, "Overall:     72.3 (high confidence)")
	assert.Contains(t, output, "Percentile:  80.0")
	assert.Contains(t, output, "Skills        90.0")
	assert.Contains(t, output, "Matched: Go")
	assert.Contains(t, output, "Missing: none")
	assert.Contains(t, output, "Strong skill overlap.")
}

func TestPrintRanking(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	jane, anon := uuid.New(), uuid.New()
	scores := []*types.MatchScore{
		{CandidateID: jane, Overall: 88, Confidence: types.ConfidenceHigh},
		{CandidateID: anon, Overall: 41, Confidence: types.ConfidenceLow, MissingSkills: []string{"Kafka"}},
	}
	for i := 0; i < 5; i++ {
		scores = append(scores, &types.MatchScore{CandidateID: uuid.New(), Overall: 10})
	}

	p.PrintRanking(scores, map[uuid.UUID]string{jane: "Jane Doe"})
	output := buf.String()

	assert.Contains(t, output, "RANKING")
	assert.Contains(t, output, "Candidates ranked: 7")
	assert.Contains(t, output, "#1  Jane Doe")
	assert.Contains(t, output, "#2  "+anon.String()[:8])
	assert.Contains(t, output, "Missing: Kafka")
	assert.Contains(t, output, "... and 2 more candidates")
}

func TestPrintExplanation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintExplanation(types.Explanation{
		Strengths:       []string{"Deep Go experience"},
		Recommendations: []string{"Probe Kafka depth"},
		Source:          "rules",
	})
	output := buf.String()

	assert.Contains(t, output, "EXPLANATION (rules)")
	assert.Contains(t, output, "Strengths:")
	assert.Contains(t, output, "Deep Go experience")
	assert.NotContains(t, output, "Weaknesses:")
	assert.Contains(t, output, "Probe Kafka depth")
}

func TestPrintExplanation_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintExplanation(types.Explanation{Source: "llm"})
	assert.Empty(t, buf.String())
}

func TestPrintBox_AlignsMultibyteLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", "résumé\n"+strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}
