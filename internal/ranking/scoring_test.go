package ranking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-matcher/internal/experience"
	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func candidateWith(skillNames ...string) *types.CandidateProfile {
	set := types.SkillSet{}
	for _, s := range skillNames {
		set.Add(skills.CategoryOf(s), s)
	}
	return &types.CandidateProfile{ID: uuid.New(), Version: 1, Skills: set}
}

func TestEngine_EndToEndScenario(t *testing.T) {
	evaluatedAt := time.Date(2019, time.July, 1, 0, 0, 0, 0, time.UTC)
	entries := []types.ExperienceEntry{{
		Title:     "Developer",
		StartDate: &types.PartialDate{Year: 2019, Month: 1},
		EndDate:   types.PresentDate(),
	}}

	cand := candidateWith("python", "react")
	cand.Experience = entries
	cand.ExperienceYears = experience.TotalExperienceYears(entries, evaluatedAt)
	require.Nil(t, cand.ExperienceYears)

	job := &types.JobProfile{
		ID:                      uuid.New(),
		RequiredSkills:          []string{"python", "django"},
		ExperienceYearsRequired: ptr(3),
	}

	engine, err := NewEngine(Options{Now: func() time.Time { return evaluatedAt }})
	require.NoError(t, err)

	score, err := engine.Score(context.Background(), cand, job)
	require.NoError(t, err)

	assert.Equal(t, types.DimensionScores{
		SkillMatch:        35,
		Experience:        40,
		ProjectSimilarity: 30,
		DomainFamiliarity: 50,
	}, score.DimensionScores)
	assert.Equal(t, 37.5, score.Overall)
	assert.Equal(t, types.ConfidenceLow, score.Confidence)
	assert.Equal(t, []string{"python"}, score.MatchedSkills)
	assert.Equal(t, []string{"django"}, score.MissingSkills)
	assert.Equal(t, cand.ID, score.CandidateID)
	assert.Equal(t, job.ID, score.JobID)
	assert.Equal(t, evaluatedAt, score.ComputedAt)
	assert.Nil(t, score.PercentileRank)
	assert.NotEmpty(t, score.Notes)
}

func TestEngine_ScoreDoesNotMutateProfiles(t *testing.T) {
	cand := candidateWith("Go", "Python")
	job := &types.JobProfile{ID: uuid.New(), RequiredSkills: []string{"Go"}}
	before := append([]string(nil), cand.Skills.All()...)

	engine, err := NewEngine(Options{})
	require.NoError(t, err)
	_, err = engine.Score(context.Background(), cand, job)
	require.NoError(t, err)

	assert.Equal(t, before, cand.Skills.All())
	assert.Equal(t, []string{"Go"}, job.RequiredSkills)
}

func TestEngine_NilProfiles(t *testing.T) {
	engine, err := NewEngine(Options{})
	require.NoError(t, err)

	_, err = engine.Score(context.Background(), nil, &types.JobProfile{})
	var contractErr *ContractError
	assert.ErrorAs(t, err, &contractErr)
}

func TestSkillMatchScore(t *testing.T) {
	m := skills.Default()

	tests := []struct {
		name        string
		candidate   []string
		required    []string
		niceToHave  []string
		want        float64
		wantMissing []string
	}{
		{name: "no requirements is neutral", candidate: []string{"Go"}, want: 50, wantMissing: []string{}},
		{
			name:        "full required partial nice with surplus",
			candidate:   []string{"Go", "Python", "Docker"},
			required:    []string{"Go", "python3"},
			niceToHave:  []string{"Docker", "AWS"},
			want:        87,
			wantMissing: []string{},
		},
		{
			name:        "surplus bonus capped at ten",
			candidate:   []string{"Go", "Python", "Docker", "AWS", "React", "Redis", "Kafka"},
			required:    []string{"Go"},
			want:        80,
			wantMissing: []string{},
		},
		{
			name:        "clamped to one hundred",
			candidate:   []string{"Go", "Python", "Docker", "AWS", "React", "Redis", "Kafka", "Rust"},
			required:    []string{"Go"},
			niceToHave:  []string{"Python"},
			want:        100,
			wantMissing: []string{},
		},
		{
			name:        "denylisted pair does not match",
			candidate:   []string{"Java"},
			required:    []string{"JavaScript"},
			want:        0,
			wantMissing: []string{"JavaScript"},
		},
		{
			name:        "go and golang stay apart",
			candidate:   []string{"golang"},
			required:    []string{"go"},
			want:        0,
			wantMissing: []string{"go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := skillMatchScore(m, tt.candidate, tt.required, tt.niceToHave)
			assert.InDelta(t, tt.want, got.score, 1e-9)
			assert.Equal(t, tt.wantMissing, got.missing)
		})
	}
}

func TestExperienceScore(t *testing.T) {
	tests := []struct {
		name      string
		candidate float64
		required  *float64
		want      float64
	}{
		{name: "no requirement", candidate: 4, required: nil, want: 70},
		{name: "exact", candidate: 3, required: ptr(3), want: 100},
		{name: "one over", candidate: 4, required: ptr(3), want: 95},
		{name: "two over", candidate: 5, required: ptr(3), want: 95},
		{name: "five over", candidate: 8, required: ptr(3), want: 90},
		{name: "six over", candidate: 9, required: ptr(3), want: 85},
		{name: "half short", candidate: 2.5, required: ptr(3), want: 80},
		{name: "one short", candidate: 2, required: ptr(3), want: 80},
		{name: "one and a half short", candidate: 1.5, required: ptr(3), want: 60},
		{name: "three short", candidate: 0, required: ptr(3), want: 40},
		{name: "five short", candidate: 0, required: ptr(5), want: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, experienceScore(tt.candidate, tt.required))
		})
	}
}

func TestProjectSimilarityScore(t *testing.T) {
	m := skills.Default()
	jobSkills := []string{"Go", "PostgreSQL", "Docker"}
	relevant := types.ProjectEntry{Name: "api", Technologies: []string{"Go", "Postgres"}}
	unrelated := types.ProjectEntry{Name: "site", Technologies: []string{"React"}}

	tests := []struct {
		name      string
		projects  []types.ProjectEntry
		jobSkills []string
		want      float64
	}{
		{name: "no projects", projects: nil, jobSkills: jobSkills, want: 30},
		{name: "job without skills has no relevant projects", projects: []types.ProjectEntry{relevant}, jobSkills: nil, want: 0},
		{name: "half relevant", projects: []types.ProjectEntry{relevant, unrelated}, jobSkills: jobSkills, want: 50},
		{
			name:      "only top five considered",
			projects:  []types.ProjectEntry{unrelated, relevant, unrelated, relevant, unrelated, relevant},
			jobSkills: jobSkills,
			want:      60,
		},
		{
			name:      "description text counts",
			projects:  []types.ProjectEntry{{Name: "infra", Description: "Containerized Go services with Docker"}},
			jobSkills: jobSkills,
			want:      100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, projectSimilarityScore(m, tt.projects, tt.jobSkills), 1e-9)
		})
	}
}

func TestDomainScore(t *testing.T) {
	vectors := map[string][]float32{
		"cand-same":     {1, 0},
		"cand-orthogon": {0, 1},
		"cand-opposite": {-1, 0},
		"job":           {1, 0},
	}
	embedder := EmbedderFunc(func(_ context.Context, text string) ([]float32, error) {
		v, ok := vectors[text]
		if !ok {
			return nil, errors.New("unavailable")
		}
		return v, nil
	})

	tests := []struct {
		name     string
		e        Embedder
		cand     string
		want     float64
		wantFail bool
	}{
		{name: "identical", e: embedder, cand: "cand-same", want: 100},
		{name: "orthogonal", e: embedder, cand: "cand-orthogon", want: 50},
		{name: "opposite", e: embedder, cand: "cand-opposite", want: 0},
		{name: "provider error", e: embedder, cand: "unknown", want: 50, wantFail: true},
		{name: "no embedder", e: nil, cand: "cand-same", want: 50, wantFail: true},
		{name: "empty text", e: embedder, cand: " ", want: 50, wantFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domainScore(context.Background(), tt.e, tt.cand, "job")
			assert.InDelta(t, tt.want, got, 1e-9)
			if tt.wantFail {
				var embErr *EmbeddingError
				assert.ErrorAs(t, err, &embErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEngine_EmbedderFailureIsNeutral(t *testing.T) {
	failing := EmbedderFunc(func(context.Context, string) ([]float32, error) {
		return nil, errors.New("quota exceeded")
	})
	engine, err := NewEngine(Options{Embedder: failing})
	require.NoError(t, err)

	cand := candidateWith("Go")
	cand.RawText = "Go developer"
	score, err := engine.Score(context.Background(), cand, &types.JobProfile{ID: uuid.New(), RequiredSkills: []string{"Go"}, Description: "Go role"})
	require.NoError(t, err)
	assert.Equal(t, 50.0, score.DimensionScores.DomainFamiliarity)
}

func TestRecentExperienceText(t *testing.T) {
	cand := &types.CandidateProfile{
		RawText: "raw",
		Experience: []types.ExperienceEntry{
			{Title: "Old", StartDate: &types.PartialDate{Year: 2010}, EndDate: &types.PartialDate{Year: 2012}},
			{Title: "Current", StartDate: &types.PartialDate{Year: 2015}, EndDate: types.PresentDate()},
			{Title: "Mid", StartDate: &types.PartialDate{Year: 2013}, EndDate: &types.PartialDate{Year: 2015}},
			{Title: "Undated"},
		},
	}

	got := RecentExperienceText(cand)
	assert.Equal(t, "Current\n\nMid\n\nOld", got)
	assert.Equal(t, "raw", RecentExperienceText(&types.CandidateProfile{RawText: "raw"}))
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		overall float64
		want    types.Confidence
	}{
		{100, types.ConfidenceHigh},
		{80, types.ConfidenceHigh},
		{79.99, types.ConfidenceMedium},
		{60, types.ConfidenceMedium},
		{59.99, types.ConfidenceLow},
		{0, types.ConfidenceLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfidenceFor(tt.overall), "overall %v", tt.overall)
	}
}

func TestCosine(t *testing.T) {
	got, err := Cosine([]float32{1, 2, 3}, []float32{1, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-9)

	_, err = Cosine([]float32{1}, []float32{1, 2})
	assert.Error(t, err)

	_, err = Cosine([]float32{0, 0}, []float32{1, 2})
	assert.Error(t, err)
}

func TestOverallScore_RoundsOnlyTheWeightedSum(t *testing.T) {
	w := Weights{SkillMatch: 0.9, Experience: 0.1}
	raw := types.DimensionScores{SkillMatch: 10.0050001, Experience: 10}

	// rounding the dimensions first would give 10.01
	assert.Equal(t, 10.0, overallScore(w, raw))
	assert.Equal(t, 10.01, roundDimensions(raw).SkillMatch)
}

func TestOverallScore_DefaultWeights(t *testing.T) {
	raw := types.DimensionScores{SkillMatch: 35, Experience: 40, ProjectSimilarity: 30, DomainFamiliarity: 50}
	assert.Equal(t, 37.5, overallScore(DefaultWeights(), raw))
}
