package profile

import (
	"context"
	"testing"
	"time"

	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
jane@example.com

EXPERIENCE
Software Engineer, Acme Corp
Jan 2019 - Present
- Built APIs with Python and Django

SKILLS
Python, React

EDUCATION
B.Sc in Computer Science from State University, 2018`

func fixedNow() time.Time {
	return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func TestBuildCandidate(t *testing.T) {
	b := NewBuilder(Options{Now: fixedNow})

	p := b.BuildCandidate(context.Background(), types.RawDocument{Text: sampleResume})

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", p.ID.String())
	assert.Equal(t, 1, p.Version)
	assert.Equal(t, "Jane Doe", p.Name)
	assert.Equal(t, "jane@example.com", p.Email)
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "Software Engineer", p.Experience[0].Title)
	assert.Equal(t, "Acme Corp", p.Experience[0].Company)
	require.Len(t, p.Education, 1)
	assert.Equal(t, "State University", p.Education[0].Institution)
	assert.ElementsMatch(t, []string{"Python", "React", "Django"}, p.Skills.All())
	assert.Equal(t, []string{"React"}, p.Skills[types.CategoryFrontend])
	require.NotNil(t, p.ExperienceYears)
	assert.Equal(t, 5.0, *p.ExperienceYears)
	assert.Equal(t, sampleResume, p.RawText)
	assert.Equal(t, HashText(sampleResume), p.SourceHash)
	assert.Equal(t, fixedNow(), p.BuiltAt)
}

func TestBuildCandidate_UnstructuredDocument(t *testing.T) {
	b := NewBuilder(Options{Now: fixedNow})

	p := b.BuildCandidate(context.Background(), types.RawDocument{Text: "just some words about nothing"})

	assert.Empty(t, p.Experience)
	assert.NotNil(t, p.Experience)
	assert.Nil(t, p.ExperienceYears)
	assert.Zero(t, p.YearsOrZero())
}

func TestRebuildCandidate_NewVersionWithoutMutation(t *testing.T) {
	b := NewBuilder(Options{Now: fixedNow})
	ctx := context.Background()

	prev := b.BuildCandidate(ctx, types.RawDocument{Text: sampleResume})
	prevSkills := append([]string(nil), prev.Skills.All()...)

	next := b.RebuildCandidate(ctx, prev, types.RawDocument{Text: "SKILLS\nGo, Rust"})

	assert.Equal(t, prev.ID, next.ID)
	assert.Equal(t, 2, next.Version)
	assert.Equal(t, 1, prev.Version)
	assert.Equal(t, prevSkills, prev.Skills.All())
	assert.ElementsMatch(t, []string{"Go", "Rust"}, next.Skills.All())
	assert.NotEqual(t, prev.SourceHash, next.SourceHash)
}

func TestBuildJob(t *testing.T) {
	text := `Backend Engineer at Initech

Requirements:
- 3+ years with Python
- Experience with PostgreSQL

Nice to have:
- Docker`

	b := NewBuilder(Options{Now: fixedNow})
	j, err := b.BuildJob(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, 1, j.Version)
	assert.Equal(t, "rules", j.ParsedBy)
	assert.Equal(t, "Backend Engineer", j.Title)
	assert.Equal(t, "Initech", j.Company)
	assert.Equal(t, []string{"Python", "PostgreSQL"}, j.RequiredSkills)
	assert.Equal(t, []string{"Docker"}, j.NiceToHaveSkills)
	require.NotNil(t, j.ExperienceYearsRequired)
	assert.Equal(t, 3.0, *j.ExperienceYearsRequired)
	assert.Equal(t, fixedNow(), j.BuiltAt)

	next, err := b.RebuildJob(context.Background(), j, text)
	require.NoError(t, err)
	assert.Equal(t, j.ID, next.ID)
	assert.Equal(t, 2, next.Version)
	assert.Equal(t, j.SourceHash, next.SourceHash)
}

func TestBuildJob_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(Options{}).BuildJob(ctx, "Go developer")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHashText(t *testing.T) {
	assert.Equal(t, HashText("abc"), HashText("  abc\n"))
	assert.NotEqual(t, HashText("abc"), HashText("abd"))
	assert.Len(t, HashText(""), 64)
}
