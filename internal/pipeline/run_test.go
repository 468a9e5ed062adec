package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonathan/resume-matcher/internal/export"
	"github.com/jonathan/resume-matcher/internal/profile"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/types"
)

const jobPosting = `Backend Engineer at Initech

Requirements:
- 3+ years with Python
- Experience with PostgreSQL

Nice to have:
- Docker`

const strongResume = `Jane Doe
jane@example.com

EXPERIENCE
Software Engineer, Acme Corp
Jan 2018 - Present
- Built APIs with Python, Django and PostgreSQL

SKILLS
Python, PostgreSQL, Docker`

const weakResume = `John Roe
john@example.com

EXPERIENCE
Graphic Designer, Studio
Jan 2022 - Present
- Designed brand assets

SKILLS
Photoshop`

func fixedNow() time.Time {
	return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
}

type fakeStore struct {
	*ranking.MemoryStore

	mu         sync.Mutex
	jobs       []*types.JobProfile
	candidates []*types.CandidateProfile
	runs       map[uuid.UUID]string
	scored     map[uuid.UUID]int
	failSave   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		MemoryStore: ranking.NewMemoryStore(),
		runs:        map[uuid.UUID]string{},
		scored:      map[uuid.UUID]int{},
	}
}

func (s *fakeStore) SaveCandidateProfile(_ context.Context, p *types.CandidateProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return errors.New("disk full")
	}
	s.candidates = append(s.candidates, p)
	return nil
}

func (s *fakeStore) SaveJobProfile(_ context.Context, p *types.JobProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, p)
	return nil
}

func (s *fakeStore) CreateRun(_ context.Context, _ uuid.UUID, _ int) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.runs[id] = "running"
	return id, nil
}

func (s *fakeStore) CompleteRun(_ context.Context, runID uuid.UUID, status string, scored int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[runID] = status
	s.scored[runID] = scored
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func baseOptions(t *testing.T) (RunOptions, string) {
	t.Helper()
	dir := t.TempDir()
	engine, err := ranking.NewEngine(ranking.Options{Now: fixedNow})
	require.NoError(t, err)
	return RunOptions{
		JobPath: writeFile(t, dir, "job.txt", jobPosting),
		CandidatePaths: []string{
			writeFile(t, dir, "john.txt", weakResume),
			writeFile(t, dir, "jane.txt", strongResume),
		},
		Builder: profile.NewBuilder(profile.Options{Now: fixedNow}),
		Engine:  engine,
		Workers: 2,
	}, dir
}

func TestRunBatch(t *testing.T) {
	opts, _ := baseOptions(t)
	var events []ProgressEvent
	var mu sync.Mutex
	opts.OnProgress = func(ev ProgressEvent) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	}
	opts.Validate = true

	res, err := RunBatch(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "Backend Engineer", res.Job.Title)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, opts.CandidatePaths[0], res.Candidates[0].Path)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, uuid.Nil, res.RunID)

	require.Len(t, res.Scores, 2)
	names := res.Names()
	assert.Equal(t, "Jane Doe", names[res.Scores[0].CandidateID])
	assert.Equal(t, "John Roe", names[res.Scores[1].CandidateID])
	assert.GreaterOrEqual(t, res.Scores[0].Overall, res.Scores[1].Overall)
	for _, s := range res.Scores {
		assert.Equal(t, res.Job.ID, s.JobID)
		require.NotNil(t, s.PercentileRank)
	}
	assert.Nil(t, res.Explanations)

	steps := make([]string, 0, len(events))
	for _, ev := range events {
		steps = append(steps, ev.Step)
	}
	assert.Equal(t, []string{StepJob, StepCandidates, StepScoring, StepComplete}, steps)
}

func TestRunBatch_SkipsUnreadableCandidates(t *testing.T) {
	opts, dir := baseOptions(t)
	missing := filepath.Join(dir, "missing.txt")
	empty := writeFile(t, dir, "empty.txt", "   \n")
	opts.CandidatePaths = append(opts.CandidatePaths, missing, empty)

	res, err := RunBatch(context.Background(), opts)
	require.NoError(t, err)

	assert.Len(t, res.Candidates, 2)
	require.Len(t, res.Skipped, 2)
	assert.ElementsMatch(t, []string{missing, empty}, []string{res.Skipped[0].Path, res.Skipped[1].Path})
	assert.Len(t, res.Scores, 2)
}

func TestRunBatch_Explanations(t *testing.T) {
	opts, _ := baseOptions(t)
	opts.Explainer = ranking.NewExplainer(nil, nil)
	opts.ExplainTop = 1

	res, err := RunBatch(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, res.Explanations, 1)
	exp, ok := res.Explanations[res.Scores[0].CandidateID]
	require.True(t, ok)
	assert.Equal(t, "rules", exp.Source)
}

func TestRunBatch_PersistsToStore(t *testing.T) {
	opts, _ := baseOptions(t)
	store := newFakeStore()
	opts.Store = store

	res, err := RunBatch(context.Background(), opts)
	require.NoError(t, err)

	require.NotEqual(t, uuid.Nil, res.RunID)
	assert.Equal(t, "completed", store.runs[res.RunID])
	assert.Equal(t, 2, store.scored[res.RunID])
	require.Len(t, store.jobs, 1)
	assert.Equal(t, res.Job.ID, store.jobs[0].ID)
	assert.Len(t, store.candidates, 2)
	assert.Equal(t, 2, store.Len())

	cached, err := store.LoadScore(context.Background(), types.ScoreKey{
		CandidateID: res.Scores[0].CandidateID,
		JobID:       res.Job.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, res.Scores[0].Overall, cached.Overall)
}

func TestRunBatch_StoreFailuresAreNotFatal(t *testing.T) {
	opts, _ := baseOptions(t)
	store := newFakeStore()
	store.failSave = true
	opts.Store = store

	res, err := RunBatch(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, store.candidates)
	assert.Len(t, res.Scores, 2)
}

func TestRunBatch_Export(t *testing.T) {
	opts, dir := baseOptions(t)
	opts.ExportPath = filepath.Join(dir, "ranking")

	res, err := RunBatch(context.Background(), opts)
	require.NoError(t, err)

	f, err := excelize.OpenFile(opts.ExportPath + ".xlsx")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	top, err := f.GetCellValue(export.RankingSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, res.Names()[res.Scores[0].CandidateID], top)
}

func TestRunBatch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *RunOptions, dir string)
		wantErr string
		is      error
	}{
		{
			name:    "no job",
			mutate:  func(o *RunOptions, _ string) { o.JobPath = "" },
			wantErr: "exactly one of job path or job URL",
		},
		{
			name:    "both job sources",
			mutate:  func(o *RunOptions, _ string) { o.JobURL = "https://example.com/job" },
			wantErr: "exactly one of job path or job URL",
		},
		{
			name:    "no candidates",
			mutate:  func(o *RunOptions, _ string) { o.CandidatePaths = nil },
			wantErr: "at least one candidate",
		},
		{
			name:    "no builder",
			mutate:  func(o *RunOptions, _ string) { o.Builder = nil },
			wantErr: "profile builder is required",
		},
		{
			name:    "no engine",
			mutate:  func(o *RunOptions, _ string) { o.Engine = nil },
			wantErr: "scoring engine is required",
		},
		{
			name:    "missing job file",
			mutate:  func(o *RunOptions, dir string) { o.JobPath = filepath.Join(dir, "nope.txt") },
			wantErr: "job ingestion from",
		},
		{
			name: "all candidates unreadable",
			mutate: func(o *RunOptions, dir string) {
				o.CandidatePaths = []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.pdf")}
			},
			is: ErrNoCandidates,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, dir := baseOptions(t)
			tt.mutate(&opts, dir)

			_, err := RunBatch(context.Background(), opts)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		c    Candidate
		want string
	}{
		{name: "profile name", c: Candidate{Path: "x/jane.pdf", Profile: &types.CandidateProfile{Name: "Jane"}}, want: "Jane"},
		{name: "file name", c: Candidate{Path: "x/jane_doe.pdf", Profile: &types.CandidateProfile{}}, want: "jane_doe"},
		{name: "no profile", c: Candidate{Path: "resume.docx"}, want: "resume"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayName(tt.c))
		})
	}
}

func TestDescribeJob(t *testing.T) {
	assert.Equal(t, "Dev at Acme", describeJob(&types.JobProfile{Title: "Dev", Company: "Acme"}))
	assert.Equal(t, "Dev", describeJob(&types.JobProfile{Title: "Dev"}))
	assert.Equal(t, "2 required skills", describeJob(&types.JobProfile{RequiredSkills: []string{"Go", "SQL"}}))
}
