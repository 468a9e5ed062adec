// Package pipeline provides the high-level orchestration for batch candidate ranking.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/export"
	"github.com/jonathan/resume-matcher/internal/ingestion"
	"github.com/jonathan/resume-matcher/internal/profile"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Progress steps
const (
	StepJob          = "job_profile"
	StepCandidates   = "candidate_profiles"
	StepScoring      = "scoring"
	StepExplanations = "explanations"
	StepExport       = "export"
	StepComplete     = "complete"
)

// Progress categories
const (
	CategoryIngestion = "ingestion"
	CategoryRanking   = "ranking"
	CategoryOutput    = "output"
)

// ErrNoCandidates is returned when no candidate document could be loaded.
var ErrNoCandidates = errors.New("no candidate documents loaded")

// ProgressEvent represents a progress update during a batch run
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when batch progress occurs
type ProgressCallback func(event ProgressEvent)

// Store persists profiles, scores and batch runs.
type Store interface {
	ranking.Store
	SaveCandidateProfile(ctx context.Context, p *types.CandidateProfile) error
	SaveJobProfile(ctx context.Context, p *types.JobProfile) error
	CreateRun(ctx context.Context, jobID uuid.UUID, candidates int) (uuid.UUID, error)
	CompleteRun(ctx context.Context, runID uuid.UUID, status string, scored int) error
}

var _ Store = (*db.DB)(nil)

// RunOptions holds configuration for a batch run. Exactly one of JobPath
// and JobURL is required.
type RunOptions struct {
	JobPath        string
	JobURL         string
	CandidatePaths []string

	Builder *profile.Builder
	Engine  *ranking.Engine
	// Store enables persistence and a durable score cache; scores are cached
	// in memory when nil.
	Store Store
	// Explainer adds an explanation for the top ExplainTop candidates (all
	// when ExplainTop is 0).
	Explainer  *ranking.Explainer
	ExplainTop int

	Workers int
	// Force recomputes scores that are already cached.
	Force bool
	// Validate checks every emitted artifact against its JSON schema.
	Validate   bool
	UseBrowser bool
	PDFToText  bool
	// ExportPath writes an xlsx ranking report when set.
	ExportPath string

	Logger     *zap.Logger
	OnProgress ProgressCallback
}

// Candidate is one loaded résumé.
type Candidate struct {
	Path    string
	Profile *types.CandidateProfile
	Meta    *ingestion.Metadata
}

// Skipped is a candidate document that could not be loaded.
type Skipped struct {
	Path string
	Err  error
}

// Result is the outcome of a batch run. Scores are ordered best first.
type Result struct {
	RunID        uuid.UUID
	Job          *types.JobProfile
	Candidates   []Candidate
	Skipped      []Skipped
	Scores       []*types.MatchScore
	Explanations map[uuid.UUID]types.Explanation
}

// Names maps candidate IDs to display names, falling back to the file name.
func (r *Result) Names() map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(r.Candidates))
	for _, c := range r.Candidates {
		names[c.Profile.ID] = displayName(c)
	}
	return names
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, runID uuid.UUID, step, category, message string, content any) {
	if opts.OnProgress == nil {
		return
	}
	ev := ProgressEvent{
		Step:     step,
		Category: category,
		Message:  message,
		Content:  content,
	}
	if runID != uuid.Nil {
		ev.RunID = runID.String()
	}
	opts.OnProgress(ev)
}

func (o *RunOptions) validate() error {
	if (o.JobPath == "") == (o.JobURL == "") {
		return errors.New("exactly one of job path or job URL is required")
	}
	if len(o.CandidatePaths) == 0 {
		return errors.New("at least one candidate document is required")
	}
	if o.Builder == nil {
		return errors.New("profile builder is required")
	}
	if o.Engine == nil {
		return errors.New("scoring engine is required")
	}
	return nil
}

// RunBatch loads a job posting and candidate résumés, builds their profiles
// and ranks the candidates against the job.
func RunBatch(ctx context.Context, opts RunOptions) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	res := &Result{}
	if err := loadProfiles(ctx, &opts, logger, res); err != nil {
		return nil, err
	}

	var store ranking.Store = ranking.NewMemoryStore()
	if opts.Store != nil {
		store = opts.Store
		persistProfiles(ctx, &opts, logger, res)
	}

	scored := 0
	if res.RunID != uuid.Nil {
		defer func() {
			status := db.RunStatusCompleted
			if scored < len(res.Candidates) {
				status = db.RunStatusFailed
			}
			if err := opts.Store.CompleteRun(context.WithoutCancel(ctx), res.RunID, status, scored); err != nil {
				logger.Warn("failed to complete run", zap.String("run_id", res.RunID.String()), zap.Error(err))
			}
		}()
	}

	profiles := make([]*types.CandidateProfile, len(res.Candidates))
	for i, c := range res.Candidates {
		profiles[i] = c.Profile
	}

	cache := ranking.NewCache(opts.Engine, store, logger)
	scores, err := cache.ScoreBatch(ctx, res.Job, profiles, opts.Workers, opts.Force)
	if err != nil {
		return nil, fmt.Errorf("scoring failed: %w", err)
	}
	if opts.Validate {
		for _, s := range scores {
			if err := schemas.ValidateValue(schemas.MatchScore, s); err != nil {
				return nil, fmt.Errorf("match score for %s: %w", s.CandidateID, err)
			}
		}
	}
	res.Scores = scores
	scored = len(scores)
	logger.Info("batch scored",
		zap.String("job_id", res.Job.ID.String()),
		zap.Int("candidates", scored),
	)
	emitProgress(&opts, res.RunID, StepScoring, CategoryRanking,
		fmt.Sprintf("Scored %d candidates", scored), scores)

	if opts.Explainer != nil {
		if err := explain(ctx, &opts, res); err != nil {
			return nil, err
		}
		emitProgress(&opts, res.RunID, StepExplanations, CategoryRanking,
			fmt.Sprintf("Explained %d candidates", len(res.Explanations)), nil)
	}

	if opts.ExportPath != "" {
		if err := export.WriteRankingWorkbook(opts.ExportPath, res.Job, exportRows(res)); err != nil {
			return nil, fmt.Errorf("export failed: %w", err)
		}
		emitProgress(&opts, res.RunID, StepExport, CategoryOutput,
			fmt.Sprintf("Wrote ranking workbook to %s", opts.ExportPath), nil)
	}

	emitProgress(&opts, res.RunID, StepComplete, CategoryOutput, "Batch complete", nil)
	return res, nil
}

// loadProfiles ingests the job and every candidate concurrently. A candidate
// that fails to load is skipped; a job that fails to load fails the run.
func loadProfiles(ctx context.Context, opts *RunOptions, logger *zap.Logger, res *Result) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers + 1)

	g.Go(func() error {
		job, err := loadJob(gCtx, opts, logger)
		if err != nil {
			return err
		}
		res.Job = job
		return nil
	})

	loaded := make([]*Candidate, len(opts.CandidatePaths))
	var mu sync.Mutex
	for i, path := range opts.CandidatePaths {
		g.Go(func() error {
			c, err := loadCandidate(gCtx, opts, path)
			if err != nil {
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				logger.Warn("skipping candidate", zap.String("path", path), zap.Error(err))
				mu.Lock()
				res.Skipped = append(res.Skipped, Skipped{Path: path, Err: err})
				mu.Unlock()
				return nil
			}
			loaded[i] = c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(res.Skipped, func(i, j int) bool { return res.Skipped[i].Path < res.Skipped[j].Path })
	for _, c := range loaded {
		if c != nil {
			res.Candidates = append(res.Candidates, *c)
		}
	}
	if len(res.Candidates) == 0 {
		return ErrNoCandidates
	}
	emitProgress(opts, uuid.Nil, StepCandidates, CategoryIngestion,
		fmt.Sprintf("Built %d candidate profiles (%d skipped)", len(res.Candidates), len(res.Skipped)), nil)
	return nil
}

func loadJob(ctx context.Context, opts *RunOptions, logger *zap.Logger) (*types.JobProfile, error) {
	var doc *types.RawDocument
	var err error
	source := opts.JobPath
	if opts.JobURL != "" {
		source = opts.JobURL
		doc, _, err = ingestion.IngestFromURL(ctx, opts.JobURL, ingestion.URLOptions{
			UseBrowser: opts.UseBrowser,
			Logger:     logger,
		})
	} else {
		doc, _, err = ingestion.LoadDocument(ctx, opts.JobPath, ingestion.Options{
			PDFToText: opts.PDFToText,
			Logger:    logger,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("job ingestion from %s failed: %w", source, err)
	}

	job, err := opts.Builder.BuildJob(ctx, doc.Text)
	if err != nil {
		return nil, fmt.Errorf("job parsing failed: %w", err)
	}
	if opts.Validate {
		if err := schemas.ValidateValue(schemas.JobProfile, job); err != nil {
			return nil, fmt.Errorf("job profile: %w", err)
		}
	}
	emitProgress(opts, uuid.Nil, StepJob, CategoryIngestion,
		fmt.Sprintf("Parsed job profile: %s", describeJob(job)), job)
	return job, nil
}

func loadCandidate(ctx context.Context, opts *RunOptions, path string) (*Candidate, error) {
	doc, meta, err := ingestion.LoadDocument(ctx, path, ingestion.Options{
		PDFToText: opts.PDFToText,
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	p := opts.Builder.BuildCandidate(ctx, *doc)
	if opts.Validate {
		if err := schemas.ValidateValue(schemas.CandidateProfile, p); err != nil {
			return nil, fmt.Errorf("candidate profile: %w", err)
		}
	}
	return &Candidate{Path: path, Profile: p, Meta: meta}, nil
}

// persistProfiles saves the job, opens a run and saves every candidate.
// Failures are logged and the batch continues without the failed record.
func persistProfiles(ctx context.Context, opts *RunOptions, logger *zap.Logger, res *Result) {
	if err := opts.Store.SaveJobProfile(ctx, res.Job); err != nil {
		logger.Warn("failed to save job profile", zap.String("job_id", res.Job.ID.String()), zap.Error(err))
	}
	runID, err := opts.Store.CreateRun(ctx, res.Job.ID, len(res.Candidates))
	if err != nil {
		logger.Warn("failed to create run", zap.Error(err))
	} else {
		res.RunID = runID
		logger.Debug("created run", zap.String("run_id", runID.String()))
	}
	for _, c := range res.Candidates {
		if err := opts.Store.SaveCandidateProfile(ctx, c.Profile); err != nil {
			logger.Warn("failed to save candidate profile",
				zap.String("candidate_id", c.Profile.ID.String()),
				zap.String("path", c.Path),
				zap.Error(err),
			)
		}
	}
}

func explain(ctx context.Context, opts *RunOptions, res *Result) error {
	n := len(res.Scores)
	if opts.ExplainTop > 0 && opts.ExplainTop < n {
		n = opts.ExplainTop
	}
	byID := make(map[uuid.UUID]*types.CandidateProfile, len(res.Candidates))
	for _, c := range res.Candidates {
		byID[c.Profile.ID] = c.Profile
	}

	out := make([]types.Explanation, n)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, s := range res.Scores[:n] {
		g.Go(func() error {
			out[i] = opts.Explainer.ExplainOrFallback(gCtx, s, res.Job, byID[s.CandidateID])
			return gCtx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	res.Explanations = make(map[uuid.UUID]types.Explanation, n)
	for i, s := range res.Scores[:n] {
		res.Explanations[s.CandidateID] = out[i]
	}
	return nil
}

func exportRows(res *Result) []export.Row {
	byID := make(map[uuid.UUID]Candidate, len(res.Candidates))
	for _, c := range res.Candidates {
		byID[c.Profile.ID] = c
	}
	rows := make([]export.Row, 0, len(res.Scores))
	for _, s := range res.Scores {
		c := byID[s.CandidateID]
		row := export.Row{
			Candidate: displayName(c),
			Source:    c.Path,
			Score:     s,
		}
		if e, ok := res.Explanations[s.CandidateID]; ok {
			row.Explanation = &e
		}
		rows = append(rows, row)
	}
	return rows
}

func displayName(c Candidate) string {
	if c.Profile != nil && c.Profile.Name != "" {
		return c.Profile.Name
	}
	base := filepath.Base(c.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func describeJob(j *types.JobProfile) string {
	switch {
	case j.Title != "" && j.Company != "":
		return j.Title + " at " + j.Company
	case j.Title != "":
		return j.Title
	default:
		return fmt.Sprintf("%d required skills", len(j.RequiredSkills))
	}
}
