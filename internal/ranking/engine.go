package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configures an Engine
type Options struct {
	// Weights defaults to DefaultWeights when nil.
	Weights  *Weights
	Matcher  *skills.Matcher
	Embedder Embedder
	Logger   *zap.Logger
	Now      func() time.Time
}

// Engine computes match scores. It never writes to the profiles it reads and
// is safe for concurrent use.
type Engine struct {
	weights  Weights
	matcher  *skills.Matcher
	embedder Embedder
	logger   *zap.Logger
	now      func() time.Time
}

// NewEngine creates an Engine. Invalid weights are a *ContractError.
func NewEngine(opts Options) (*Engine, error) {
	e := &Engine{
		weights:  DefaultWeights(),
		matcher:  opts.Matcher,
		embedder: opts.Embedder,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if opts.Weights != nil {
		e.weights = *opts.Weights
	}
	if err := e.weights.Validate(); err != nil {
		return nil, err
	}
	if e.matcher == nil {
		e.matcher = skills.Default()
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e, nil
}

// Weights returns the engine's weights.
func (e *Engine) Weights() Weights {
	return e.weights
}

// Score computes the match score of one candidate against one job. Only
// contract violations are returned as errors; a failing embedder leaves the
// domain dimension at a neutral 50.
func (e *Engine) Score(ctx context.Context, c *types.CandidateProfile, j *types.JobProfile) (*types.MatchScore, error) {
	if c == nil || j == nil {
		return nil, &ContractError{Message: "candidate and job profiles are required"}
	}

	candidateSkills := c.Skills.All()
	sk := skillMatchScore(e.matcher, candidateSkills, j.RequiredSkills, j.NiceToHaveSkills)

	domain, err := domainScore(ctx, e.embedder, RecentExperienceText(c), jobText(j))
	if err != nil {
		if e.embedder == nil {
			e.logger.Debug("domain familiarity neutral", zap.Error(err))
		} else {
			e.logger.Warn("domain familiarity neutral", zap.String("candidate_id", c.ID.String()), zap.Error(err))
		}
	}

	raw := types.DimensionScores{
		SkillMatch:        sk.score,
		Experience:        experienceScore(c.YearsOrZero(), j.ExperienceYearsRequired),
		ProjectSimilarity: projectSimilarityScore(e.matcher, c.Projects, j.AllSkills()),
		DomainFamiliarity: domain,
	}
	overall := overallScore(e.weights, raw)
	dims := roundDimensions(raw)

	score := &types.MatchScore{
		CandidateID:     c.ID,
		JobID:           j.ID,
		Overall:         overall,
		Confidence:      ConfidenceFor(overall),
		DimensionScores: dims,
		MatchedSkills:   sk.matched,
		MissingSkills:   sk.missing,
		ComputedAt:      e.now(),
	}
	score.Notes = Notes(score)

	if err := validate.Struct(score); err != nil {
		return nil, &ContractError{Message: "score out of range", Cause: err}
	}
	return score, nil
}

// ScoreFunc computes one score; Engine.Score and Cache.Score both qualify.
type ScoreFunc func(ctx context.Context, c *types.CandidateProfile, j *types.JobProfile) (*types.MatchScore, error)

// ScoreBatch scores every candidate against job with up to workers
// goroutines, then assigns percentile ranks over the whole pool. Results are
// sorted by overall score, highest first.
func (e *Engine) ScoreBatch(ctx context.Context, job *types.JobProfile, candidates []*types.CandidateProfile, workers int) ([]*types.MatchScore, error) {
	return ScoreBatch(ctx, job, candidates, workers, e.Score, e.logger)
}

// ScoreBatch runs score over candidates in parallel and ranks the results.
func ScoreBatch(ctx context.Context, job *types.JobProfile, candidates []*types.CandidateProfile, workers int, score ScoreFunc, logger *zap.Logger) ([]*types.MatchScore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]*types.MatchScore, len(candidates))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range candidates {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			s, err := score(gCtx, c, job)
			if err != nil {
				return fmt.Errorf("failed to score candidate %d: %w", i, err)
			}
			results[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overall := make([]float64, len(results))
	for i, s := range results {
		overall[i] = s.Overall
	}
	for i, p := range Percentiles(overall) {
		results[i].PercentileRank = &p
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Overall > results[b].Overall
	})
	logger.Info("batch scored",
		zap.String("job_id", job.ID.String()),
		zap.Int("candidates", len(results)),
		zap.Int("workers", workers),
	)
	return results, nil
}
