package ranking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonathan/resume-matcher/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrScoreNotFound is returned by a Store when no score is cached for a key.
var ErrScoreNotFound = errors.New("score not found")

// Store persists match scores by (candidate, job) key.
type Store interface {
	LoadScore(ctx context.Context, key types.ScoreKey) (*types.MatchScore, error)
	SaveScore(ctx context.Context, score *types.MatchScore) error
	InvalidateScore(ctx context.Context, key types.ScoreKey) error
}

// MemoryStore is an in-process Store. Scores are copied in and out.
type MemoryStore struct {
	mu     sync.RWMutex
	scores map[types.ScoreKey]*types.MatchScore
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scores: make(map[types.ScoreKey]*types.MatchScore)}
}

// LoadScore returns the cached score or ErrScoreNotFound.
func (m *MemoryStore) LoadScore(_ context.Context, key types.ScoreKey) (*types.MatchScore, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.scores[key]
	if !ok {
		return nil, ErrScoreNotFound
	}
	return cloneScore(s), nil
}

// SaveScore stores score under its candidate and job IDs.
func (m *MemoryStore) SaveScore(_ context.Context, score *types.MatchScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[types.ScoreKey{CandidateID: score.CandidateID, JobID: score.JobID}] = cloneScore(score)
	return nil
}

// InvalidateScore removes the score for key only.
func (m *MemoryStore) InvalidateScore(_ context.Context, key types.ScoreKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.scores, key)
	return nil
}

// Len returns the number of cached scores.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.scores)
}

func cloneScore(s *types.MatchScore) *types.MatchScore {
	c := *s
	c.MatchedSkills = append([]string(nil), s.MatchedSkills...)
	c.MissingSkills = append([]string(nil), s.MissingSkills...)
	if s.PercentileRank != nil {
		p := *s.PercentileRank
		c.PercentileRank = &p
	}
	return &c
}

// Cache serves scores from a Store and computes missing ones with an Engine.
// Concurrent requests for the same key share one computation.
type Cache struct {
	engine *Engine
	store  Store
	group  singleflight.Group
	logger *zap.Logger
}

// NewCache creates a Cache. A nil store selects a MemoryStore.
func NewCache(engine *Engine, store Store, logger *zap.Logger) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{engine: engine, store: store, logger: logger}
}

// Get returns the score for the pair. Without force a stored score is
// returned as is; with force the stored score is invalidated and recomputed.
func (c *Cache) Get(ctx context.Context, cand *types.CandidateProfile, job *types.JobProfile, force bool) (*types.MatchScore, error) {
	if cand == nil || job == nil {
		return nil, &ContractError{Message: "candidate and job profiles are required"}
	}
	key := types.ScoreKey{CandidateID: cand.ID, JobID: job.ID}

	if !force {
		s, err := c.store.LoadScore(ctx, key)
		switch {
		case err == nil:
			return s, nil
		case !errors.Is(err, ErrScoreNotFound):
			c.logger.Warn("score cache read failed", zap.String("key", key.String()), zap.Error(err))
		}
	}

	v, err, shared := c.group.Do(key.String(), func() (any, error) {
		if force {
			if err := c.store.InvalidateScore(ctx, key); err != nil {
				return nil, fmt.Errorf("failed to invalidate score %s: %w", key, err)
			}
		}
		s, err := c.engine.Score(ctx, cand, job)
		if err != nil {
			return nil, err
		}
		if err := c.store.SaveScore(ctx, s); err != nil {
			c.logger.Warn("score cache write failed", zap.String("key", key.String()), zap.Error(err))
		}
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	c.logger.Debug("score computed", zap.String("key", key.String()), zap.Bool("forced", force), zap.Bool("shared", shared))
	return cloneScore(v.(*types.MatchScore)), nil
}

// Score is Get without force, usable as a ScoreFunc.
func (c *Cache) Score(ctx context.Context, cand *types.CandidateProfile, job *types.JobProfile) (*types.MatchScore, error) {
	return c.Get(ctx, cand, job, false)
}

// ScoreBatch is Engine.ScoreBatch served through the cache.
func (c *Cache) ScoreBatch(ctx context.Context, job *types.JobProfile, candidates []*types.CandidateProfile, workers int, force bool) ([]*types.MatchScore, error) {
	return ScoreBatch(ctx, job, candidates, workers, func(ctx context.Context, cand *types.CandidateProfile, j *types.JobProfile) (*types.MatchScore, error) {
		return c.Get(ctx, cand, j, force)
	}, c.logger)
}
