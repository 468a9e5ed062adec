package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/types"
)

var _ ranking.Store = (*DB)(nil)

// LoadScore returns the cached score for key or ranking.ErrScoreNotFound.
func (db *DB) LoadScore(ctx context.Context, key types.ScoreKey) (*types.MatchScore, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM match_scores WHERE candidate_id = $1 AND job_id = $2`,
		key.CandidateID, key.JobID,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ranking.ErrScoreNotFound
		}
		return nil, fmt.Errorf("failed to load score %s: %w", key, err)
	}
	return decodeScore(content)
}

// SaveScore upserts a score under its candidate and job IDs.
func (db *DB) SaveScore(ctx context.Context, score *types.MatchScore) error {
	content, err := encodeScore(score)
	if err != nil {
		return err
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO match_scores (candidate_id, job_id, overall, confidence, content, computed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (candidate_id, job_id) DO UPDATE
		 SET overall = $3, confidence = $4, content = $5, computed_at = $6`,
		score.CandidateID, score.JobID, score.Overall, string(score.Confidence), content, score.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save score %s:%s: %w", score.CandidateID, score.JobID, err)
	}
	return nil
}

// InvalidateScore removes the cached score for key only.
func (db *DB) InvalidateScore(ctx context.Context, key types.ScoreKey) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM match_scores WHERE candidate_id = $1 AND job_id = $2`,
		key.CandidateID, key.JobID,
	)
	if err != nil {
		return fmt.Errorf("failed to invalidate score %s: %w", key, err)
	}
	return nil
}

// ListScoresForJob returns every cached score for a job, best first.
func (db *DB) ListScoresForJob(ctx context.Context, jobID uuid.UUID, limit int) ([]*types.MatchScore, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.pool.Query(ctx,
		`SELECT content FROM match_scores WHERE job_id = $1
		 ORDER BY overall DESC, candidate_id LIMIT $2`,
		jobID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores for job %s: %w", jobID, err)
	}
	defer rows.Close()

	var scores []*types.MatchScore
	for rows.Next() {
		var content []byte
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		score, err := decodeScore(content)
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

func encodeScore(score *types.MatchScore) ([]byte, error) {
	if score == nil {
		return nil, errors.New("score is nil")
	}
	if score.CandidateID == uuid.Nil || score.JobID == uuid.Nil {
		return nil, errors.New("score must carry candidate and job IDs")
	}
	content, err := json.Marshal(score)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal score: %w", err)
	}
	return content, nil
}

func decodeScore(content []byte) (*types.MatchScore, error) {
	var score types.MatchScore
	if err := json.Unmarshal(content, &score); err != nil {
		return nil, fmt.Errorf("failed to unmarshal score: %w", err)
	}
	return &score, nil
}
