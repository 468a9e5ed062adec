package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-matcher/internal/types"
)

// SaveCandidateProfile stores one immutable version of a candidate profile.
// Saving the same version again is a no-op when the source hash matches and
// ErrVersionExists otherwise.
func (db *DB) SaveCandidateProfile(ctx context.Context, p *types.CandidateProfile) error {
	if err := checkVersion(p.ID, p.Version); err != nil {
		return err
	}
	content, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal candidate profile: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`INSERT INTO candidate_profiles (id, version, name, source_hash, content, built_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id, version) DO NOTHING`,
		p.ID, p.Version, nullIfEmpty(p.Name), nullIfEmpty(p.SourceHash), content, p.BuiltAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save candidate profile %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return db.sameSource(ctx, `SELECT source_hash FROM candidate_profiles WHERE id = $1 AND version = $2`, p.ID, p.Version, p.SourceHash)
}

// LoadCandidateProfile retrieves a candidate profile. A version of zero or
// less selects the latest version.
func (db *DB) LoadCandidateProfile(ctx context.Context, id uuid.UUID, version int) (*types.CandidateProfile, error) {
	var p types.CandidateProfile
	err := db.loadContent(ctx,
		`SELECT content FROM candidate_profiles
		 WHERE id = $1 AND ($2 = 0 OR version = $2)
		 ORDER BY version DESC LIMIT 1`,
		id, version, &p)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate profile %s: %w", id, err)
	}
	return &p, nil
}

// SaveJobProfile stores one immutable version of a job profile, with the same
// conflict rules as SaveCandidateProfile.
func (db *DB) SaveJobProfile(ctx context.Context, p *types.JobProfile) error {
	if err := checkVersion(p.ID, p.Version); err != nil {
		return err
	}
	content, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal job profile: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`INSERT INTO job_profiles (id, version, title, company, source_hash, content, built_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id, version) DO NOTHING`,
		p.ID, p.Version, nullIfEmpty(p.Title), nullIfEmpty(p.Company), nullIfEmpty(p.SourceHash), content, p.BuiltAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save job profile %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return db.sameSource(ctx, `SELECT source_hash FROM job_profiles WHERE id = $1 AND version = $2`, p.ID, p.Version, p.SourceHash)
}

// LoadJobProfile retrieves a job profile. A version of zero or less selects
// the latest version.
func (db *DB) LoadJobProfile(ctx context.Context, id uuid.UUID, version int) (*types.JobProfile, error) {
	var p types.JobProfile
	err := db.loadContent(ctx,
		`SELECT content FROM job_profiles
		 WHERE id = $1 AND ($2 = 0 OR version = $2)
		 ORDER BY version DESC LIMIT 1`,
		id, version, &p)
	if err != nil {
		return nil, fmt.Errorf("failed to load job profile %s: %w", id, err)
	}
	return &p, nil
}

func (db *DB) loadContent(ctx context.Context, query string, id uuid.UUID, version int, dst any) error {
	if version < 0 {
		version = 0
	}
	var content []byte
	if err := db.pool.QueryRow(ctx, query, id, version).Scan(&content); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProfileNotFound
		}
		return err
	}
	if err := json.Unmarshal(content, dst); err != nil {
		return fmt.Errorf("failed to unmarshal content: %w", err)
	}
	return nil
}

func (db *DB) sameSource(ctx context.Context, query string, id uuid.UUID, version int, hash string) error {
	var stored *string
	if err := db.pool.QueryRow(ctx, query, id, version).Scan(&stored); err != nil {
		return fmt.Errorf("failed to check existing version: %w", err)
	}
	if stored != nil && *stored == hash {
		return nil
	}
	return fmt.Errorf("%w: %s v%d", ErrVersionExists, id, version)
}

func checkVersion(id uuid.UUID, version int) error {
	if id == uuid.Nil {
		return errors.New("profile ID must be set")
	}
	if version < 1 {
		return fmt.Errorf("profile version must be positive, got %d", version)
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
