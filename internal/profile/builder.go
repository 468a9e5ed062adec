// Package profile assembles segmented and extracted résumé and job posting
// data into immutable, versioned profiles.
package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-matcher/internal/experience"
	"github.com/jonathan/resume-matcher/internal/ingestion"
	"github.com/jonathan/resume-matcher/internal/layout"
	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
	"go.uber.org/zap"
)

// Options configures a Builder. Zero values select the defaults.
type Options struct {
	Matcher *skills.Matcher
	// Segmenter for résumés. Job postings always use the job posting header table.
	Segmenter *layout.Segmenter
	Extractor *parsing.Extractor
	// Hints supplies spatial tokens for documents that carry none.
	Hints layout.TokenSource
	// LLM enables model-based job posting parsing.
	LLM    llm.Client
	Logger *zap.Logger
	// Now is the evaluation date for open-ended experience; defaults to time.Now.
	Now func() time.Time
}

// Builder turns documents into profiles. It holds no mutable state and is
// safe for concurrent use.
type Builder struct {
	matcher      *skills.Matcher
	segmenter    *layout.Segmenter
	jobSegmenter *layout.Segmenter
	extractor    *parsing.Extractor
	hints        layout.TokenSource
	client       llm.Client
	logger       *zap.Logger
	now          func() time.Time
}

// NewBuilder creates a Builder.
func NewBuilder(opts Options) *Builder {
	b := &Builder{
		matcher:   opts.Matcher,
		segmenter: opts.Segmenter,
		extractor: opts.Extractor,
		hints:     opts.Hints,
		client:    opts.LLM,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if b.matcher == nil {
		b.matcher = skills.Default()
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	if b.segmenter == nil {
		b.segmenter = layout.New(layout.Options{Logger: b.logger})
	}
	b.jobSegmenter = layout.New(layout.Options{Rules: layout.JobPostingRules(), Logger: b.logger})
	if b.extractor == nil {
		b.extractor = parsing.NewExtractor(parsing.Options{Matcher: b.matcher, Logger: b.logger})
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

// Matcher returns the skill matcher shared by the builder's components.
func (b *Builder) Matcher() *skills.Matcher {
	return b.matcher
}

// BuildCandidate builds version 1 of a candidate profile. It never fails:
// a document without recognizable structure yields a sparse profile.
func (b *Builder) BuildCandidate(ctx context.Context, doc types.RawDocument) *types.CandidateProfile {
	p, _ := b.buildCandidate(ctx, doc)
	return p
}

// BuildCandidateWithEntities is BuildCandidate that also returns the raw
// extraction result, including ambiguities.
func (b *Builder) BuildCandidateWithEntities(ctx context.Context, doc types.RawDocument) (*types.CandidateProfile, parsing.Entities) {
	return b.buildCandidate(ctx, doc)
}

// RebuildCandidate re-parses doc as a new version of prev. prev is not modified.
func (b *Builder) RebuildCandidate(ctx context.Context, prev *types.CandidateProfile, doc types.RawDocument) *types.CandidateProfile {
	p, _ := b.buildCandidate(ctx, doc)
	if prev != nil {
		p.ID = prev.ID
		p.Version = prev.Version + 1
	}
	return p
}

func (b *Builder) buildCandidate(ctx context.Context, doc types.RawDocument) (*types.CandidateProfile, parsing.Entities) {
	now := b.now()
	segments := b.segmenter.SegmentWithHints(ctx, doc, b.hints)
	ents := b.extractor.Extract(segments)

	p := &types.CandidateProfile{
		ID:              uuid.New(),
		Version:         1,
		Name:            ents.Contact.Name,
		Email:           ents.Contact.Email,
		Phone:           ents.Contact.Phone,
		Experience:      ents.Experience,
		Education:       ents.Education,
		Projects:        ents.Projects,
		Certifications:  ents.Certifications,
		Languages:       ents.Languages,
		Skills:          b.mergeSkills(ents),
		ExperienceYears: experience.TotalExperienceYears(ents.Experience, now),
		RawText:         doc.Text,
		SourceHash:      HashText(doc.Text),
		BuiltAt:         now,
	}

	b.logger.Debug("candidate profile built",
		zap.String("id", p.ID.String()),
		zap.Int("segments", len(segments)),
		zap.Int("experience", len(p.Experience)),
		zap.Int("education", len(p.Education)),
		zap.Int("skills", p.Skills.Len()),
		zap.Int("ambiguities", len(ents.Ambiguities)),
	)
	return p, ents
}

// mergeSkills copies the extracted skill set and adds technologies named in
// experience and project entries.
func (b *Builder) mergeSkills(ents parsing.Entities) types.SkillSet {
	set := types.SkillSet{}
	var all []string
	for _, c := range types.AllCategories {
		for _, s := range ents.Skills[c] {
			set.Add(c, s)
			all = append(all, s)
		}
	}

	var extra []string
	for _, e := range ents.Experience {
		extra = append(extra, e.Technologies...)
	}
	for _, p := range ents.Projects {
		extra = append(extra, p.Technologies...)
	}
	for _, s := range extra {
		if b.matcher.Contains(all, s) {
			continue
		}
		set.Add(b.matcher.CategoryOf(s), s)
		all = append(all, s)
	}
	return set
}

// BuildJob parses posting text into version 1 of a job profile. It fails only
// when ctx is canceled.
func (b *Builder) BuildJob(ctx context.Context, text string) (*types.JobProfile, error) {
	draft, err := parsing.ParseJobPosting(ctx, text, parsing.JobParseOptions{
		Client:    b.client,
		Matcher:   b.matcher,
		Segmenter: b.jobSegmenter,
		Logger:    b.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse job posting: %w", err)
	}

	now := b.now()
	j := &types.JobProfile{
		ID:                      uuid.New(),
		Version:                 1,
		Title:                   draft.Title,
		Company:                 draft.Company,
		RequiredSkills:          draft.RequiredSkills,
		NiceToHaveSkills:        draft.NiceToHaveSkills,
		ExperienceYearsRequired: draft.ExperienceYearsRequired,
		Responsibilities:        draft.Responsibilities,
		Description:             draft.Description,
		RawText:                 text,
		SourceHash:              HashText(text),
		ParsedBy:                draft.ParsedBy,
		BuiltAt:                 now,
	}
	b.logger.Debug("job profile built",
		zap.String("id", j.ID.String()),
		zap.String("parsed_by", j.ParsedBy),
		zap.Int("required", len(j.RequiredSkills)),
	)
	return j, nil
}

// RebuildJob re-parses text as a new version of prev. prev is not modified.
func (b *Builder) RebuildJob(ctx context.Context, prev *types.JobProfile, text string) (*types.JobProfile, error) {
	j, err := b.BuildJob(ctx, text)
	if err != nil {
		return nil, err
	}
	if prev != nil {
		j.ID = prev.ID
		j.Version = prev.Version + 1
	}
	return j, nil
}

// HashText returns the hex SHA-256 of whitespace-trimmed text, matching the
// digest recorded at ingestion.
func HashText(text string) string {
	return ingestion.ComputeHash(text)
}
