// Package parsing provides entity extraction for résumés and structured parsing of job postings.
package parsing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/resume-matcher/internal/layout"
	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/prompts"
	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
	"go.uber.org/zap"
)

// Stage names reported in JobDraft.ParsedBy
const (
	StageLLM   = "llm"
	StageRules = "rules"
)

const (
	maxYearsRequired    = 30
	maxResponsibilities = 25
	maxTitleLength      = 100
)

var (
	yearsRequired  = regexp.MustCompile(`(?i)\b(\d{1,2})\b(?:\.\d)?\s*(?:\+|plus)?\s*(?:-|–|to)?\s*(?:\d{1,2}\s*)?(?:\+\s*)?(?:years?|yrs?)\b`)
	titleLabel     = regexp.MustCompile(`(?i)^(?:job\s+title|title|position|role)\s*[:\-]\s*(.+)$`)
	companyLabel   = regexp.MustCompile(`(?i)^(?:company|employer|organization)\s*[:\-]\s*(.+)$`)
	companyAtTitle = regexp.MustCompile(`(?i)^(.+?)\s+(?:at|@)\s+(.+)$`)
	sentenceBreak  = regexp.MustCompile(`\n+|[.!?]\s+`)
)

// JobDraft is a parsed job posting before the profile builder assigns an
// identity and version.
type JobDraft struct {
	Title                   string   `json:"title"`
	Company                 string   `json:"company"`
	RequiredSkills          []string `json:"required_skills"`
	NiceToHaveSkills        []string `json:"nice_to_have_skills"`
	ExperienceYearsRequired *float64 `json:"experience_years_required,omitempty"`
	Responsibilities        []string `json:"responsibilities"`
	Description             string   `json:"description"`
	ParsedBy                string   `json:"parsed_by"`
}

// JobParseOptions configures ParseJobPosting
type JobParseOptions struct {
	// Client enables the LLM stage. Nil skips it.
	Client    llm.Client
	Matcher   *skills.Matcher
	Segmenter *layout.Segmenter
	Logger    *zap.Logger
}

func (o JobParseOptions) withDefaults() JobParseOptions {
	if o.Matcher == nil {
		o.Matcher = skills.Default()
	}
	if o.Segmenter == nil {
		o.Segmenter = layout.New(layout.Options{Rules: layout.JobPostingRules(), Logger: o.Logger})
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// ParseJobPosting extracts a JobDraft from posting text. The LLM stage runs
// first when a client is configured; the rule-based stage always succeeds, so
// an error is only returned when ctx is canceled.
func ParseJobPosting(ctx context.Context, text string, opts JobParseOptions) (*JobDraft, error) {
	opts = opts.withDefaults()

	chain := NewChain(
		Stage[string, *JobDraft]{Name: StageLLM, Run: func(ctx context.Context, text string) (*JobDraft, error) {
			return parseWithLLM(ctx, text, opts)
		}},
		Stage[string, *JobDraft]{Name: StageRules, Run: func(_ context.Context, text string) (*JobDraft, error) {
			return parseWithRules(text, opts), nil
		}},
	)

	res, err := chain.Run(ctx, text)
	for _, a := range res.Attempts {
		if errors.Is(a.Err, ErrStageSkipped) {
			continue
		}
		opts.Logger.Warn("job parsing stage failed", zap.String("stage", a.Stage), zap.Error(a.Err))
	}
	if err != nil {
		return nil, err
	}
	res.Value.ParsedBy = res.Stage
	opts.Logger.Debug("job posting parsed",
		zap.String("stage", res.Stage),
		zap.Int("required", len(res.Value.RequiredSkills)),
		zap.Int("nice_to_have", len(res.Value.NiceToHaveSkills)),
	)
	return res.Value, nil
}

// llmJob is the JSON shape requested from the model
type llmJob struct {
	Title                   string   `json:"title"`
	Company                 string   `json:"company"`
	RequiredSkills          []string `json:"required_skills"`
	NiceToHaveSkills        []string `json:"nice_to_have_skills"`
	ExperienceYearsRequired *float64 `json:"experience_years_required"`
	Responsibilities        []string `json:"responsibilities"`
}

func parseWithLLM(ctx context.Context, text string, opts JobParseOptions) (*JobDraft, error) {
	if opts.Client == nil {
		return nil, ErrStageSkipped
	}

	prompt, err := prompts.Render("parsing.json", "extract-job-posting", map[string]string{"JobText": text})
	if err != nil {
		return nil, fmt.Errorf("failed to load job posting prompt: %w", err)
	}

	responseText, err := opts.Client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &llm.APICallError{
			Model:   opts.Client.GetModel(llm.TierStandard),
			Message: "job posting extraction",
			Cause:   err,
		}
	}

	draft, err := parseJSONResponse(llm.CleanJSONBlock(responseText))
	if err != nil {
		return nil, err
	}
	if err := postProcessDraft(draft, opts.Matcher); err != nil {
		return nil, err
	}
	draft.Description = strings.TrimSpace(text)
	return draft, nil
}

// parseJSONResponse decodes the model response into a JobDraft
func parseJSONResponse(jsonText string) (*JobDraft, error) {
	var raw llmJob
	if err := json.Unmarshal([]byte(jsonText), &raw); err != nil {
		return nil, &ResponseError{Message: "invalid JSON", Cause: err}
	}
	return &JobDraft{
		Title:                   strings.TrimSpace(raw.Title),
		Company:                 strings.TrimSpace(raw.Company),
		RequiredSkills:          raw.RequiredSkills,
		NiceToHaveSkills:        raw.NiceToHaveSkills,
		ExperienceYearsRequired: raw.ExperienceYearsRequired,
		Responsibilities:        raw.Responsibilities,
	}, nil
}

// postProcessDraft deduplicates skills through the matcher, drops
// nice-to-haves already required and validates the result.
func postProcessDraft(d *JobDraft, m *skills.Matcher) error {
	d.RequiredSkills = m.Dedupe(trimAll(d.RequiredSkills))
	var nice []string
	for _, s := range m.Dedupe(trimAll(d.NiceToHaveSkills)) {
		if !m.Contains(d.RequiredSkills, s) {
			nice = append(nice, s)
		}
	}
	d.NiceToHaveSkills = nice
	if d.NiceToHaveSkills == nil {
		d.NiceToHaveSkills = []string{}
	}
	d.Responsibilities = trimAll(d.Responsibilities)

	if len(d.RequiredSkills) == 0 {
		return &DraftError{Field: "required_skills", Message: "at least one required skill is expected"}
	}
	if y := d.ExperienceYearsRequired; y != nil && (*y < 0 || *y > maxYearsRequired || math.IsNaN(*y)) {
		return &DraftError{Field: "experience_years_required", Message: "out of range"}
	}
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// parseWithRules builds a draft from section headers and the skill vocabulary.
func parseWithRules(text string, opts JobParseOptions) *JobDraft {
	segments := opts.Segmenter.Segment(types.RawDocument{Text: text})
	m := opts.Matcher

	d := &JobDraft{
		RequiredSkills:   []string{},
		NiceToHaveSkills: []string{},
		Responsibilities: []string{},
		Description:      strings.TrimSpace(text),
	}

	var required, preferred []string
	for _, s := range segments {
		switch s.SectionKind {
		case types.SectionPreferred:
			preferred = append(preferred, m.FindInText(s.Text)...)
		case types.SectionRequirements, types.SectionSkills:
			for _, line := range s.Lines() {
				if preferredCues.In(line) {
					preferred = append(preferred, m.FindInText(line)...)
				} else {
					required = append(required, m.FindInText(line)...)
				}
			}
		case types.SectionResponsibilities:
			for _, line := range s.Lines() {
				if len(d.Responsibilities) < maxResponsibilities {
					d.Responsibilities = append(d.Responsibilities, stripBullet(line))
				}
			}
		}
	}

	// Postings without recognizable requirement headers
	if len(required) == 0 {
		for _, line := range sentenceBreak.Split(text, -1) {
			if preferredCues.In(line) {
				preferred = append(preferred, m.FindInText(line)...)
			} else {
				required = append(required, m.FindInText(line)...)
			}
		}
	}

	d.RequiredSkills = m.Dedupe(required)
	for _, s := range m.Dedupe(preferred) {
		if !m.Contains(d.RequiredSkills, s) {
			d.NiceToHaveSkills = append(d.NiceToHaveSkills, s)
		}
	}
	d.ExperienceYearsRequired = YearsRequired(text)
	d.Title, d.Company = titleAndCompany(segments)
	return d
}

// YearsRequired returns the largest "N+ years" lower bound in text, or nil
// when the posting states none. Values above 30 are ignored as noise.
func YearsRequired(text string) *float64 {
	best := -1.0
	for _, m := range yearsRequired.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n == 0 || n > maxYearsRequired {
			continue
		}
		if float64(n) > best {
			best = float64(n)
		}
	}
	if best < 0 {
		return nil
	}
	return &best
}

// titleAndCompany reads labeled fields or the first header line, which is
// commonly "Title at Company" or "Title - Company".
func titleAndCompany(segments []types.Segment) (title, company string) {
	var lines []string
	for _, s := range types.SegmentsOfKind(segments, types.SectionHeader) {
		lines = append(lines, s.Lines()...)
	}
	if len(lines) == 0 && len(segments) > 0 {
		lines = segments[0].Lines()
		if len(lines) > 3 {
			lines = lines[:3]
		}
	}

	for _, l := range lines {
		if m := titleLabel.FindStringSubmatch(l); m != nil && title == "" {
			title = strings.TrimSpace(m[1])
		}
		if m := companyLabel.FindStringSubmatch(l); m != nil && company == "" {
			company = strings.TrimSpace(m[1])
		}
	}
	if title != "" || len(lines) == 0 {
		return title, company
	}

	first := lines[0]
	if len(first) > maxTitleLength {
		return "", company
	}
	if m := companyAtTitle.FindStringSubmatch(first); m != nil && roleKeywords.In(m[1]) {
		if company == "" {
			company = strings.TrimSpace(m[2])
		}
		return strings.TrimSpace(m[1]), company
	}
	pieces := splitPieces(first)
	if len(pieces) >= 2 && roleKeywords.In(pieces[0]) {
		if company == "" {
			company = pieces[1]
		}
		return pieces[0], company
	}
	if roleKeywords.In(first) && wordCount(first) <= maxTitleWords {
		return first, company
	}
	return "", company
}
