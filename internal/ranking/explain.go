package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/prompts"
	"github.com/jonathan/resume-matcher/internal/types"
	"go.uber.org/zap"
)

const maxExplanationItems = 4

// explainResponse is the JSON shape requested from the model.
type explainResponse struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// Explainer turns a computed score into free-text feedback. It never changes
// the score it explains.
type Explainer struct {
	client llm.Client
	logger *zap.Logger
}

// NewExplainer creates an Explainer. A nil client makes every call fall back
// to RuleExplanation.
func NewExplainer(client llm.Client, logger *zap.Logger) *Explainer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Explainer{client: client, logger: logger}
}

// Explain asks the model for strengths, weaknesses and recommendations.
func (e *Explainer) Explain(ctx context.Context, score *types.MatchScore, job *types.JobProfile, cand *types.CandidateProfile) (types.Explanation, error) {
	if e.client == nil {
		return types.Explanation{}, fmt.Errorf("no LLM client configured")
	}
	prompt, err := prompts.Render("matching.json", "explain-match", explainData(score, job, cand))
	if err != nil {
		return types.Explanation{}, fmt.Errorf("failed to build explanation prompt: %w", err)
	}

	resp, err := e.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return types.Explanation{}, fmt.Errorf("LLM generation failed: %w", err)
	}
	resp = llm.CleanJSONBlock(resp)

	var parsed explainResponse
	if err := json.Unmarshal([]byte(resp), &parsed); err != nil {
		return types.Explanation{}, fmt.Errorf("failed to parse LLM response: %w (content: %s)", err, resp)
	}
	exp := types.Explanation{
		Strengths:       cleanItems(parsed.Strengths),
		Weaknesses:      cleanItems(parsed.Weaknesses),
		Recommendations: cleanItems(parsed.Recommendations),
		Source:          "llm",
	}
	if len(exp.Strengths)+len(exp.Weaknesses)+len(exp.Recommendations) == 0 {
		return types.Explanation{}, fmt.Errorf("LLM returned an empty explanation")
	}
	return exp, nil
}

// ExplainOrFallback returns the model explanation, or the rule-based one when
// the model is unavailable or its output is unusable.
func (e *Explainer) ExplainOrFallback(ctx context.Context, score *types.MatchScore, job *types.JobProfile, cand *types.CandidateProfile) types.Explanation {
	exp, err := e.Explain(ctx, score, job, cand)
	if err != nil {
		if e.client != nil {
			e.logger.Warn("explanation fell back to rules",
				zap.String("key", types.ScoreKey{CandidateID: score.CandidateID, JobID: score.JobID}.String()),
				zap.Error(err))
		}
		return RuleExplanation(score)
	}
	return exp
}

func explainData(score *types.MatchScore, job *types.JobProfile, cand *types.CandidateProfile) map[string]string {
	d := score.DimensionScores
	return map[string]string{
		"JobTitle":          orUnspecified(job.Title),
		"Company":           orUnspecified(job.Company),
		"RequiredSkills":    joinOrNone(job.RequiredSkills),
		"NiceToHaveSkills":  joinOrNone(job.NiceToHaveSkills),
		"RequiredYears":     yearsText(job.ExperienceYearsRequired),
		"CandidateSkills":   joinOrNone(cand.Skills.All()),
		"CandidateYears":    yearsText(cand.ExperienceYears),
		"RecentExperience":  orUnspecified(strings.TrimSpace(RecentExperienceText(cand))),
		"Overall":           formatScore(score.Overall),
		"Confidence":        string(score.Confidence),
		"SkillMatch":        formatScore(d.SkillMatch),
		"Experience":        formatScore(d.Experience),
		"ProjectSimilarity": formatScore(d.ProjectSimilarity),
		"DomainFamiliarity": formatScore(d.DomainFamiliarity),
		"MatchedSkills":     joinOrNone(score.MatchedSkills),
		"MissingSkills":     joinOrNone(score.MissingSkills),
	}
}

func cleanItems(items []string) []string {
	out := []string{}
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		out = append(out, it)
		if len(out) == maxExplanationItems {
			break
		}
	}
	return out
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not specified"
	}
	return s
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

func yearsText(y *float64) string {
	if y == nil {
		return "Not specified"
	}
	return strconv.FormatFloat(*y, 'f', -1, 64)
}

func formatScore(x float64) string {
	return strconv.FormatFloat(x, 'f', 1, 64)
}
