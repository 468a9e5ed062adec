// Package ranking scores candidate profiles against job profiles and ranks
// candidate pools.
package ranking

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/jonathan/resume-matcher/internal/skills"
	"github.com/jonathan/resume-matcher/internal/types"
)

// Neutral and floor values used when a dimension has no signal
const (
	neutralSkillScore      = 50.0
	neutralExperienceScore = 70.0
	neutralDomainScore     = 50.0
	noProjectsScore        = 30.0
)

const (
	requiredShare    = 70.0
	niceToHaveShare  = 30.0
	surplusPerSkill  = 2.0
	maxSurplusBonus  = 10.0
	maxProjects      = 5
	minProjectHits   = 2
	recentEntries    = 3
	highConfidence   = 80.0
	mediumConfidence = 60.0
)

// skillResult is the skill dimension with the matched and missing lists
type skillResult struct {
	score   float64
	matched []string
	missing []string
}

// skillMatchScore is 70% required coverage plus 30% nice-to-have coverage,
// plus 2 points per candidate skill beyond the required count, capped at 10.
// A job without required skills scores a neutral 50.
func skillMatchScore(m *skills.Matcher, candidate, required, niceToHave []string) skillResult {
	res := skillResult{matched: []string{}, missing: []string{}}

	matchedRequired := 0
	for _, r := range required {
		if m.Contains(candidate, r) {
			matchedRequired++
			res.matched = append(res.matched, r)
		} else {
			res.missing = append(res.missing, r)
		}
	}
	matchedNice := 0
	for _, n := range niceToHave {
		if m.Contains(candidate, n) {
			matchedNice++
			res.matched = append(res.matched, n)
		}
	}

	if len(required) == 0 {
		res.score = neutralSkillScore
		return res
	}

	score := requiredShare * float64(matchedRequired) / float64(len(required))
	if len(niceToHave) > 0 {
		score += niceToHaveShare * float64(matchedNice) / float64(len(niceToHave))
	}
	if surplus := len(candidate) - len(required); surplus > 0 {
		score += math.Min(maxSurplusBonus, surplusPerSkill*float64(surplus))
	}
	res.score = math.Min(100, score)
	return res
}

// experienceScore compares candidate years with the requirement. Surplus
// years have diminishing returns; shortfalls are penalized steeply.
func experienceScore(candidateYears float64, required *float64) float64 {
	if required == nil {
		return neutralExperienceScore
	}
	diff := candidateYears - *required
	if diff >= 0 {
		switch {
		case diff == 0:
			return 100
		case diff <= 2:
			return 95
		case diff <= 5:
			return 90
		default:
			return 85
		}
	}
	switch deficit := -diff; {
	case deficit <= 1:
		return 80
	case deficit <= 2:
		return 60
	case deficit <= 3:
		return 40
	default:
		return 20
	}
}

// projectSimilarityScore takes the five projects with the most job skill hits
// and returns the share of them with at least two hits.
func projectSimilarityScore(m *skills.Matcher, projects []types.ProjectEntry, jobSkills []string) float64 {
	if len(projects) == 0 {
		return noProjectsScore
	}
	hits := make([]int, len(projects))
	for i, p := range projects {
		hits[i] = projectHits(m, p, jobSkills)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(hits)))

	considered := min(len(hits), maxProjects)
	relevant := 0
	for _, h := range hits[:considered] {
		if h >= minProjectHits {
			relevant++
		}
	}
	return float64(relevant) / float64(considered) * 100
}

// projectHits counts distinct job skills named by a project.
func projectHits(m *skills.Matcher, p types.ProjectEntry, jobSkills []string) int {
	named := append(append([]string{}, p.Technologies...), m.FindInText(p.Name+"\n"+p.Description)...)
	n := 0
	for _, s := range jobSkills {
		if m.Contains(named, s) {
			n++
		}
	}
	return n
}

// domainScore rescales cosine similarity from [-1,1] to [0,100].
func domainScore(ctx context.Context, e Embedder, candidateText, jobText string) (float64, error) {
	if e == nil {
		return neutralDomainScore, &EmbeddingError{Message: "no embedder configured"}
	}
	if strings.TrimSpace(candidateText) == "" || strings.TrimSpace(jobText) == "" {
		return neutralDomainScore, &EmbeddingError{Message: "no text to embed"}
	}
	cv, err := e.Embed(ctx, candidateText)
	if err != nil {
		return neutralDomainScore, &EmbeddingError{Message: "candidate text", Cause: err}
	}
	jv, err := e.Embed(ctx, jobText)
	if err != nil {
		return neutralDomainScore, &EmbeddingError{Message: "job text", Cause: err}
	}
	cos, err := Cosine(cv, jv)
	if err != nil {
		return neutralDomainScore, err
	}
	return (cos + 1) / 2 * 100, nil
}

// RecentExperienceText joins the most recent experience entries. Without
// entries the raw résumé text stands in.
func RecentExperienceText(c *types.CandidateProfile) string {
	entries := append([]types.ExperienceEntry(nil), c.Experience...)
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsCurrent() != b.IsCurrent() {
			return a.IsCurrent()
		}
		if a.StartDate == nil || b.StartDate == nil {
			return a.StartDate != nil
		}
		return b.StartDate.Before(*a.StartDate)
	})

	var parts []string
	for i, e := range entries {
		if i == recentEntries {
			break
		}
		parts = append(parts, strings.TrimSpace(strings.Join([]string{
			e.Title, e.Company, e.Description, strings.Join(e.Technologies, ", "),
		}, "\n")))
	}
	if len(parts) == 0 {
		return c.RawText
	}
	return strings.Join(parts, "\n\n")
}

// jobText is the text embedded for the job side of domain familiarity.
func jobText(j *types.JobProfile) string {
	if strings.TrimSpace(j.Description) != "" {
		return j.Description
	}
	return strings.Join(append([]string{j.Title}, j.Responsibilities...), "\n")
}

// ConfidenceFor maps an overall score to a confidence label.
func ConfidenceFor(overall float64) types.Confidence {
	switch {
	case overall >= highConfidence:
		return types.ConfidenceHigh
	case overall >= mediumConfidence:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}

// overallScore is the weighted sum of unrounded dimension scores, rounded
// once at the end.
func overallScore(w Weights, d types.DimensionScores) float64 {
	return round2(w.SkillMatch*d.SkillMatch +
		w.Experience*d.Experience +
		w.ProjectSimilarity*d.ProjectSimilarity +
		w.DomainFamiliarity*d.DomainFamiliarity)
}

func roundDimensions(d types.DimensionScores) types.DimensionScores {
	return types.DimensionScores{
		SkillMatch:        round2(d.SkillMatch),
		Experience:        round2(d.Experience),
		ProjectSimilarity: round2(d.ProjectSimilarity),
		DomainFamiliarity: round2(d.DomainFamiliarity),
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
