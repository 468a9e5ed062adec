package ranking

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// Notes creates a brief rule-based explanation of a score.
func Notes(s *types.MatchScore) string {
	var parts []string
	d := s.DimensionScores

	switch {
	case len(s.MatchedSkills) == 0:
		parts = append(parts, "No skill matches")
	case d.SkillMatch >= 70:
		parts = append(parts, fmt.Sprintf("Strong skill match (%s)", strings.Join(s.MatchedSkills, ", ")))
	case d.SkillMatch >= 40:
		parts = append(parts, fmt.Sprintf("Moderate skill match (%s)", strings.Join(s.MatchedSkills, ", ")))
	default:
		parts = append(parts, fmt.Sprintf("Weak skill match (%s)", strings.Join(s.MatchedSkills, ", ")))
	}
	if len(s.MissingSkills) > 0 {
		parts = append(parts, fmt.Sprintf("Missing %s", strings.Join(s.MissingSkills, ", ")))
	}

	switch {
	case d.Experience >= 90:
		parts = append(parts, "Meets the experience requirement")
	case d.Experience >= 60:
		parts = append(parts, "Close to the experience requirement")
	default:
		parts = append(parts, "Below the experience requirement")
	}

	if d.ProjectSimilarity >= 60 {
		parts = append(parts, "Relevant project work")
	} else if d.ProjectSimilarity < 30 {
		parts = append(parts, "Little relevant project work")
	}

	return strings.Join(parts, ". ")
}

// RuleExplanation derives strengths, weaknesses and recommendations from the
// dimension scores. It stands in when no explanation generator is available.
func RuleExplanation(s *types.MatchScore) types.Explanation {
	exp := types.Explanation{
		Strengths:       []string{},
		Weaknesses:      []string{},
		Recommendations: []string{},
		Source:          "rules",
	}
	d := s.DimensionScores

	if len(s.MatchedSkills) > 0 {
		exp.Strengths = append(exp.Strengths, fmt.Sprintf("Has %s", strings.Join(s.MatchedSkills, ", ")))
	}
	if d.Experience >= 90 {
		exp.Strengths = append(exp.Strengths, "Experience meets the requirement")
	} else if d.Experience < 60 {
		exp.Weaknesses = append(exp.Weaknesses, "Less experience than required")
		exp.Recommendations = append(exp.Recommendations, "Highlight the scope of past roles and any related work")
	}
	if d.ProjectSimilarity >= 60 {
		exp.Strengths = append(exp.Strengths, "Projects use the job's technologies")
	} else if d.ProjectSimilarity <= 30 {
		exp.Weaknesses = append(exp.Weaknesses, "Few projects use the job's technologies")
		exp.Recommendations = append(exp.Recommendations, "Add projects that use the required stack")
	}
	if len(s.MissingSkills) > 0 {
		exp.Weaknesses = append(exp.Weaknesses, fmt.Sprintf("Missing %s", strings.Join(s.MissingSkills, ", ")))
		exp.Recommendations = append(exp.Recommendations, fmt.Sprintf("Gain or demonstrate experience with %s", strings.Join(s.MissingSkills, ", ")))
	}
	return exp
}
