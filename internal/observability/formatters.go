// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jonathan/resume-matcher/internal/logging"
	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxSkillsToShow caps inline skill lists
	maxSkillsToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads line to the box's inner width in runes.
func pad(line string) string {
	inner := boxWidth - 4
	if utf8.RuneCountInString(line) > inner {
		line = logging.Truncate(line, inner-3)
	}
	return line + strings.Repeat(" ", max(0, inner-utf8.RuneCountInString(line)))
}

// skillList joins skills, showing at most maxSkillsToShow.
func skillList(skills []string) string {
	if len(skills) == 0 {
		return "none"
	}
	if len(skills) <= maxSkillsToShow {
		return strings.Join(skills, ", ")
	}
	return fmt.Sprintf("%s (+%d)", strings.Join(skills[:maxSkillsToShow], ", "), len(skills)-maxSkillsToShow)
}

// PrintSegments outputs each detected section with its column and confidence.
func (p *Printer) PrintSegments(segments []types.Segment) {
	if len(segments) == 0 {
		return
	}

	var sb strings.Builder
	for i, seg := range segments {
		lines := strings.Count(seg.Text, "\n") + 1
		sb.WriteString(fmt.Sprintf("%-16s %-5s conf %.2f  %d lines\n", seg.SectionKind, seg.Column, seg.Confidence, lines))
		first, _, _ := strings.Cut(strings.TrimSpace(seg.Text), "\n")
		sb.WriteString(fmt.Sprintf("  %s", first))
		if i < len(segments)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(fmt.Sprintf("SEGMENTS (%d)", len(segments)), sb.String())
}

// PrintCandidateProfile outputs a human-readable summary of a candidate profile.
func (p *Printer) PrintCandidateProfile(profile *types.CandidateProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", orDash(profile.Name)))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", orDash(profile.Email)))
	if profile.ExperienceYears != nil {
		sb.WriteString(fmt.Sprintf("Years:    %.1f\n", *profile.ExperienceYears))
	} else {
		sb.WriteString("Years:    -\n")
	}
	sb.WriteString(fmt.Sprintf("Version:  %d\n", profile.Version))
	sb.WriteString("\n")

	if len(profile.Experience) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(profile.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			e := profile.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s, %s (%s)\n", orDash(e.Title), orDash(e.Company), dateRange(e.StartDate, e.EndDate)))
		}
		if len(profile.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Experience)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(profile.Education) > 0 {
		sb.WriteString("Education:\n")
		count := min(len(profile.Education), 3)
		for i := 0; i < count; i++ {
			e := profile.Education[i]
			sb.WriteString(fmt.Sprintf("  • %s, %s\n", orDash(e.Degree), orDash(e.Institution)))
		}
		sb.WriteString("\n")
	}

	if all := profile.Skills.All(); len(all) > 0 {
		sb.WriteString(fmt.Sprintf("Skills:   %s\n", skillList(all)))
	}
	sb.WriteString(fmt.Sprintf("Projects: %d  Certifications: %d  Languages: %d",
		len(profile.Projects), len(profile.Certifications), len(profile.Languages)))

	p.printBox("CANDIDATE PROFILE", sb.String())
}

// PrintJobProfile outputs a human-readable summary of the parsed job profile.
func (p *Printer) PrintJobProfile(profile *types.JobProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", orDash(profile.Company)))
	sb.WriteString(fmt.Sprintf("Role:     %s\n", orDash(profile.Title)))
	if profile.ExperienceYearsRequired != nil {
		sb.WriteString(fmt.Sprintf("Years:    %.0f+\n", *profile.ExperienceYearsRequired))
	}
	if profile.ParsedBy != "" {
		sb.WriteString(fmt.Sprintf("Parser:   %s\n", profile.ParsedBy))
	}
	sb.WriteString("\n")

	if len(profile.RequiredSkills) > 0 {
		sb.WriteString("Required:\n")
		count := min(len(profile.RequiredSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", profile.RequiredSkills[i]))
		}
		if len(profile.RequiredSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.RequiredSkills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(profile.NiceToHaveSkills) > 0 {
		sb.WriteString("Nice-to-haves:\n")
		count := min(len(profile.NiceToHaveSkills), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", profile.NiceToHaveSkills[i]))
		}
		if len(profile.NiceToHaveSkills) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.NiceToHaveSkills)-3))
		}
	}

	p.printBox("PARSED JOB PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatchScore outputs one score with its dimension breakdown.
func (p *Printer) PrintMatchScore(score *types.MatchScore) {
	if score == nil {
		return
	}

	d := score.DimensionScores
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall:     %.1f (%s confidence)\n", score.Overall, score.Confidence))
	if score.PercentileRank != nil {
		sb.WriteString(fmt.Sprintf("Percentile:  %.1f\n", *score.PercentileRank))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Skills       %5.1f\n", d.SkillMatch))
	sb.WriteString(fmt.Sprintf("Experience   %5.1f\n", d.Experience))
	sb.WriteString(fmt.Sprintf("Projects     %5.1f\n", d.ProjectSimilarity))
	sb.WriteString(fmt.Sprintf("Domain       %5.1f\n", d.DomainFamiliarity))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Matched: %s\n", skillList(score.MatchedSkills)))
	sb.WriteString(fmt.Sprintf("Missing: %s", skillList(score.MissingSkills)))
	if score.Notes != "" {
		sb.WriteString("\n\n")
		sb.WriteString(score.Notes)
	}

	p.printBox("MATCH SCORE", sb.String())
}

// PrintRanking outputs the top candidates for a job. names maps candidate IDs
// to display labels; unknown IDs are shown shortened.
func (p *Printer) PrintRanking(scores []*types.MatchScore, names map[uuid.UUID]string) {
	if len(scores) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidates ranked: %d\n\n", len(scores)))

	count := min(len(scores), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := scores[i]
		name, ok := names[s.CandidateID]
		if !ok || name == "" {
			name = s.CandidateID.String()[:8]
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, name))
		sb.WriteString(fmt.Sprintf("    Score: %.1f (%s)", s.Overall, s.Confidence))
		if s.PercentileRank != nil {
			sb.WriteString(fmt.Sprintf("  P%.0f", *s.PercentileRank))
		}
		sb.WriteString("\n")
		if len(s.MissingSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Missing: %s\n", skillList(s.MissingSkills)))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(scores) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(scores)-maxItemsToShow))
	}

	p.printBox("RANKING", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExplanation outputs strengths, weaknesses and recommendations.
func (p *Printer) PrintExplanation(e types.Explanation) {
	var sb strings.Builder
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(title + ":\n")
		for _, item := range items {
			sb.WriteString(fmt.Sprintf("  • %s\n", item))
		}
	}
	section("Strengths", e.Strengths)
	section("Weaknesses", e.Weaknesses)
	section("Recommendations", e.Recommendations)
	if sb.Len() == 0 {
		return
	}

	title := "EXPLANATION"
	if e.Source != "" {
		title = fmt.Sprintf("EXPLANATION (%s)", e.Source)
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func dateRange(start, end *types.PartialDate) string {
	switch {
	case start == nil && end == nil:
		return "dates unknown"
	case start == nil:
		return "? – " + end.String()
	case end == nil:
		return start.String() + " – ?"
	default:
		return start.String() + " – " + end.String()
	}
}
