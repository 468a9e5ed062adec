// Package export writes ranking results to spreadsheet workbooks.
package export

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/xuri/excelize/v2"
)

// Sheet names
const (
	SummarySheet      = "Summary"
	RankingSheet      = "Ranking"
	ExplanationsSheet = "Explanations"
)

var rankingHeaders = []string{
	"Rank", "Candidate", "Source", "Overall", "Confidence", "Percentile",
	"Skills", "Experience", "Projects", "Domain", "Matched Skills", "Missing Skills", "Notes",
}

// Row is one ranked candidate. Explanation is optional.
type Row struct {
	Candidate   string
	Source      string
	Score       *types.MatchScore
	Explanation *types.Explanation
}

// WriteRankingWorkbook writes the ranking for job to path, adding the .xlsx
// extension when missing. Rows are written in the order given.
func WriteRankingWorkbook(path string, job *types.JobProfile, rows []Row) error {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	f, err := buildWorkbook(job, rows, time.Now())
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(filepath.Clean(path)); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// WriteRanking streams the workbook to w.
func WriteRanking(w io.Writer, job *types.JobProfile, rows []Row) error {
	f, err := buildWorkbook(job, rows, time.Now())
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(job *types.JobProfile, rows []Row, now time.Time) (*excelize.File, error) {
	if job == nil {
		return nil, errors.New("job profile is required")
	}
	for i, r := range rows {
		if r.Score == nil {
			return nil, fmt.Errorf("row %d has no score", i+1)
		}
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := createSummarySheet(f, job, rows, now); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := createRankingSheet(f, rows); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create ranking sheet: %w", err)
	}
	if hasExplanations(rows) {
		if err := createExplanationsSheet(f, rows); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create explanations sheet: %w", err)
		}
	}
	return f, nil
}

func createSummarySheet(f *excelize.File, job *types.JobProfile, rows []Row, now time.Time) error {
	sheet := SummarySheet
	if err := f.SetColWidth(sheet, "A", "A", 25); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 60); err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	years := "Not specified"
	if job.ExperienceYearsRequired != nil {
		years = fmt.Sprintf("%.0f", *job.ExperienceYearsRequired)
	}
	top, mean := summaryStats(rows)

	entries := [][2]any{
		{"Job Title", job.Title},
		{"Company", job.Company},
		{"Required Skills", strings.Join(job.RequiredSkills, ", ")},
		{"Nice-to-have Skills", strings.Join(job.NiceToHaveSkills, ", ")},
		{"Required Experience (years)", years},
		{"Candidates", len(rows)},
		{"Top Score", top},
		{"Mean Score", mean},
		{"Generated", now.UTC().Format(time.RFC3339)},
	}
	for i, e := range entries {
		row := i + 1
		label := fmt.Sprintf("A%d", row)
		if err := f.SetCellValue(sheet, label, e[0]); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, label, label, labelStyle); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), e[1]); err != nil {
			return err
		}
	}
	return nil
}

func createRankingSheet(f *excelize.File, rows []Row) error {
	sheet := RankingSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	widths := []float64{6, 25, 30, 10, 12, 11, 9, 11, 10, 9, 35, 35, 60}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	styles, err := confidenceStyles(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, "A1", &rankingHeaders); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(rankingHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, r := range rows {
		s := r.Score
		var percentile any = ""
		if s.PercentileRank != nil {
			percentile = *s.PercentileRank
		}
		values := []any{
			i + 1,
			r.Candidate,
			r.Source,
			s.Overall,
			string(s.Confidence),
			percentile,
			s.DimensionScores.SkillMatch,
			s.DimensionScores.Experience,
			s.DimensionScores.ProjectSimilarity,
			s.DimensionScores.DomainFamiliarity,
			strings.Join(s.MatchedSkills, ", "),
			strings.Join(s.MissingSkills, ", "),
			s.Notes,
		}
		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return err
		}
		if style, ok := styles[s.Confidence]; ok {
			end, err := excelize.CoordinatesToCellName(len(rankingHeaders), i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, start, end, style); err != nil {
				return err
			}
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	if len(rows) > 0 {
		end, err := excelize.CoordinatesToCellName(len(rankingHeaders), len(rows)+1)
		if err != nil {
			return err
		}
		if err := f.AutoFilter(sheet, "A1:"+end, nil); err != nil {
			return err
		}
	}
	return nil
}

func createExplanationsSheet(f *excelize.File, rows []Row) error {
	sheet := ExplanationsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	for col, w := range map[string]float64{"A": 25, "B": 50, "C": 50, "D": 50, "E": 10} {
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return err
	}

	headers := []string{"Candidate", "Strengths", "Weaknesses", "Recommendations", "Source"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	row := 2
	for _, r := range rows {
		if r.Explanation == nil {
			continue
		}
		e := r.Explanation
		values := []any{
			r.Candidate,
			bulletLines(e.Strengths),
			bulletLines(e.Weaknesses),
			bulletLines(e.Recommendations),
			e.Source,
		}
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, fmt.Sprintf("E%d", row), wrap); err != nil {
			return err
		}
		row++
	}
	return nil
}

func confidenceStyles(f *excelize.File) (map[types.Confidence]int, error) {
	fills := map[types.Confidence]string{
		types.ConfidenceHigh:   "C6EFCE",
		types.ConfidenceMedium: "FFEB9C",
		types.ConfidenceLow:    "FFC7CE",
	}
	styles := make(map[types.Confidence]int, len(fills))
	for c, color := range fills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return nil, err
		}
		styles[c] = id
	}
	return styles, nil
}

func summaryStats(rows []Row) (top, mean float64) {
	if len(rows) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, r := range rows {
		sum += r.Score.Overall
		top = max(top, r.Score.Overall)
	}
	return top, float64(int(sum/float64(len(rows))*100+0.5)) / 100
}

func hasExplanations(rows []Row) bool {
	for _, r := range rows {
		if r.Explanation != nil {
			return true
		}
	}
	return false
}

func bulletLines(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return "- " + strings.Join(items, "\n- ")
}
