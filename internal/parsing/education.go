package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

var (
	fieldMarker = regexp.MustCompile(`(?i)\s+(?:in|of)\s+`)
	fromAt      = regexp.MustCompile(`(?i)\b(?:from|at)\s+`)
	fieldEnd    = regexp.MustCompile(`(?i)\s+(?:from|at)\s+|\s*\(|\s+(?:19|20)\d{2}\b|\s*[-–—]\s*(?:19|20)\d{2}`)
)

// extractEducation reads education segments plus blocks deferred from
// experience extraction.
func (e *Extractor) extractEducation(segments []types.Segment, deferred []string) []types.EducationEntry {
	all := blocks(blockLines(segments))
	for _, d := range deferred {
		all = append(all, blocks(strings.Split(d, "\n"))...)
	}

	var out []types.EducationEntry
	for _, block := range all {
		out = append(out, educationFromBlock(block)...)
	}
	return dedupeEducation(out)
}

func educationFromBlock(block []string) []types.EducationEntry {
	lines := make([]string, len(block))
	for i, l := range block {
		lines[i] = stripBullet(l)
	}

	var institutions, degrees []int
	for i, l := range lines {
		if institutionKeywords.In(l) {
			institutions = append(institutions, i)
		}
		if degreeKeywords.In(l) {
			degrees = append(degrees, i)
		}
	}

	var out []types.EducationEntry
	used := make(map[int]bool)
	for _, i := range institutions {
		entry := types.EducationEntry{Institution: institutionName(lines[i])}
		if j, ok := nearest(i, degrees); ok {
			used[j] = true
			entry.Degree, entry.Field = parseDegree(lines[j])
			entry.Year = blockYear(lines, i, j)
		} else {
			entry.Year = blockYear(lines, i, i)
		}
		out = append(out, entry)
	}

	// degree lines with no institution in the block
	if len(institutions) == 0 {
		for _, j := range degrees {
			if used[j] {
				continue
			}
			degree, field := parseDegree(lines[j])
			out = append(out, types.EducationEntry{Degree: degree, Field: field, Year: blockYear(lines, j, j)})
		}
	}

	kept := out[:0]
	for _, entry := range out {
		if entry.Degree != "" || entry.Institution != "" {
			kept = append(kept, entry)
		}
	}
	return kept
}

// nearest returns the element of candidates closest to i, preferring the
// earlier line on ties.
func nearest(i int, candidates []int) (int, bool) {
	best, bestDist := -1, 0
	for _, c := range candidates {
		d := c - i
		if d < 0 {
			d = -d
		}
		if best < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, best >= 0
}

func institutionName(line string) string {
	for _, p := range splitPieces(line) {
		if institutionKeywords.In(p) {
			// "B.S. in CS from State University"
			if loc := fromAt.FindStringIndex(p); loc != nil {
				p = p[loc[1]:]
			}
			return strings.TrimSpace(yearPattern.ReplaceAllString(p, ""))
		}
	}
	return ""
}

// parseDegree splits a degree line into the degree name and the field of
// study found after "in" or "of".
func parseDegree(line string) (string, string) {
	piece := line
	for _, p := range splitPieces(line) {
		if degreeKeywords.In(p) {
			piece = p
			break
		}
	}
	if loc := fieldEnd.FindStringIndex(piece); loc != nil {
		piece = piece[:loc[0]]
	}
	piece = strings.TrimSpace(piece)

	var degree, field string
	markers := fieldMarker.FindAllStringIndex(piece, -1)
	switch {
	case len(markers) == 0:
		degree = piece
	default:
		// prefer "in" when both appear: "Bachelor of Science in Physics"
		m := markers[len(markers)-1]
		for _, cand := range markers {
			if strings.EqualFold(strings.TrimSpace(piece[cand[0]:cand[1]]), "in") {
				m = cand
				break
			}
		}
		if strings.EqualFold(strings.TrimSpace(piece[m[0]:m[1]]), "in") {
			degree = piece[:m[0]]
		} else {
			degree = piece
		}
		field = piece[m[1]:]
	}
	return strings.TrimSpace(strings.Trim(degree, ",;:")), strings.TrimSpace(strings.Trim(field, ",;:"))
}

// blockYear prefers a year on the institution or degree line and otherwise
// takes the latest year in the block.
func blockYear(lines []string, i, j int) string {
	for _, idx := range []int{j, i} {
		if years := yearPattern.FindAllString(lines[idx], -1); len(years) > 0 {
			return years[len(years)-1]
		}
	}
	latest := ""
	for _, l := range lines {
		for _, y := range yearPattern.FindAllString(l, -1) {
			if y > latest {
				latest = y
			}
		}
	}
	return latest
}

func dedupeEducation(entries []types.EducationEntry) []types.EducationEntry {
	out := make([]types.EducationEntry, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		key := strings.ToLower(e.Institution + "|" + e.Degree)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
