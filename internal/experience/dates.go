package experience

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	minYear = 1950
	maxYear = 2100
)

var monthNames = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

var presentWords = map[string]bool{
	"present":   true,
	"current":   true,
	"currently": true,
	"now":       true,
	"ongoing":   true,
	"today":     true,
	"date":      true,
	"till date": true,
	"to date":   true,
}

const (
	monthPattern   = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`
	datePattern    = `(?:` + monthPattern + `,?\s*'?\d{4}|` + monthPattern + `\s*'\d{2}|\d{1,2}[/.-]\d{4}|\d{4}[/.-](?:0?[1-9]|1[0-2])\b|\d{4})`
	presentPattern = `(?:present|current(?:ly)?|now|ongoing|today|(?:till\s+|to\s+)?date)`
	rangeSeparator = `\s*(?:-|–|—|~|\bto\b|\buntil\b|\btill\b|\bthrough\b)\s*`
)

var (
	rangeRegex = regexp.MustCompile(`(?i)\b(` + datePattern + `)` + rangeSeparator + `(` + datePattern + `|` + presentPattern + `)\b`)
	dateRegex  = regexp.MustCompile(`(?i)\b` + datePattern + `\b`)

	yearOnly      = regexp.MustCompile(`^(\d{4})$`)
	yearMonth     = regexp.MustCompile(`^(\d{4})[/.-](\d{1,2})$`)
	monthYear     = regexp.MustCompile(`^(\d{1,2})[/.-](\d{4})$`)
	namedMonth    = regexp.MustCompile(`^([a-z]+)\.?,?\s*'?(\d{4}|\d{2})$`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// DateRange is a start/end pair found in a line of text. Offsets are byte
// positions of the whole match within the line.
type DateRange struct {
	Start *types.PartialDate
	End   *types.PartialDate
	Text  string
	From  int
	To    int
}

// IsPresent reports whether the range is open-ended.
func (r DateRange) IsPresent() bool {
	return r.End != nil && r.End.Present
}

// ParsePartialDate resolves a date expression to year or year+month
// granularity. Accepted forms include "2019", "2019-03", "03/2019", "Mar 2019",
// "March, 2019", "Sept. 2019", "Jan '19" and present markers such as
// "present", "current" or "till date".
func ParsePartialDate(s string) (*types.PartialDate, bool) {
	d, err := ParseDate(s)
	if err != nil {
		return nil, false
	}
	return d, true
}

// ParseDate is ParsePartialDate with a *DateParseError describing the failure.
func ParseDate(s string) (*types.PartialDate, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = whitespaceRun.ReplaceAllString(norm, " ")
	norm = strings.Trim(norm, "()[],;")
	if norm == "" {
		return nil, &DateParseError{Input: s, Message: "empty"}
	}
	if presentWords[norm] {
		return types.PresentDate(), nil
	}

	if m := yearOnly.FindStringSubmatch(norm); m != nil {
		return newDate(s, m[1], 0)
	}
	if m := yearMonth.FindStringSubmatch(norm); m != nil {
		month, _ := strconv.Atoi(m[2])
		return newDate(s, m[1], month)
	}
	if m := monthYear.FindStringSubmatch(norm); m != nil {
		month, _ := strconv.Atoi(m[1])
		return newDate(s, m[2], month)
	}
	if m := namedMonth.FindStringSubmatch(norm); m != nil {
		month, ok := monthNames[m[1]]
		if !ok {
			return nil, &DateParseError{Input: s, Message: "unknown month name"}
		}
		year := m[2]
		if len(year) == 2 {
			year = expandYear(year)
		}
		return newDate(s, year, month)
	}
	return nil, &DateParseError{Input: s, Message: "unrecognized format"}
}

func newDate(input, yearText string, month int) (*types.PartialDate, error) {
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return nil, &DateParseError{Input: input, Message: "invalid year"}
	}
	if year < minYear || year > maxYear {
		return nil, &DateParseError{Input: input, Message: "year out of range"}
	}
	if month < 0 || month > 12 {
		return nil, &DateParseError{Input: input, Message: "invalid month"}
	}
	return &types.PartialDate{Year: year, Month: month}, nil
}

// expandYear turns a two-digit year into a four-digit one, pivoting at 50.
func expandYear(yy string) string {
	n, _ := strconv.Atoi(yy)
	if n < 50 {
		return strconv.Itoa(2000 + n)
	}
	return strconv.Itoa(1900 + n)
}

// FindDateRanges returns every date range in line, in order of appearance.
// Ranges whose end falls before their start are skipped.
func FindDateRanges(line string) []DateRange {
	var out []DateRange
	for _, loc := range rangeRegex.FindAllStringSubmatchIndex(line, -1) {
		start, ok := ParsePartialDate(line[loc[2]:loc[3]])
		if !ok || start.Present {
			continue
		}
		end, ok := ParsePartialDate(line[loc[4]:loc[5]])
		if !ok {
			continue
		}
		if end.Before(*start) {
			continue
		}
		out = append(out, DateRange{
			Start: start,
			End:   end,
			Text:  line[loc[0]:loc[1]],
			From:  loc[0],
			To:    loc[1],
		})
	}
	return out
}

// FindDates returns every standalone date expression in line.
func FindDates(line string) []*types.PartialDate {
	var out []*types.PartialDate
	for _, match := range dateRegex.FindAllString(line, -1) {
		if d, ok := ParsePartialDate(match); ok {
			out = append(out, d)
		}
	}
	return out
}

// ContainsDateRange reports whether line holds at least one date range.
func ContainsDateRange(line string) bool {
	return len(FindDateRanges(line)) > 0
}
