package experience

import (
	"math"
	"sort"
	"time"

	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	daysPerYear = 365.25
	// minReportedYears is the smallest total reported; less is "not enough signal"
	minReportedYears = 1.0
)

// Interval is a resolved employment span
type Interval struct {
	Start time.Time
	End   time.Time
}

// Days returns the length of the interval in days.
func (iv Interval) Days() float64 {
	return iv.End.Sub(iv.Start).Hours() / 24
}

// ResolveDate converts a partial date to the first day of its month, or of
// January when the month is unknown. A present marker resolves to now.
func ResolveDate(d types.PartialDate, now time.Time) time.Time {
	if d.Present {
		return truncateDay(now)
	}
	return time.Date(d.Year, time.Month(max(d.Month, 1)), 1, 0, 0, 0, 0, time.UTC)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Intervals resolves entries into intervals. Entries without a start date are
// dropped; an entry without an end date covers only its start. Ends that
// resolve before their start are clamped to the start.
func Intervals(entries []types.ExperienceEntry, now time.Time) []Interval {
	out := make([]Interval, 0, len(entries))
	for _, e := range entries {
		if e.StartDate == nil {
			continue
		}
		start := ResolveDate(*e.StartDate, now)
		end := start
		if e.EndDate != nil {
			end = ResolveDate(*e.EndDate, now)
		}
		if end.Before(start) {
			end = start
		}
		out = append(out, Interval{Start: start, End: end})
	}
	return out
}

// MergeIntervals sorts intervals by start and merges overlapping or touching
// ones. The input slice is not modified. Merging a merged set returns it
// unchanged.
func MergeIntervals(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].End.Before(sorted[j].End)
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// TotalYears sums merged intervals in years, unrounded.
func TotalYears(intervals []Interval) float64 {
	var days float64
	for _, iv := range MergeIntervals(intervals) {
		days += iv.Days()
	}
	return days / daysPerYear
}

// TotalExperienceYears merges the entries' employment spans and returns the
// total rounded to the nearest half year, or nil when it is under one year.
// now is the evaluation date used for open-ended entries.
func TotalExperienceYears(entries []types.ExperienceEntry, now time.Time) *float64 {
	years := roundHalf(TotalYears(Intervals(entries, now)))
	if years < minReportedYears {
		return nil
	}
	return &years
}

func roundHalf(x float64) float64 {
	return math.Round(x*2) / 2
}
