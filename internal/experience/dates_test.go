package experience

import (
	"testing"

	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePartialDate(t *testing.T) {
	tests := []struct {
		input    string
		expected types.PartialDate
	}{
		{"2019", types.PartialDate{Year: 2019}},
		{"2019-03", types.PartialDate{Year: 2019, Month: 3}},
		{"2019/3", types.PartialDate{Year: 2019, Month: 3}},
		{"03/2019", types.PartialDate{Year: 2019, Month: 3}},
		{"Mar 2019", types.PartialDate{Year: 2019, Month: 3}},
		{"March, 2019", types.PartialDate{Year: 2019, Month: 3}},
		{"Sept. 2019", types.PartialDate{Year: 2019, Month: 9}},
		{"Jan '19", types.PartialDate{Year: 2019, Month: 1}},
		{"Dec '98", types.PartialDate{Year: 1998, Month: 12}},
		{"Present", types.PartialDate{Present: true}},
		{"current", types.PartialDate{Present: true}},
		{"Till Date", types.PartialDate{Present: true}},
		{" now ", types.PartialDate{Present: true}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParsePartialDate(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.expected, *got)
		})
	}
}

func TestParsePartialDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "yesterday", "13/2019", "2019-13", "Foo 2019", "1066", "3019"} {
		t.Run(input, func(t *testing.T) {
			_, ok := ParsePartialDate(input)
			assert.False(t, ok)
		})
	}

	_, err := ParseDate("Foo 2019")
	var parseErr *DateParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "Foo 2019", parseErr.Input)
}

func TestFindDateRanges(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		start string
		end   string
	}{
		{"year to year", "Acme Corp 2019-2021", "2019", "2021"},
		{"year-month", "2019-01 - 2020-06", "2019-01", "2020-06"},
		{"month names with en dash", "Jan 2019 – Present", "2019-01", "present"},
		{"to keyword", "March, 2018 to Current", "2018-03", "present"},
		{"slash months", "(06/2017 - 08/2019)", "2017-06", "2019-08"},
		{"till date", "Sept. 2020 till date", "2020-09", "present"},
		{"to date", "2020 to date", "2020", "present"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges := FindDateRanges(tt.line)
			require.Len(t, ranges, 1)
			assert.Equal(t, tt.start, ranges[0].Start.String())
			assert.Equal(t, tt.end, ranges[0].End.String())
			assert.Equal(t, tt.line[ranges[0].From:ranges[0].To], ranges[0].Text)
		})
	}
}

func TestFindDateRanges_Multiple(t *testing.T) {
	ranges := FindDateRanges("Intern 2016 - 2017, Engineer 2017 - Present")
	require.Len(t, ranges, 2)
	assert.False(t, ranges[0].IsPresent())
	assert.True(t, ranges[1].IsPresent())
	assert.Less(t, ranges[0].From, ranges[1].From)
}

func TestFindDateRanges_SkipsInvertedAndNoise(t *testing.T) {
	assert.Empty(t, FindDateRanges("2021 - 2019"))
	assert.Empty(t, FindDateRanges("Call 555-1234"))
	assert.Empty(t, FindDateRanges("Graduated in 2019"))
	assert.False(t, ContainsDateRange("no dates here"))
}

func TestFindDates(t *testing.T) {
	dates := FindDates("B.Sc. Computer Science, May 2018")
	require.Len(t, dates, 1)
	assert.Equal(t, "2018-05", dates[0].String())

	assert.Empty(t, FindDates("Room 12345"))
}
