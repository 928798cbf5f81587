package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMonth_February2025(t *testing.T) {
	cells := BuildMonth(2025, 1)

	require.Len(t, cells, 35)
	assert.Equal(t, Date{2025, time.January, 26}, cells[0].Date)
	assert.False(t, cells[0].InCurrentMonth)
	assert.Equal(t, "Sunday", cells[0].Weekday)

	assert.Equal(t, Date{2025, time.February, 1}, cells[6].Date)
	assert.True(t, cells[6].InCurrentMonth)
	assert.Equal(t, "Saturday", cells[6].Weekday)

	last := cells[len(cells)-1]
	assert.Equal(t, Date{2025, time.March, 1}, last.Date)
	assert.False(t, last.InCurrentMonth)
}

func TestBuildMonth_WholeWeeksCoverEveryDay(t *testing.T) {
	for year := 1999; year <= 2030; year++ {
		for month := 0; month < 12; month++ {
			cells := BuildMonth(year, month)

			require.NotEmpty(t, cells)
			require.Zero(t, len(cells)%7, "%d-%d", year, month)

			var inMonth []Date
			for i, c := range cells {
				assert.Equal(t, Weekdays[i%7], c.Weekday)
				if c.InCurrentMonth {
					inMonth = append(inMonth, c.Date)
				}
			}

			daysInMonth := time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
			require.Len(t, inMonth, daysInMonth, "%d-%d", year, month)
			for i, d := range inMonth {
				assert.Equal(t, Date{year, time.Month(month + 1), i + 1}, d)
			}
		}
	}
}

func TestBuildMonth_IsPure(t *testing.T) {
	assert.Equal(t, BuildMonth(2024, 1), BuildMonth(2024, 1))
}

func TestBuildMonth_MonthStartingSundayHasNoLeadingPadding(t *testing.T) {
	// June 2025 starts on a Sunday
	cells := BuildMonth(2025, 5)
	assert.Equal(t, Date{2025, time.June, 1}, cells[0].Date)
	assert.True(t, cells[0].InCurrentMonth)
}

func TestDate_StringAndParse(t *testing.T) {
	d := Date{2025, time.March, 9}
	assert.Equal(t, "2025-03-09", d.String())
	assert.Equal(t, "Sunday", d.Weekday())

	parsed, err := ParseDate("2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, d, parsed)

	_, err = ParseDate("03/09/2025")
	assert.Error(t, err)
}

func TestDate_StringIgnoresLocalZone(t *testing.T) {
	loc := time.FixedZone("UTC+14", 14*60*60)
	local := time.Date(2025, time.January, 1, 0, 30, 0, 0, loc)
	assert.Equal(t, "2025-01-01", DateOf(local).String())
}

func TestMonthTitle(t *testing.T) {
	assert.Equal(t, "February 2025", MonthTitle(2025, 1))
	assert.Equal(t, "January 2026", MonthTitle(2025, 12))
}
