package schedule

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of a class date
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day or location
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// UTC returns midnight UTC of the date. Serializing through UTC keeps the
// date components intact regardless of the local zone.
func (d Date) UTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return d.UTC().Format(DateLayout)
}

// Weekday returns the canonical weekday name of the date
func (d Date) Weekday() string {
	return WeekdayName(d.UTC().Weekday())
}

// IsZero reports whether d is the zero Date
func (d Date) IsZero() bool {
	return d == Date{}
}

// Before reports whether d is strictly earlier than other
func (d Date) Before(other Date) bool {
	return d.UTC().Before(other.UTC())
}

// CalendarCell is one day of a month grid
type CalendarCell struct {
	Date           Date
	Weekday        string
	InCurrentMonth bool
}

// BuildMonth returns whole weeks (Sunday first) covering every day of the
// given zero-indexed month, padded with days of the adjacent months.
func BuildMonth(year, month int) []CalendarCell {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	startDow := int(first.Weekday())

	// day 0 of the next month is the last day of this one
	last := time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC)
	totalDays := last.Day()

	totalCells := (startDow + totalDays + 6) / 7 * 7
	cells := make([]CalendarCell, 0, totalCells)
	for i := 0; i < totalCells; i++ {
		t := time.Date(year, time.Month(month+1), i+1-startDow, 0, 0, 0, 0, time.UTC)
		cells = append(cells, CalendarCell{
			Date:           DateOf(t),
			Weekday:        WeekdayName(t.Weekday()),
			InCurrentMonth: t.Month() == first.Month(),
		})
	}
	return cells
}

// MonthTitle renders "February 2025" for a zero-indexed month
func MonthTitle(year, month int) string {
	return time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}
