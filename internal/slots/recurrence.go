package slots

import (
	"fmt"
	"strings"
	"time"

	"classbook/internal/schedule"

	"github.com/teambition/rrule-go"
)

const (
	DefaultOccurrenceCount = 8
	MaxOccurrenceCount     = 52
)

var rruleWeekdays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// ParseClock accepts HH:MM or HH:MM:SS and returns the offset from midnight
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}

// weeklyRule builds the weekly recurrence of slot starting on or after from
func weeklyRule(slot *Slot, from schedule.Date, count int) (*rrule.RRule, error) {
	wd, ok := schedule.WeekdayIndex(slot.DayOfWeek)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, slot.DayOfWeek)
	}
	start, err := ParseClock(slot.StartTime)
	if err != nil {
		return nil, err
	}

	return rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   from.UTC().Add(start),
		Byweekday: []rrule.Weekday{rruleWeekdays[wd]},
		Count:     count,
	})
}

// Occurrences expands a slot into count dated instances, in UTC, from the
// first matching weekday on or after from
func Occurrences(slot *Slot, from schedule.Date, count int) (*OccurrencesResponse, error) {
	if count <= 0 {
		count = DefaultOccurrenceCount
	}
	if count > MaxOccurrenceCount {
		count = MaxOccurrenceCount
	}

	rule, err := weeklyRule(slot, from, count)
	if err != nil {
		return nil, err
	}
	start, _ := ParseClock(slot.StartTime)
	end, err := ParseClock(slot.EndTime)
	if err != nil {
		return nil, err
	}
	length := end - start

	resp := &OccurrencesResponse{
		SlotID:      slot.ID.String(),
		RRule:       rule.OrigOptions.RRuleString(),
		Occurrences: make([]Occurrence, 0, count),
	}
	for _, t := range rule.All() {
		resp.Occurrences = append(resp.Occurrences, Occurrence{
			ClassDate: schedule.DateOf(t).String(),
			StartsAt:  t,
			EndsAt:    t.Add(length),
		})
	}
	return resp, nil
}
