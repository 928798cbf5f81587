package schedule

import (
	"strings"
	"time"
)

// UnknownWeekday is the group key for slots whose weekday could not be resolved
const UnknownWeekday = "(unknown)"

// Weekdays lists the canonical weekday names in time.Weekday order (Sunday first)
var Weekdays = [7]string{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

var weekdayAliases = map[string]string{
	"sun": "Sunday", "sunday": "Sunday",
	"mon": "Monday", "monday": "Monday",
	"tue": "Tuesday", "tues": "Tuesday", "tuesday": "Tuesday",
	"wed": "Wednesday", "weds": "Wednesday", "wednesday": "Wednesday",
	"thu": "Thursday", "thur": "Thursday", "thurs": "Thursday", "thursday": "Thursday",
	"fri": "Friday", "friday": "Friday",
	"sat": "Saturday", "saturday": "Saturday",
}

// Canonicalize maps a textual day-of-week to one of the seven canonical names.
// Unrecognized input is returned unchanged so that it is not silently dropped.
func Canonicalize(input string) string {
	if input == "" {
		return ""
	}

	key := strings.ToLower(strings.TrimSpace(input))
	if day, ok := weekdayAliases[key]; ok {
		return day
	}
	for _, day := range Weekdays {
		if strings.ToLower(day) == key {
			return day
		}
	}
	return input
}

// IsCanonical reports whether name is exactly one of the canonical weekday names
func IsCanonical(name string) bool {
	_, ok := WeekdayIndex(name)
	return ok
}

// WeekdayIndex returns the time.Weekday of a canonical name
func WeekdayIndex(name string) (time.Weekday, bool) {
	for i, day := range Weekdays {
		if day == name {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// WeekdayName returns the canonical name of a time.Weekday
func WeekdayName(wd time.Weekday) string {
	return Weekdays[int(wd)%7]
}
