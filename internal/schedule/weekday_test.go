package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"sun", "Sunday"},
		{"SUNDAY", "Sunday"},
		{"  Tues ", "Tuesday"},
		{"tue", "Tuesday"},
		{"weds", "Wednesday"},
		{"Thur", "Thursday"},
		{"thurs", "Thursday"},
		{"fri", "Friday"},
		{"Saturday", "Saturday"},
		{"someday", "someday"},
		{" Moonday ", " Moonday "},
		{"   ", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonicalize(tt.in))
		})
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	inputs := []string{
		"", " ", "mon", "MON", "Monday", "monday ", "thurs", "xyz", " x y ", "Sun.",
		"(unknown)", "sat", "SATURDAY", "\tfri\n", "tuesday", "wed", "nope",
	}
	for _, in := range inputs {
		once := Canonicalize(in)
		assert.Equal(t, once, Canonicalize(once), "input %q", in)
	}
}

func TestWeekdayIndex(t *testing.T) {
	wd, ok := WeekdayIndex("Wednesday")
	assert.True(t, ok)
	assert.Equal(t, time.Wednesday, wd)

	_, ok = WeekdayIndex("wednesday")
	assert.False(t, ok)

	assert.True(t, IsCanonical("Friday"))
	assert.False(t, IsCanonical("Fri"))
	assert.Equal(t, "Saturday", WeekdayName(time.Saturday))
}
