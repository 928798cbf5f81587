package bookings

import (
	"fmt"
	"time"

	"classbook/internal/schedule"
	"classbook/internal/slots"

	ical "github.com/arran4/golang-ical"
)

const calendarProductID = "-//classbook//bookings//EN"

// BuildCalendar renders confirmed bookings as an iCalendar document. Class
// times are interpreted as UTC.
func BuildCalendar(bookings []Booking, stamp time.Time) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName("Classbook bookings")

	for i := range bookings {
		b := &bookings[i]
		if b.IsCancelled() || b.Slot == nil {
			continue
		}
		start, end, err := occurrenceTimes(b.Slot, b.ClassDate)
		if err != nil {
			return "", fmt.Errorf("booking %s: %w", b.ID, err)
		}

		event := cal.AddEvent(b.ID.String() + "@classbook")
		event.SetDtStampTime(stamp)
		event.SetCreatedTime(b.CreatedAt)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("%s class", b.Slot.GroupType))
		event.SetDescription("Booking reference " + b.BookingRef)
		event.SetStatus(ical.ObjectStatusConfirmed)
	}

	return cal.Serialize(), nil
}

func occurrenceTimes(slot *slots.Slot, classDate string) (time.Time, time.Time, error) {
	date, err := schedule.ParseDate(classDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, err := slots.ParseClock(slot.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := slots.ParseClock(slot.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	midnight := date.UTC()
	return midnight.Add(start), midnight.Add(end), nil
}
