package planner

import (
	"fmt"

	"classbook/internal/schedule"
)

// State is a copy of the planner's view, safe to render without locking
type State struct {
	Year            int
	Month           int
	Grid            []schedule.CalendarCell
	SelectedDate    *schedule.CalendarCell
	SelectedSlotID  string
	DaySlots        []schedule.Slot
	TotalSlots      int
	Cart            []schedule.CartItem
	Bookings        []schedule.CartItem
	SlotsLoading    bool
	CartLoading     bool
	BookingsLoading bool
}

func (p *Planner) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := State{
		Year:            p.year,
		Month:           p.month,
		Grid:            append([]schedule.CalendarCell(nil), p.grid...),
		SelectedSlotID:  p.selectedSlotID,
		TotalSlots:      p.slots.Total(),
		Cart:            append([]schedule.CartItem(nil), p.cart...),
		Bookings:        append([]schedule.CartItem(nil), p.bookings...),
		SlotsLoading:    p.busy[opLoadSlots],
		CartLoading:     p.busy[opLoadCart] || p.busy[opAddToCart] || p.busy[opRemoveFromCart],
		BookingsLoading: p.busy[opLoadBookings] || p.busy[opBook] || p.busy[opCancelBooking],
	}
	if p.selectedDate != nil {
		sel := *p.selectedDate
		st.SelectedDate = &sel
		st.DaySlots = append([]schedule.Slot(nil), p.slots.For(sel.Weekday)...)
	}
	return st
}

// SelectedSlot returns the selected slot when one is set
func (s State) SelectedSlot() (schedule.Slot, bool) {
	for _, slot := range s.DaySlots {
		if slot.ID == s.SelectedSlotID && s.SelectedSlotID != "" {
			return slot, true
		}
	}
	return schedule.Slot{}, false
}

// StatusLine summarizes what is loaded for the selected day
func (s State) StatusLine() string {
	if s.SlotsLoading {
		return "Loading class slots…"
	}
	day := ""
	if s.SelectedDate != nil {
		day = s.SelectedDate.Weekday
	}
	return fmt.Sprintf("Slots loaded: %d • For %s: %d", s.TotalSlots, day, len(s.DaySlots))
}

// FormatPrice renders cents as dollars
func FormatPrice(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

// Placeholder substitutes an em dash for empty display fields
func Placeholder(v string) string {
	if v == "" {
		return "—"
	}
	return v
}
