package main

import (
	"fmt"
	"io"
	"strings"

	"classbook/internal/planner"
	"classbook/internal/schedule"
)

func renderMonth(w io.Writer, st planner.State) {
	fmt.Fprintf(w, "\n%s\n", schedule.MonthTitle(st.Year, st.Month))
	for _, day := range schedule.Weekdays {
		fmt.Fprintf(w, " %s ", day[:2])
	}
	fmt.Fprintln(w)

	for i, cell := range st.Grid {
		switch {
		case !cell.InCurrentMonth:
			fmt.Fprint(w, "  . ")
		case st.SelectedDate != nil && cell.Date == st.SelectedDate.Date:
			fmt.Fprintf(w, "[%2d]", cell.Date.Day)
		default:
			fmt.Fprintf(w, " %2d ", cell.Date.Day)
		}
		if i%7 == 6 {
			fmt.Fprintln(w)
		}
	}
}

func renderDay(w io.Writer, st planner.State) {
	fmt.Fprintln(w, st.StatusLine())
	if st.SelectedDate == nil {
		fmt.Fprintln(w, "No day selected.")
		return
	}
	fmt.Fprintf(w, "%s %s\n", st.SelectedDate.Weekday, st.SelectedDate.Date)
	if len(st.DaySlots) == 0 {
		fmt.Fprintln(w, "  No classes on this day.")
		return
	}
	for i, slot := range st.DaySlots {
		marker := " "
		if slot.ID == st.SelectedSlotID {
			marker = "*"
		}
		fmt.Fprintf(w, " %s%d. %s-%s  %-10s %8s  cap %s\n",
			marker, i+1,
			planner.Placeholder(slot.StartTime), planner.Placeholder(slot.EndTime),
			planner.Placeholder(slot.GroupType), planner.FormatPrice(slot.PriceCents),
			capacityLabel(slot.Capacity))
	}
}

func renderItems(w io.Writer, title string, items []schedule.CartItem, loading bool) {
	fmt.Fprintf(w, "%s (%d)\n", title, len(items))
	if loading {
		fmt.Fprintln(w, "  loading…")
		return
	}
	for _, it := range items {
		status := ""
		if it.Status != "" {
			status = " " + strings.ToLower(it.Status)
		}
		fmt.Fprintf(w, "  %s  %s %s-%s %s %s%s\n",
			it.ID, it.ClassDate,
			planner.Placeholder(it.StartTime), planner.Placeholder(it.EndTime),
			planner.Placeholder(it.GroupType), planner.FormatPrice(it.PriceCents), status)
	}
}

func capacityLabel(capacity int64) string {
	if capacity <= 0 {
		return "∞"
	}
	return fmt.Sprint(capacity)
}

const helpText = `commands:
  next | prev              change month
  month YYYY-MM            jump to a month
  day N                    select day N of the month
  slot N                   select the Nth class of the day
  add                      add the selected class to the cart
  book                     book the selected class
  rm ID                    remove a cart item
  cancel ID                cancel a booking
  cart | bookings          reload and list
  signup EMAIL PASSWORD    create an account
  signin EMAIL PASSWORD    sign in and store the token
  signout                  forget the stored token
  show                     redraw
  quit`
