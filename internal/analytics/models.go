package analytics

// Overview is the admin dashboard headline
type Overview struct {
	TotalUsers         int     `json:"total_users"`
	TotalSlots         int     `json:"total_slots"`
	ConfirmedBookings  int     `json:"confirmed_bookings"`
	CancelledBookings  int     `json:"cancelled_bookings"`
	RevenueCents       int64   `json:"revenue_cents"`
	CancellationRate   float64 `json:"cancellation_rate"`
	OpenCartItems      int     `json:"open_cart_items"`
	UpcomingBookings   int     `json:"upcoming_bookings"`
	AverageUtilization float64 `json:"average_utilization"`
}

// SlotUtilization is the booking load of one weekly slot from a date on
type SlotUtilization struct {
	SlotID            string  `json:"slot_id"`
	DayOfWeek         string  `json:"day_of_week"`
	GroupType         string  `json:"group_type"`
	StartTime         string  `json:"start_time"`
	Capacity          int     `json:"capacity"`
	Occurrences       int     `json:"occurrences"`
	ConfirmedBookings int     `json:"confirmed_bookings"`
	CancelledBookings int     `json:"cancelled_bookings"`
	FullOccurrences   int     `json:"full_occurrences"`
	Utilization       float64 `json:"utilization"` // confirmed / (capacity * occurrences); 0 when unlimited
}

type DailyBookingStats struct {
	Date              string `json:"date"`
	TotalBookings     int    `json:"total_bookings"`
	ConfirmedBookings int    `json:"confirmed_bookings"`
	CancelledBookings int    `json:"cancelled_bookings"`
	RevenueCents      int64  `json:"revenue_cents"`
}

type Dashboard struct {
	Overview Overview            `json:"overview"`
	Slots    []SlotUtilization   `json:"slots"`
	Daily    []DailyBookingStats `json:"daily"`
}
