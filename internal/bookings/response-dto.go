package bookings

import "time"

// BookingResponse flattens a booking with the fields of its slot
type BookingResponse struct {
	ID          string     `json:"id"`
	SlotID      string     `json:"slot_id"`
	ClassDate   string     `json:"class_date"`
	Status      string     `json:"status"`
	BookingRef  string     `json:"booking_ref"`
	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	DayOfWeek   string     `json:"day_of_week"`
	GroupType   string     `json:"group_type"`
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	PriceCents  int64      `json:"price_cents"`
	Capacity    int        `json:"capacity"`
}

// AvailabilityResponse reports remaining places; Remaining is -1 when unlimited
type AvailabilityResponse struct {
	SlotID    string `json:"slot_id"`
	ClassDate string `json:"class_date"`
	Capacity  int    `json:"capacity"`
	Booked    int    `json:"booked"`
	Remaining int    `json:"remaining"`
}

func toResponse(b *Booking) BookingResponse {
	resp := BookingResponse{
		ID:          b.ID.String(),
		SlotID:      b.SlotID.String(),
		ClassDate:   b.ClassDate,
		Status:      b.Status.String(),
		BookingRef:  b.BookingRef,
		CreatedAt:   b.CreatedAt,
		CancelledAt: b.CancelledAt,
		PriceCents:  b.PriceCents,
	}
	if s := b.Slot; s != nil {
		resp.DayOfWeek = s.DayOfWeek
		resp.GroupType = s.GroupType
		resp.StartTime = s.StartTime
		resp.EndTime = s.EndTime
		resp.Capacity = s.Capacity
	}
	return resp
}
