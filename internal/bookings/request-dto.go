package bookings

type CreateBookingRequest struct {
	SlotID    string `json:"slot_id" validate:"required,uuid"`
	ClassDate string `json:"class_date" validate:"required"`
}

type AvailabilityQuery struct {
	SlotID    string `form:"slot_id" validate:"required,uuid"`
	ClassDate string `form:"class_date" validate:"required"`
}
