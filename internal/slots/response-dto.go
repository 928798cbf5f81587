package slots

import "time"

// Occurrence is one dated instance of a weekly slot
type Occurrence struct {
	ClassDate string    `json:"class_date"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
}

type OccurrencesResponse struct {
	SlotID      string       `json:"slot_id"`
	RRule       string       `json:"rrule"`
	Occurrences []Occurrence `json:"occurrences"`
}
