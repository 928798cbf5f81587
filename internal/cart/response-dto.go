package cart

import "time"

// ItemResponse flattens a cart item with the fields of its slot
type ItemResponse struct {
	ID         string    `json:"id"`
	SlotID     string    `json:"slot_id"`
	ClassDate  string    `json:"class_date"`
	AddedAt    time.Time `json:"added_at"`
	DayOfWeek  string    `json:"day_of_week"`
	GroupType  string    `json:"group_type"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	PriceCents int64     `json:"price_cents"`
	Capacity   int       `json:"capacity"`
}

func toResponse(item *Item) ItemResponse {
	resp := ItemResponse{
		ID:        item.ID.String(),
		SlotID:    item.SlotID.String(),
		ClassDate: item.ClassDate,
		AddedAt:   item.CreatedAt,
	}
	if s := item.Slot; s != nil {
		resp.DayOfWeek = s.DayOfWeek
		resp.GroupType = s.GroupType
		resp.StartTime = s.StartTime
		resp.EndTime = s.EndTime
		resp.PriceCents = s.PriceCents
		resp.Capacity = s.Capacity
	}
	return resp
}
