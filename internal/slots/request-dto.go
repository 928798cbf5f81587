package slots

type CreateSlotRequest struct {
	DayOfWeek  string `json:"day_of_week" validate:"required"`
	GroupType  string `json:"group_type" validate:"required,max=50"`
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time" validate:"required"`
	PriceCents int64  `json:"price_cents" validate:"min=0"`
	Capacity   int    `json:"capacity" validate:"min=0"`
}

// SearchQuery filters slots; empty fields match everything
type SearchQuery struct {
	Day   string `form:"day"`
	Group string `form:"group"`
}

type OccurrencesQuery struct {
	From  string `form:"from"`
	Count int    `form:"count"`
}
