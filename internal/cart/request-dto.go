package cart

type AddItemRequest struct {
	SlotID    string `json:"slot_id" validate:"required,uuid"`
	ClassDate string `json:"class_date" validate:"required"`
}
