package cart

import (
	"time"

	"classbook/internal/slots"

	"github.com/google/uuid"
)

// Item is a class occurrence a user intends to book
type Item struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_slot_date,priority:1" json:"user_id"`
	SlotID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_cart_user_slot_date,priority:2" json:"slot_id"`
	ClassDate string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_cart_user_slot_date,priority:3" json:"class_date"`
	CreatedAt time.Time `gorm:"index" json:"added_at"`

	Slot *slots.Slot `gorm:"foreignKey:SlotID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Item) TableName() string {
	return "cart_items"
}
