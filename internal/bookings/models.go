package bookings

import (
	"time"

	"classbook/internal/slots"

	"github.com/google/uuid"
)

// Booking reserves one place in a class occurrence (slot + date)
type Booking struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	SlotID      uuid.UUID  `gorm:"type:uuid;not null" json:"slot_id"`
	ClassDate   string     `gorm:"type:varchar(10);not null" json:"class_date"`
	Status      Status     `gorm:"type:varchar(20);check:status IN ('CONFIRMED', 'CANCELLED');default:'CONFIRMED'" json:"status"`
	BookingRef  string     `gorm:"unique;not null" json:"booking_ref"`
	PriceCents  int64      `gorm:"not null;default:0" json:"price_cents"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	Slot *slots.Slot `gorm:"foreignKey:SlotID;constraint:OnDelete:RESTRICT;" json:"-"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) IsCancelled() bool {
	return !b.Status.IsActive()
}
