package slots

import (
	"time"

	"classbook/internal/schedule"

	"github.com/google/uuid"
)

// Slot is a weekly recurring class offering
type Slot struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DayOfWeek  string    `gorm:"type:varchar(9);index;not null" json:"day_of_week"`
	GroupType  string    `gorm:"type:varchar(50);index;not null" json:"group_type"`
	StartTime  string    `gorm:"type:varchar(8);not null" json:"start_time"`
	EndTime    string    `gorm:"type:varchar(8);not null" json:"end_time"`
	PriceCents int64     `gorm:"not null;default:0" json:"price_cents"`
	Capacity   int       `gorm:"not null;default:0" json:"capacity"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Slot) TableName() string {
	return "slots"
}

// Unlimited reports whether the slot has no capacity limit
func (s *Slot) Unlimited() bool {
	return s.Capacity <= 0
}

// ClassDate parses raw as YYYY-MM-DD and checks that it falls on the slot's weekday
func (s *Slot) ClassDate(raw string) (schedule.Date, error) {
	d, err := schedule.ParseDate(raw)
	if err != nil {
		return schedule.Date{}, ErrInvalidDate
	}
	if d.Weekday() != s.DayOfWeek {
		return schedule.Date{}, ErrWrongWeekday
	}
	return d, nil
}
