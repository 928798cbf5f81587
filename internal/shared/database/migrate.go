package database

import (
	"classbook/internal/bookings"
	"classbook/internal/cart"
	"classbook/internal/slots"
	"classbook/internal/users"

	"gorm.io/gorm"
)

// Models lists every table owned by the API, in dependency order
func Models() []interface{} {
	return []interface{}{
		&users.User{},
		&slots.Slot{},
		&cart.Item{},
		&bookings.Booking{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
