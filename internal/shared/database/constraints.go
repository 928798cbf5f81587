package database

import (
	"fmt"

	"classbook/pkg/logger"

	"gorm.io/gorm"
)

var constraintStatements = []struct {
	name string
	sql  string
}{
	{
		// one live booking per user and class occurrence; cancelled rows are kept
		name: "idx_bookings_user_occurrence_confirmed",
		sql: `CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_user_occurrence_confirmed
			ON bookings (user_id, slot_id, class_date)
			WHERE status = 'CONFIRMED'`,
	},
	{
		name: "idx_bookings_occurrence",
		sql: `CREATE INDEX IF NOT EXISTS idx_bookings_occurrence
			ON bookings (slot_id, class_date, status)`,
	},
	{
		name: "idx_cart_items_created_at",
		sql: `CREATE INDEX IF NOT EXISTS idx_cart_items_created_at
			ON cart_items (created_at)`,
	},
	{
		name: "chk_slots_capacity",
		sql: `DO $$ BEGIN
			ALTER TABLE slots ADD CONSTRAINT chk_slots_capacity CHECK (capacity >= 0);
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$`,
	},
}

// MigrateConstraints adds the indexes and checks AutoMigrate cannot express
func MigrateConstraints(db *gorm.DB) error {
	for _, stmt := range constraintStatements {
		if err := db.Exec(stmt.sql).Error; err != nil {
			return fmt.Errorf("constraint %s: %w", stmt.name, err)
		}
		logger.GetDefault().Debug("constraint ensured", "name", stmt.name)
	}
	return nil
}
