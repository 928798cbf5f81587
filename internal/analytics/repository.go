package analytics

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	GetOverview(ctx context.Context, today string) (*Overview, error)
	// GetSlotUtilization counts bookings for class dates on or after from
	GetSlotUtilization(ctx context.Context, from string) ([]SlotUtilization, error)
	GetDailyBookingStats(ctx context.Context, since time.Time) ([]DailyBookingStats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) count(ctx context.Context, table string, out *int, query string, args ...interface{}) error {
	var n int64
	q := r.db.WithContext(ctx).Table(table)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		return fmt.Errorf("failed to count %s: %w", table, err)
	}
	*out = int(n)
	return nil
}

func (r *repository) GetOverview(ctx context.Context, today string) (*Overview, error) {
	var o Overview

	if err := r.count(ctx, "users", &o.TotalUsers, ""); err != nil {
		return nil, err
	}
	if err := r.count(ctx, "slots", &o.TotalSlots, ""); err != nil {
		return nil, err
	}
	if err := r.count(ctx, "cart_items", &o.OpenCartItems, ""); err != nil {
		return nil, err
	}
	if err := r.count(ctx, "bookings", &o.ConfirmedBookings, "status = ?", "CONFIRMED"); err != nil {
		return nil, err
	}
	if err := r.count(ctx, "bookings", &o.CancelledBookings, "status = ?", "CANCELLED"); err != nil {
		return nil, err
	}
	if err := r.count(ctx, "bookings", &o.UpcomingBookings, "status = ? AND class_date >= ?", "CONFIRMED", today); err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Table("bookings").
		Where("status = ?", "CONFIRMED").
		Select("COALESCE(SUM(price_cents), 0)").
		Scan(&o.RevenueCents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to calculate revenue: %w", err)
	}

	return &o, nil
}

func (r *repository) GetSlotUtilization(ctx context.Context, from string) ([]SlotUtilization, error) {
	var rows []SlotUtilization

	err := r.db.WithContext(ctx).Raw(`
		WITH per_date AS (
			SELECT
				slot_id,
				class_date,
				SUM(CASE WHEN status = 'CONFIRMED' THEN 1 ELSE 0 END) AS confirmed,
				SUM(CASE WHEN status = 'CANCELLED' THEN 1 ELSE 0 END) AS cancelled
			FROM bookings
			WHERE class_date >= ?
			GROUP BY slot_id, class_date
		)
		SELECT
			s.id AS slot_id,
			s.day_of_week,
			s.group_type,
			s.start_time,
			s.capacity,
			COUNT(p.class_date) AS occurrences,
			COALESCE(SUM(p.confirmed), 0) AS confirmed_bookings,
			COALESCE(SUM(p.cancelled), 0) AS cancelled_bookings,
			COALESCE(SUM(CASE WHEN s.capacity > 0 AND p.confirmed >= s.capacity THEN 1 ELSE 0 END), 0) AS full_occurrences
		FROM slots s
		LEFT JOIN per_date p ON p.slot_id = s.id
		GROUP BY s.id, s.day_of_week, s.group_type, s.start_time, s.capacity
		ORDER BY confirmed_bookings DESC, s.start_time ASC
	`, from).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get slot utilization: %w", err)
	}
	return rows, nil
}

func (r *repository) GetDailyBookingStats(ctx context.Context, since time.Time) ([]DailyBookingStats, error) {
	var stats []DailyBookingStats

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			TO_CHAR(DATE(created_at), 'YYYY-MM-DD') AS date,
			COUNT(*) AS total_bookings,
			SUM(CASE WHEN status = 'CONFIRMED' THEN 1 ELSE 0 END) AS confirmed_bookings,
			SUM(CASE WHEN status = 'CANCELLED' THEN 1 ELSE 0 END) AS cancelled_bookings,
			COALESCE(SUM(CASE WHEN status = 'CONFIRMED' THEN price_cents ELSE 0 END), 0) AS revenue_cents
		FROM bookings
		WHERE created_at >= ?
		GROUP BY DATE(created_at)
		ORDER BY date DESC
	`, since).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get daily booking stats: %w", err)
	}
	return stats, nil
}
