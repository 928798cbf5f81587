package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"classbook/internal/slots"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID, status Status) ([]Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	CountConfirmed(ctx context.Context, slotID uuid.UUID, classDate string) (int, error)

	// CreateWithCapacityCheck inserts a confirmed booking unless the
	// occurrence is full or the user already holds one for it
	CreateWithCapacityCheck(ctx context.Context, booking *Booking) error
	Cancel(ctx context.Context, id uuid.UUID, cancelledAt time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ListByUser returns the user's bookings; an empty status matches all
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, status Status) ([]Booking, error) {
	query := r.db.WithContext(ctx).
		Preload("Slot").
		Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []Booking
	err := query.Order("class_date ASC, created_at ASC").Find(&bookings).Error
	return bookings, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Preload("Slot").Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) CountConfirmed(ctx context.Context, slotID uuid.UUID, classDate string) (int, error) {
	return countConfirmed(r.db.WithContext(ctx), slotID, classDate)
}

func countConfirmed(db *gorm.DB, slotID uuid.UUID, classDate string) (int, error) {
	var count int64
	err := db.Model(&Booking{}).
		Where("slot_id = ? AND class_date = ? AND status = ?", slotID, classDate, StatusConfirmed).
		Count(&count).Error
	return int(count), err
}

func (r *repository) CreateWithCapacityCheck(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the slot row lock serializes concurrent bookings of the same slot
		var slot slots.Slot
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", booking.SlotID).
			First(&slot).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return slots.ErrSlotNotFound
			}
			return fmt.Errorf("failed to lock slot: %w", err)
		}

		var mine int64
		err = tx.Model(&Booking{}).
			Where("user_id = ? AND slot_id = ? AND class_date = ? AND status = ?",
				booking.UserID, booking.SlotID, booking.ClassDate, StatusConfirmed).
			Count(&mine).Error
		if err != nil {
			return err
		}
		if mine > 0 {
			return ErrAlreadyBooked
		}

		if !slot.Unlimited() {
			booked, err := countConfirmed(tx, booking.SlotID, booking.ClassDate)
			if err != nil {
				return err
			}
			if booked >= slot.Capacity {
				return ErrSlotFull
			}
		}

		if err := tx.Omit(clause.Associations).Create(booking).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyBooked
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}
		booking.Slot = &slot
		return nil
	})
}

func (r *repository) Cancel(ctx context.Context, id uuid.UUID, cancelledAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ?", id, StatusConfirmed).
		Updates(map[string]interface{}{
			"status":       StatusCancelled,
			"cancelled_at": cancelledAt,
			"updated_at":   cancelledAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyCancelled
	}
	return nil
}
