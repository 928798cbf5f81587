package slots

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context) ([]Slot, error)
	Search(ctx context.Context, day, group string) ([]Slot, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Slot, error)
	Create(ctx context.Context, slot *Slot) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// weekday order first, then start time
const slotOrder = "CASE day_of_week " +
	"WHEN 'Sunday' THEN 0 WHEN 'Monday' THEN 1 WHEN 'Tuesday' THEN 2 WHEN 'Wednesday' THEN 3 " +
	"WHEN 'Thursday' THEN 4 WHEN 'Friday' THEN 5 WHEN 'Saturday' THEN 6 ELSE 7 END, start_time"

func (r *repository) List(ctx context.Context) ([]Slot, error) {
	var slots []Slot
	err := r.db.WithContext(ctx).Order(slotOrder).Find(&slots).Error
	return slots, err
}

func (r *repository) Search(ctx context.Context, day, group string) ([]Slot, error) {
	query := r.db.WithContext(ctx).Model(&Slot{})
	if day != "" {
		query = query.Where("day_of_week = ?", day)
	}
	if group != "" {
		query = query.Where("LOWER(group_type) = LOWER(?)", group)
	}

	var slots []Slot
	err := query.Order(slotOrder).Find(&slots).Error
	return slots, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Slot, error) {
	var slot Slot
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &slot, nil
}

func (r *repository) Create(ctx context.Context, slot *Slot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Slot{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSlotNotFound
	}
	return nil
}
