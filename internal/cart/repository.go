package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Item, error)
	Exists(ctx context.Context, userID, slotID uuid.UUID, classDate string) (bool, error)
	Create(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	DeleteStale(ctx context.Context, addedBefore time.Time, classDateBefore string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Item, error) {
	var items []Item
	err := r.db.WithContext(ctx).
		Preload("Slot").
		Where("user_id = ?", userID).
		Order("class_date ASC, created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) Exists(ctx context.Context, userID, slotID uuid.UUID, classDate string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Item{}).
		Where("user_id = ? AND slot_id = ? AND class_date = ?", userID, slotID, classDate).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Create(ctx context.Context, item *Item) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateItem
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Item{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DeleteStale removes items held too long or whose class date has passed
func (r *repository) DeleteStale(ctx context.Context, addedBefore time.Time, classDateBefore string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ? OR class_date < ?", addedBefore, classDateBefore).
		Delete(&Item{})
	return result.RowsAffected, result.Error
}
