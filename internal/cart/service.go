package cart

import (
	"context"
	"errors"
	"time"

	"classbook/internal/schedule"
	"classbook/internal/slots"
	"classbook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrItemNotFound  = errors.New("cart item not found")
	ErrDuplicateItem = errors.New("class is already in your cart")
	ErrPastDate      = errors.New("class_date is in the past")
)

// SlotLookup resolves the slot a cart item refers to
type SlotLookup interface {
	GetSlot(ctx context.Context, id uuid.UUID) (*slots.Slot, error)
}

type Service interface {
	ListItems(ctx context.Context, userID uuid.UUID) ([]ItemResponse, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *AddItemRequest) (*ItemResponse, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	PurgeStale(ctx context.Context) (int64, error)
}

type service struct {
	repo    Repository
	slots   SlotLookup
	holdTTL time.Duration
	now     func() time.Time
	logger  *logger.Logger
}

func NewService(repo Repository, slotLookup SlotLookup, holdTTL time.Duration) Service {
	return &service{
		repo:    repo,
		slots:   slotLookup,
		holdTTL: holdTTL,
		now:     time.Now,
		logger:  logger.GetDefault(),
	}
}

func (s *service) ListItems(ctx context.Context, userID uuid.UUID) ([]ItemResponse, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i]))
	}
	return out, nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req *AddItemRequest) (*ItemResponse, error) {
	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		return nil, slots.ErrSlotNotFound
	}
	slot, err := s.slots.GetSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	date, err := slot.ClassDate(req.ClassDate)
	if err != nil {
		return nil, err
	}
	if date.Before(schedule.DateOf(s.now().UTC())) {
		return nil, ErrPastDate
	}

	exists, err := s.repo.Exists(ctx, userID, slotID, date.String())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateItem
	}

	item := &Item{
		UserID:    userID,
		SlotID:    slotID,
		ClassDate: date.String(),
		CreatedAt: s.now().UTC(),
		Slot:      slot,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.LogCartItemAdded(ctx, item.ID.String(), slotID.String(), userID.String(), item.ClassDate)
	resp := toResponse(item)
	return &resp, nil
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.repo.Delete(ctx, itemID, userID)
}

// PurgeStale drops items older than the hold TTL and items for past classes
func (s *service) PurgeStale(ctx context.Context) (int64, error) {
	now := s.now().UTC()
	addedBefore := now.Add(-s.holdTTL)
	if s.holdTTL <= 0 {
		addedBefore = time.Time{}
	}
	return s.repo.DeleteStale(ctx, addedBefore, schedule.DateOf(now).String())
}
