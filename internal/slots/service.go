package slots

import (
	"context"
	"errors"
	"strings"
	"time"

	"classbook/internal/schedule"
	"classbook/internal/shared/constants"
	"classbook/pkg/cache"
	"classbook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrSlotNotFound   = errors.New("slot not found")
	ErrInvalidWeekday = errors.New("day_of_week must be a weekday name")
	ErrInvalidTime    = errors.New("time must be HH:MM")
	ErrInvalidRange   = errors.New("end_time must be after start_time")
	ErrInvalidDate    = errors.New("date must be YYYY-MM-DD")
	ErrWrongWeekday   = errors.New("class_date does not fall on the slot's weekday")
)

type Service interface {
	ListSlots(ctx context.Context) ([]Slot, error)
	SearchSlots(ctx context.Context, query SearchQuery) ([]Slot, error)
	GetSlot(ctx context.Context, id uuid.UUID) (*Slot, error)
	GetOccurrences(ctx context.Context, id uuid.UUID, query OccurrencesQuery) (*OccurrencesResponse, error)
	CreateSlot(ctx context.Context, req *CreateSlotRequest) (*Slot, error)
	DeleteSlot(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    Repository
	cache   cache.Service
	listTTL time.Duration
	now     func() time.Time
	logger  *logger.Logger
}

// NewService wires the slot service. listTTL overrides the default list
// cache TTL when positive.
func NewService(repo Repository, cacheService cache.Service, listTTL time.Duration) Service {
	if listTTL <= 0 {
		listTTL = constants.TTL_SLOTS_LIST
	}
	return &service{
		repo:    repo,
		cache:   cacheService,
		listTTL: listTTL,
		now:     time.Now,
		logger:  logger.GetDefault(),
	}
}

func (s *service) ListSlots(ctx context.Context) ([]Slot, error) {
	var slots []Slot
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_SLOTS_ALL, s.listTTL, func() (interface{}, error) {
		return s.repo.List(ctx)
	}, &slots)
	if err != nil {
		return nil, err
	}
	return nonNil(slots), nil
}

// SearchSlots canonicalizes the day filter before querying, so "mon" and
// "Monday" hit the same rows and the same cache entry
func (s *service) SearchSlots(ctx context.Context, query SearchQuery) ([]Slot, error) {
	day := schedule.Canonicalize(strings.TrimSpace(query.Day))
	group := strings.TrimSpace(query.Group)

	var slots []Slot
	err := s.cache.GetOrSet(ctx, constants.BuildSlotSearchKey(day, group), constants.TTL_SLOTS_SEARCH, func() (interface{}, error) {
		return s.repo.Search(ctx, day, group)
	}, &slots)
	if err != nil {
		return nil, err
	}
	return nonNil(slots), nil
}

func (s *service) GetSlot(ctx context.Context, id uuid.UUID) (*Slot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetOccurrences(ctx context.Context, id uuid.UUID, query OccurrencesQuery) (*OccurrencesResponse, error) {
	from := schedule.DateOf(s.now().UTC())
	if query.From != "" {
		d, err := schedule.ParseDate(query.From)
		if err != nil {
			return nil, ErrInvalidDate
		}
		from = d
	}

	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var resp OccurrencesResponse
	key := constants.BuildSlotOccurrencesKey(id.String(), from.String(), query.Count)
	err = s.cache.GetOrSet(ctx, key, constants.TTL_SLOT_OCCURRENCES, func() (interface{}, error) {
		return Occurrences(slot, from, query.Count)
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *service) CreateSlot(ctx context.Context, req *CreateSlotRequest) (*Slot, error) {
	day := schedule.Canonicalize(req.DayOfWeek)
	if !schedule.IsCanonical(day) {
		return nil, ErrInvalidWeekday
	}
	start, err := ParseClock(req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := ParseClock(req.EndTime)
	if err != nil {
		return nil, err
	}
	if end <= start {
		return nil, ErrInvalidRange
	}

	slot := &Slot{
		DayOfWeek:  day,
		GroupType:  strings.TrimSpace(req.GroupType),
		StartTime:  strings.TrimSpace(req.StartTime),
		EndTime:    strings.TrimSpace(req.EndTime),
		PriceCents: req.PriceCents,
		Capacity:   req.Capacity,
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.LogSlotCreated(ctx, slot.ID.String(), slot.DayOfWeek, slot.StartTime)
	return slot, nil
}

func (s *service) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.logger.Info("slot deleted", "slot_id", id.String())
	return nil
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_SLOTS); err != nil {
		s.logger.Warn("failed to invalidate slot cache", "error", err)
	}
}

// nonNil keeps empty listings serialized as [] rather than null
func nonNil(slots []Slot) []Slot {
	if slots == nil {
		return []Slot{}
	}
	return slots
}
