package analytics

import (
	"context"
	"errors"
	"time"

	"classbook/internal/schedule"
	"classbook/internal/shared/constants"
	"classbook/pkg/cache"
)

const (
	DefaultDailyDays = 30
	MaxDailyDays     = 365
)

var ErrInvalidDays = errors.New("days must be between 1 and 365")

type Service interface {
	GetDashboard(ctx context.Context) (*Dashboard, error)
	GetSlotUtilization(ctx context.Context) ([]SlotUtilization, error)
	GetDailyBookingStats(ctx context.Context, days int) ([]DailyBookingStats, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	now   func() time.Time
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cache: cacheService, now: time.Now}
}

func (s *service) today() string {
	return schedule.DateOf(s.now().UTC()).String()
}

func (s *service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	var dashboard Dashboard
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_ANALYTICS_DASHBOARD, constants.TTL_ANALYTICS_DASHBOARD, func() (interface{}, error) {
		overview, err := s.repo.GetOverview(ctx, s.today())
		if err != nil {
			return nil, err
		}
		slotStats, err := s.GetSlotUtilization(ctx)
		if err != nil {
			return nil, err
		}
		daily, err := s.GetDailyBookingStats(ctx, DefaultDailyDays)
		if err != nil {
			return nil, err
		}

		overview.CancellationRate = ratio(overview.CancelledBookings, overview.ConfirmedBookings+overview.CancelledBookings)
		overview.AverageUtilization = averageUtilization(slotStats)
		return &Dashboard{Overview: *overview, Slots: slotStats, Daily: daily}, nil
	}, &dashboard)
	if err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// GetSlotUtilization covers class dates from today on
func (s *service) GetSlotUtilization(ctx context.Context) ([]SlotUtilization, error) {
	today := s.today()
	var rows []SlotUtilization
	err := s.cache.GetOrSet(ctx, constants.BuildSlotUtilizationKey(today), constants.TTL_ANALYTICS_SLOTS, func() (interface{}, error) {
		rows, err := s.repo.GetSlotUtilization(ctx, today)
		if err != nil {
			return nil, err
		}
		for i := range rows {
			r := &rows[i]
			if r.Capacity > 0 {
				r.Utilization = ratio(r.ConfirmedBookings, r.Capacity*r.Occurrences)
			}
		}
		return nonNil(rows), nil
	}, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *service) GetDailyBookingStats(ctx context.Context, days int) ([]DailyBookingStats, error) {
	if days == 0 {
		days = DefaultDailyDays
	}
	if days < 1 || days > MaxDailyDays {
		return nil, ErrInvalidDays
	}

	var stats []DailyBookingStats
	err := s.cache.GetOrSet(ctx, constants.BuildDailyStatsKey(days), constants.TTL_ANALYTICS_DAILY, func() (interface{}, error) {
		since := s.now().UTC().AddDate(0, 0, -days)
		stats, err := s.repo.GetDailyBookingStats(ctx, since)
		if err != nil {
			return nil, err
		}
		if stats == nil {
			stats = []DailyBookingStats{}
		}
		return stats, nil
	}, &stats)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func ratio(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole)
}

// averageUtilization ignores unlimited slots and slots with no bookings yet
func averageUtilization(rows []SlotUtilization) float64 {
	var sum float64
	n := 0
	for _, r := range rows {
		if r.Capacity > 0 && r.Occurrences > 0 {
			sum += r.Utilization
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func nonNil(rows []SlotUtilization) []SlotUtilization {
	if rows == nil {
		return []SlotUtilization{}
	}
	return rows
}
