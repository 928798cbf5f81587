package cart

import (
	"context"
	"sync"

	"classbook/pkg/logger"

	"github.com/robfig/cron/v3"
)

const defaultSweepSchedule = "@every 15m"

// Sweeper periodically purges stale cart items
type Sweeper struct {
	service  Service
	schedule string
	logger   *logger.Logger

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

func NewSweeper(service Service, schedule string) *Sweeper {
	if schedule == "" {
		schedule = defaultSweepSchedule
	}
	return &Sweeper{service: service, schedule: schedule, logger: logger.GetDefault()}
}

// Start schedules the sweep. An invalid schedule falls back to the default.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() { s.RunOnce(runCtx) }); err != nil {
		s.logger.Warn("cart sweeper: invalid schedule, using default", "schedule", s.schedule, "error", err)
		c = cron.New()
		_, _ = c.AddFunc(defaultSweepSchedule, func() { s.RunOnce(runCtx) })
	}
	c.Start()

	s.cron = c
	s.cancel = cancel
	s.logger.Info("cart sweeper started", "schedule", s.schedule)
}

// Stop cancels in-flight sweeps and waits for them to return
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return
	}
	s.cancel()
	<-s.cron.Stop().Done()
	s.cron = nil
	s.logger.Info("cart sweeper stopped")
}

func (s *Sweeper) RunOnce(ctx context.Context) {
	removed, err := s.service.PurgeStale(ctx)
	if err != nil {
		s.logger.Error("cart sweep failed", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Info("cart sweep removed stale items", "count", removed)
	}
}
