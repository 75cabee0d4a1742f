package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/staywise/helpdesk/internal/models"
	"github.com/staywise/helpdesk/internal/storage"
	"go.uber.org/zap"
)

// Snapshotter keeps a cached ticket-stats snapshot for the dashboard,
// recomputed on a cron schedule so the analytics endpoint never queries
// storage on the hot path.
type Snapshotter struct {
	store  storage.Storage
	logger *zap.Logger

	mu       sync.RWMutex
	snapshot *models.TicketStats

	cron *cron.Cron
}

func NewSnapshotter(store storage.Storage, logger *zap.Logger) *Snapshotter {
	return &Snapshotter{
		store:  store,
		logger: logger,
		snapshot: &models.TicketStats{
			ByCategory: map[models.Category]int{},
			ByStatus:   map[string]int{},
			ByPriority: map[string]int{},
		},
	}
}

// Start refreshes once immediately, then on the given 5-field cron schedule
// (minute hour day-of-month month day-of-week). An empty schedule disables
// periodic refresh; Snapshot then serves the initial computation.
func (s *Snapshotter) Start(schedule string) error {
	if err := s.Refresh(context.Background()); err != nil {
		s.logger.Warn("initial analytics refresh failed", zap.Error(err))
	}
	if schedule == "" {
		s.logger.Info("analytics refresh schedule not set, periodic refresh disabled")
		return nil
	}

	s.cron = cron.New()
	_, err := s.cron.AddFunc(schedule, func() {
		if err := s.Refresh(context.Background()); err != nil {
			s.logger.Error("analytics refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid analytics schedule %q: %w", schedule, err)
	}
	s.cron.Start()
	s.logger.Info("analytics refresh scheduled", zap.String("cron", schedule))
	return nil
}

func (s *Snapshotter) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Refresh recomputes the snapshot from storage.
func (s *Snapshotter) Refresh(ctx context.Context) error {
	stats, err := s.store.TicketStats(ctx)
	if err != nil {
		return fmt.Errorf("computing ticket stats: %w", err)
	}
	stats.UpdatedAt = time.Now()

	s.mu.Lock()
	s.snapshot = stats
	s.mu.Unlock()
	return nil
}

// Snapshot returns the most recent stats. It never blocks on storage.
func (s *Snapshotter) Snapshot() *models.TicketStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}
