package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/repository"
)

const (
	// EveryMinute is the default sweep schedule
	EveryMinute = "@every 1m"

	sweepTimeout = 30 * time.Second
)

// Sweeper periodically purges form sessions that were abandoned
type Sweeper struct {
	repo     repository.FormSessionRepository
	ttl      time.Duration
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
}

// NewSweeper creates a sweeper; schedule accepts standard cron expressions and @every descriptors
func NewSweeper(repo repository.FormSessionRepository, ttl time.Duration, schedule string, logger *zap.Logger) (*Sweeper, error) {
	if schedule == "" {
		schedule = EveryMinute
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule: %w", err)
	}

	return &Sweeper{
		repo:     repo,
		ttl:      ttl,
		schedule: schedule,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger,
	}, nil
}

// Start schedules the sweep
func (s *Sweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("sweeper already running")
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Warn("Form session sweep failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("Form session sweeper started",
		zap.String("schedule", s.schedule),
		zap.Duration("ttl", s.ttl),
	)
	return nil
}

// Stop stops the schedule and waits for a running sweep until ctx is done
func (s *Sweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sweep purges expired sessions once
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	purged, err := s.repo.PurgeExpired(ctx, s.ttl)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.logger.Info("Purged abandoned form sessions", zap.Int("count", purged))
	}
	return purged, nil
}
