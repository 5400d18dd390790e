package cronjob

import (
	"context"
	"fmt"
	"time"

	"github.com/dharti-automation/dharti-web/internal/logging"
	"github.com/robfig/cron/v3"
)

// Warmer refreshes cached content.
type Warmer interface {
	Warm(ctx context.Context) error
}

type Scheduler struct {
	cron    *cron.Cron
	warmer  Warmer
	spec    string
	timeout time.Duration
	logger  *logging.Logger
}

// NewScheduler builds a scheduler that runs warmer on spec, which accepts
// six-field cron expressions and descriptors such as "@every 5m".
func NewScheduler(warmer Warmer, spec string, timeout time.Duration, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		warmer:  warmer,
		spec:    spec,
		timeout: timeout,
		logger:  logger.WithFields(map[string]any{"component": "cache_warmer"}),
	}
}

// Start registers the warm job and starts the cron loop. An empty spec
// leaves warming disabled.
func (s *Scheduler) Start() error {
	if s.spec == "" {
		s.logger.Info("cache warming disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		return fmt.Errorf("schedule cache warm %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Infof("cron scheduler started (%s)", s.spec)
	return nil
}

// RunOnce warms the cache immediately.
func (s *Scheduler) RunOnce() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	ctx = logging.WithLogger(ctx, s.logger)

	if err := s.warmer.Warm(ctx); err != nil {
		s.logger.Error(err, "cache warm failed")
	}
}

// Stop halts scheduling and waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
