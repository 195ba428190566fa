package lifecycle

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper drives a periodic scan-and-transition pass. It runs once
// immediately, then on every tick until the context is cancelled. Missing
// a tick is harmless: every sweep predicate compares absolute timestamps
// against now, so the next pass catches up.
type Sweeper struct {
	name     string
	interval time.Duration
	logger   *slog.Logger
	sweep    func(ctx context.Context) int
}

func NewSweeper(name string, interval time.Duration, logger *slog.Logger, sweep func(ctx context.Context) int) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{name: name, interval: interval, logger: logger, sweep: sweep}
}

func (s *Sweeper) Run(ctx context.Context) {
	s.pass(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pass(ctx)
		}
	}
}

func (s *Sweeper) pass(ctx context.Context) {
	if n := s.sweep(ctx); n > 0 {
		s.logger.Info("sweep applied transitions", "sweeper", s.name, "count", n)
	}
}
