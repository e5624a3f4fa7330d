package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/avelorn/busline/internal/service/locks"
)

// Sweeper periodically reclaims lapsed seat locks. It is a safety net for
// stale rows and browsing freshness; correctness never depends on it because
// the read and transition paths already treat expired locks as available.
type Sweeper struct {
	locks    *locks.Service
	logger   *slog.Logger
	interval time.Duration
}

func New(locks *locks.Service, logger *slog.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &Sweeper{
		locks:    locks,
		logger:   logger,
		interval: interval,
	}
}

// Run sweeps on a fixed ticker until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			released, err := s.locks.SweepExpired(ctx)
			if err != nil {
				s.logger.Error("sweep failed", "error", err)
				continue
			}
			if released > 0 {
				s.logger.Info("reclaimed expired seat locks", "released", released)
			}
		}
	}
}
