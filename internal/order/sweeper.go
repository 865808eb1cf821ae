package order

import (
	"context"
	"time"

	"wyzar-be/internal/logger"

	"go.uber.org/zap"
)

// Sweeper cancels Pending orders that never received a gateway callback.
// Stock is only decremented on payment, so a late cancellation loses
// nothing.
type Sweeper struct {
	repo     Repository
	ttl      time.Duration
	interval time.Duration
}

func NewSweeper(repo Repository, ttl time.Duration) *Sweeper {
	return &Sweeper{
		repo:     repo,
		ttl:      ttl,
		interval: 10 * time.Minute,
	}
}

// Run blocks until ctx is cancelled. Intended to be started as a goroutine
// from main.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.ttl)

	n, err := s.repo.ExpirePending(ctx, cutoff)
	if err != nil {
		logger.L().Error("pending order sweep failed", zap.Error(err))
		return
	}

	if n > 0 {
		logger.L().Info("expired abandoned pending orders",
			zap.Int64("count", n),
			zap.Time("cutoff", cutoff),
		)
	}
}
