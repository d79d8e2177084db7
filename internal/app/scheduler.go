package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/activoentrena/territory-service/internal/service"
)

// ClosureScheduler periodically sweeps ended seasons and freezes their
// podiums. It runs one sweep at startup so a long-stopped instance
// catches up immediately instead of waiting a full interval.
type ClosureScheduler struct {
	closureService service.ClosureService
	interval       time.Duration
	logger         *zap.Logger
}

// NewClosureScheduler creates a new closure scheduler
func NewClosureScheduler(closureService service.ClosureService, interval time.Duration, logger *zap.Logger) *ClosureScheduler {
	return &ClosureScheduler{
		closureService: closureService,
		interval:       interval,
		logger:         logger,
	}
}

// Run blocks until ctx is cancelled, sweeping at the configured interval.
func (s *ClosureScheduler) Run(ctx context.Context) {
	s.logger.Info("closure scheduler started", zap.Duration("interval", s.interval))

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("closure scheduler stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ClosureScheduler) sweep(ctx context.Context) {
	closed, err := s.closureService.ProcessPendingClosures(ctx)
	if err != nil {
		s.logger.Error("closure sweep finished with errors", zap.Error(err))
	}
	if len(closed) > 0 {
		s.logger.Info("closure sweep closed seasons", zap.Strings("seasons", closed))
	}
}
