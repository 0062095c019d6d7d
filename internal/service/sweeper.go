package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"campus/spacehub/internal/repository"
)

// Sweeper runs periodic housekeeping: it reopens spaces whose maintenance window
// has ended and marks past confirmed reservations completed.
type Sweeper struct {
	repos    repository.Repositories
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewSweeper(repos repository.Repositories, interval time.Duration, now func() time.Time, logger *zap.Logger) *Sweeper {
	if now == nil {
		now = time.Now
	}
	return &Sweeper{repos: repos, interval: interval, now: now, logger: nopIfNil(logger)}
}

// SweepResult counts the rows a single pass changed.
type SweepResult struct {
	SpacesReleased        int64
	ReservationsCompleted int64
}

// RunOnce performs one pass. Both steps run even if the first fails.
func (s *Sweeper) RunOnce(ctx context.Context) (SweepResult, error) {
	now := s.now().UTC()
	var result SweepResult

	released, spaceErr := s.repos.Spaces.ReleaseExpiredUnavailability(ctx, now)
	if spaceErr != nil {
		s.logger.Error("release expired unavailability", zap.Error(spaceErr))
	} else {
		result.SpacesReleased = released
	}

	completed, resErr := s.repos.Reservations.CompleteEnded(ctx, now)
	if resErr != nil {
		s.logger.Error("complete ended reservations", zap.Error(resErr))
	} else {
		result.ReservationsCompleted = completed
	}

	if result.SpacesReleased > 0 || result.ReservationsCompleted > 0 {
		s.logger.Info("sweep finished",
			zap.Int64("spaces_released", result.SpacesReleased),
			zap.Int64("reservations_completed", result.ReservationsCompleted),
		)
	}
	if spaceErr != nil {
		return result, spaceErr
	}
	return result, resErr
}

// Run sweeps immediately and then every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	_, _ = s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.RunOnce(ctx)
		}
	}
}
