package credit

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// OverdueJob runs the periodic overdue sweep over outstanding grants
type OverdueJob struct {
	service          *Service
	suspendAfterDays int
}

// NewOverdueJob creates an overdue sweep job
func NewOverdueJob(service *Service, suspendAfterDays int) *OverdueJob {
	if suspendAfterDays <= 0 {
		suspendAfterDays = 7 // Default one week of grace
	}
	return &OverdueJob{
		service:          service,
		suspendAfterDays: suspendAfterDays,
	}
}

// Start starts the sweep with the given interval
func (j *OverdueJob) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	j.run(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Overdue sweep job stopped")
			return
		case <-ticker.C:
			j.run(ctx)
		}
	}
}

func (j *OverdueJob) run(ctx context.Context) {
	if err := j.service.SweepOverdue(ctx, time.Now(), j.suspendAfterDays); err != nil {
		log.Error().Err(err).Msg("Failed to sweep overdue credits")
	}
}
