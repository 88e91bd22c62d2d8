package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor periodically sweeps idle client windows out of a Limiter so
// memory stays proportional to active clients, not all clients ever seen.
type Janitor struct {
	limiter  *Limiter
	schedule string
	idleTTL  time.Duration
	logger   *slog.Logger

	cron *cron.Cron
}

// NewJanitor creates a janitor sweeping on the given cron schedule
// (e.g. "@every 5m"). Clients idle longer than idleTTL are removed.
func NewJanitor(limiter *Limiter, schedule string, idleTTL time.Duration, logger *slog.Logger) *Janitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		limiter:  limiter,
		schedule: schedule,
		idleTTL:  idleTTL,
		logger:   logger,
	}
}

// Start schedules the sweep. It returns an error if the cron expression
// is invalid.
func (j *Janitor) Start(ctx context.Context) error {
	j.cron = cron.New()
	if _, err := j.cron.AddFunc(j.schedule, func() { j.sweep(ctx) }); err != nil {
		return fmt.Errorf("invalid janitor schedule %q: %w", j.schedule, err)
	}
	j.cron.Start()

	j.logger.InfoContext(ctx, "Rate limit janitor started",
		"schedule", j.schedule,
		"idle_ttl", j.idleTTL.String(),
	)
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	removed := j.limiter.SweepIdle(j.idleTTL)
	if removed > 0 {
		j.logger.DebugContext(ctx, "Swept idle rate limit windows",
			"removed", removed,
			"remaining", j.limiter.ClientCount(),
		)
	}
}
