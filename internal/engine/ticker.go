package engine

import (
	"context"
	"time"

	"github.com/emberreach/server/internal/platform/logger"
)

// DriverIntervalMicros is the host clock resolution the scheduler is
// polled at. It matches the projectile engine's 75ms tick — the
// fastest-rated job in the system — so no scheduled job ever fires more
// than one driver interval late.
const DriverIntervalMicros = int64(75 * time.Millisecond / time.Microsecond)

// MetabolismTickIntervalMicros paces the hunger/thirst/warmth drain
// coarser than the 1s effect tick — survival stats decay on the order
// of minutes of played time, not seconds.
const MetabolismTickIntervalMicros = int64(10 * time.Second / time.Microsecond)

// Driver polls the Scheduler at a fixed real-time interval and feeds
// every due job into the Engine's single dispatch loop, so that no two
// reducers ever run concurrently against overlapping state — the Go
// rendering of "single-threaded cooperative per reducer" (specification
// §5).
type Driver struct {
	engine *Engine
	logger *logger.Logger
}

// NewDriver builds a driver bound to an engine.
func NewDriver(e *Engine, log *logger.Logger) *Driver {
	return &Driver{engine: e, logger: log}
}

// Run starts the polling loop. Call in a goroutine.
func (d *Driver) Run(ctx context.Context) {
	d.logger.Info("Tick driver started")
	ticker := time.NewTicker(time.Duration(DriverIntervalMicros) * time.Microsecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Tick driver stopped")
			return
		case <-ticker.C:
			now := time.Now().UnixMicro()
			due := d.engine.scheduler.DueJobs(now)
			for _, job := range due {
				d.engine.runScheduledJob(job, now)
			}
		}
	}
}
