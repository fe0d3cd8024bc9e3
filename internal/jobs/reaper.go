package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fieldbooking/internal/utils"
)

type staleCanceller interface {
	CancelStale(ctx context.Context) ([]string, error)
}

// Reaper periodically force-cancels stale pending bookings. It reuses the
// booking service's transition path, so the state-machine guards are not
// duplicated here. Tick errors are logged and the next tick proceeds.
type Reaper struct {
	bookings staleCanceller
	interval time.Duration
}

func NewReaper(bookings staleCanceller, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Reaper{bookings: bookings, interval: interval}
}

// Start blocks until ctx is cancelled. Run it in its own goroutine.
func (r *Reaper) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	utils.LogEvent("", "reaper", "start", fmt.Sprintf("interval=%s", r.interval))

	for {
		select {
		case <-ctx.Done():
			utils.LogEvent("", "reaper", "stop", "context cancelled")
			return
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick runs one sweep. Exported so tests and operators can trigger a sweep
// without waiting for the ticker.
func (r *Reaper) Tick(ctx context.Context) {
	ids, err := r.bookings.CancelStale(ctx)
	if err != nil {
		utils.LogEvent("", "reaper", "tick", fmt.Sprintf("sweep failed: %v", err))
		return
	}
	if len(ids) > 0 {
		utils.LogEvent("", "reaper", "tick", fmt.Sprintf("auto-cancelled: %s", strings.Join(ids, ", ")))
	}
}
