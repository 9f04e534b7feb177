package apiclient

import (
	"context"
	"time"
)

// DefaultPollInterval matches the dashboards' five second refresh
const DefaultPollInterval = 5 * time.Second

// Poller invokes a refetch callback on a fixed interval until the context is
// cancelled. It runs the callback once immediately so dashboards render
// without waiting a full interval.
type Poller struct {
	Interval time.Duration
}

// NewPoller creates a poller with the given interval, defaulting when zero
func NewPoller(interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{Interval: interval}
}

// Run blocks, calling fn on every tick, and returns when ctx is done.
// Errors from fn are delivered to onErr (when non-nil) and polling continues.
func (p *Poller) Run(ctx context.Context, fn func(context.Context) error, onErr func(error)) {
	tick := func() {
		if err := fn(ctx); err != nil && onErr != nil && ctx.Err() == nil {
			onErr(err)
		}
	}

	tick()
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}
