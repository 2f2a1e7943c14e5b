// Package ticker publishes the periodic synthetic events. A ticker never
// looks at controller state; the dispatcher decides what an event means.
package ticker

import (
	"context"
	"time"

	"reelbox/internal/event"
)

// Run publishes an event of kind every interval until ctx ends.
func Run(ctx context.Context, bus *event.Bus, kind event.Kind, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			if err := bus.Publish(ctx, event.Event{Kind: kind, At: now}); err != nil {
				return err
			}
		}
	}
}

// Clock publishes TimeChanged every interval.
func Clock(ctx context.Context, bus *event.Bus, interval time.Duration) error {
	return Run(ctx, bus, event.TimeChanged, interval)
}

// Frames publishes CurrentFrameChanged once per frame interval.
func Frames(ctx context.Context, bus *event.Bus, interval time.Duration) error {
	return Run(ctx, bus, event.CurrentFrameChanged, interval)
}
