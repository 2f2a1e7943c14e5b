package input

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"reelbox/hal"
	"reelbox/internal/event"

	"github.com/sirupsen/logrus"
)

var ErrStarted = errors.New("input: source already started")

// Source samples one button line and publishes a press event for every
// debounced rising edge. Lines are active low.
type Source struct {
	pin      hal.GPIOPin
	kind     event.Kind
	interval time.Duration
	deb      *Debouncer
	log      logrus.FieldLogger
	started  atomic.Bool
}

func NewSource(pin hal.GPIOPin, kind event.Kind, interval time.Duration, samples int, log logrus.FieldLogger) *Source {
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	return &Source{
		pin:      pin,
		kind:     kind,
		interval: interval,
		deb:      NewDebouncer(samples),
		log:      log.WithField("button", kind.String()),
	}
}

// Run samples until ctx ends or the line fails. A Source runs once; a read
// error ends it for good.
func (s *Source) Run(ctx context.Context, bus *event.Bus) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrStarted
	}
	if s.pin == nil {
		return fmt.Errorf("input %s: no pin", s.kind)
	}
	if err := s.pin.Configure(hal.GPIOModeInput, hal.GPIOPullUp); err != nil {
		return fmt.Errorf("input %s: %w", s.kind, err)
	}
	s.log.WithField("pin", s.pin.Name()).Debug("sampling")

	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}

		level, err := s.pin.Read()
		if err != nil {
			return fmt.Errorf("input %s: read %s: %w", s.kind, s.pin.Name(), err)
		}
		if !s.deb.Sample(!level) {
			continue
		}
		s.log.Debug("press")
		if err := bus.Publish(ctx, event.Event{Kind: s.kind}); err != nil {
			return err
		}
	}
}
