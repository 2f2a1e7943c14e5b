package input

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"reelbox/hal"
	"reelbox/internal/event"
	"reelbox/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerNeedsStableSamples(t *testing.T) {
	d := NewDebouncer(4)
	var presses int
	// Bounce, settle pressed, bounce on release, settle released, press again.
	samples := []bool{
		true, false, true, true, false,
		true, true, true, true, true, true,
		false, true, false, false, false, false,
		true, true, true, true,
	}
	for _, s := range samples {
		if d.Sample(s) {
			presses++
		}
	}
	assert.Equal(t, 2, presses)
	assert.True(t, d.Pressed())
}

func TestDebouncerHoldIsOnePress(t *testing.T) {
	d := NewDebouncer(4)
	var presses int
	for i := 0; i < 100; i++ {
		if d.Sample(true) {
			presses++
		}
	}
	assert.Equal(t, 1, presses)
}

// scriptPin replays levels, then idles high.
type scriptPin struct {
	mu     sync.Mutex
	levels []bool
	err    error
	reads  int
}

func (p *scriptPin) Name() string                               { return "SCRIPT" }
func (p *scriptPin) Caps() hal.GPIOCaps                         { return hal.GPIOCapInput | hal.GPIOCapPullUp }
func (p *scriptPin) Configure(hal.GPIOMode, hal.GPIOPull) error { return nil }
func (p *scriptPin) Write(bool) error                           { return hal.ErrNotImplemented }

func (p *scriptPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reads++
	if len(p.levels) == 0 {
		if p.err != nil {
			return false, p.err
		}
		return true, nil
	}
	l := p.levels[0]
	p.levels = p.levels[1:]
	return l, nil
}

func (p *scriptPin) drained() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.levels) == 0
}

func TestSourcePublishesDebouncedPresses(t *testing.T) {
	low, high := false, true
	pin := &scriptPin{levels: []bool{
		high, low, high, low, low, low, low, low,
		high, high, high, high,
		low, low, low, low,
		high, high, high, high,
	}}
	bus := event.NewBus(8)
	src := NewSource(pin, event.Down, time.Millisecond, 4, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- src.Run(ctx, bus) }()

	require.Eventually(t, pin.drained, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	require.Equal(t, 2, bus.Len())
	for i := 0; i < 2; i++ {
		ev := <-bus.Events()
		assert.Equal(t, event.Down, ev.Kind)
	}
}

func TestSourceReadErrorEndsSource(t *testing.T) {
	boom := errors.New("gpio gone")
	pin := &scriptPin{err: boom}
	src := NewSource(pin, event.Select, time.Millisecond, 4, logging.Discard())

	err := src.Run(context.Background(), event.NewBus(1))
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, src.Run(context.Background(), event.NewBus(1)), ErrStarted)
}

func TestSourceWithVirtualPin(t *testing.T) {
	pin := hal.NewVirtualPin("UP")
	bus := event.NewBus(4)
	src := NewSource(pin, event.Up, time.Millisecond, 4, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = src.Run(ctx, bus) }()

	pin.Drive(false)
	require.Eventually(t, func() bool { return bus.Len() == 1 }, time.Second, time.Millisecond)
	pin.Release()
	ev := <-bus.Events()
	assert.Equal(t, event.Up, ev.Kind)
}
