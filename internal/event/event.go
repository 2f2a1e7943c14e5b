// Package event carries discrete input events to the dispatcher.
package event

import (
	"context"
	"errors"
	"time"
)

// Kind identifies an event.
type Kind uint8

const (
	Up Kind = iota + 1
	Down
	Select
	Escape
	// TimeChanged is published by the clock ticker.
	TimeChanged
	// CurrentFrameChanged is published by the frame ticker.
	CurrentFrameChanged
	// DirChanged is published when the watched directory changes.
	DirChanged
)

func (k Kind) String() string {
	switch k {
	case Up:
		return "up"
	case Down:
		return "down"
	case Select:
		return "select"
	case Escape:
		return "escape"
	case TimeChanged:
		return "time-changed"
	case CurrentFrameChanged:
		return "frame-changed"
	case DirChanged:
		return "dir-changed"
	default:
		return "unknown"
	}
}

// Button reports whether k comes from a physical button.
func (k Kind) Button() bool { return k >= Up && k <= Escape }

// Event is one message on the bus.
type Event struct {
	Kind Kind
	At   time.Time
	// Path is set for DirChanged.
	Path string
}

var ErrClosed = errors.New("event: bus closed")

// Bus is an ordered multi-producer, single-consumer queue.
type Bus struct {
	ch   chan Event
	done chan struct{}
}

// NewBus returns a bus that buffers up to capacity events.
func NewBus(capacity int) *Bus {
	if capacity < 0 {
		capacity = 0
	}
	return &Bus{ch: make(chan Event, capacity), done: make(chan struct{})}
}

// Publish enqueues ev, waiting for room. It returns ctx.Err() if ctx ends
// first and ErrClosed after Close.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	select {
	case <-b.done:
		return ErrClosed
	default:
	}
	select {
	case b.ch <- ev:
		return nil
	case <-b.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Events is the consumer side.
func (b *Bus) Events() <-chan Event { return b.ch }

// Done is closed by Close.
func (b *Bus) Done() <-chan struct{} { return b.done }

// Close stops producers. The consumer should select on Done as well as Events.
// Close must be called at most once.
func (b *Bus) Close() { close(b.done) }

// Len is the number of queued events.
func (b *Bus) Len() int { return len(b.ch) }
