package render

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("render: queue closed")

// Sink accepts commands for the render worker. *Queue is the only
// production Sink.
type Sink interface {
	Send(ctx context.Context, cmds ...Command) error
}

// Queue is an ordered multi-producer, single-consumer command queue. The
// commands of one Send call keep their order but may interleave with
// commands from other producers.
type Queue struct {
	ch   chan Command
	done chan struct{}
}

func NewQueue(capacity int) *Queue {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue{ch: make(chan Command, capacity), done: make(chan struct{})}
}

// Send enqueues cmds in order, waiting for room.
func (q *Queue) Send(ctx context.Context, cmds ...Command) error {
	for _, c := range cmds {
		if c == nil {
			continue
		}
		select {
		case <-q.done:
			return ErrClosed
		default:
		}
		select {
		case q.ch <- c:
		case <-q.done:
			return ErrClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Commands is the consumer side.
func (q *Queue) Commands() <-chan Command { return q.ch }

// Close stops producers. It must be called at most once.
func (q *Queue) Close() { close(q.done) }

// Len is the number of queued commands.
func (q *Queue) Len() int { return len(q.ch) }

// Drain removes and returns every queued command without waiting.
func (q *Queue) Drain() []Command {
	var out []Command
	for {
		select {
		case c := <-q.ch:
			out = append(out, c)
		default:
			return out
		}
	}
}
