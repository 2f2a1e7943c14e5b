package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusKeepsProducerOrder(t *testing.T) {
	bus := NewBus(128)
	ctx := context.Background()

	const producers = 4
	const perProducer = 25
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				ev := Event{Kind: Kind(p + 1), Path: string(rune('a' + i))}
				assert.NoError(t, bus.Publish(ctx, ev))
			}
		}(p)
	}
	wg.Wait()

	last := map[Kind]rune{}
	for i := 0; i < producers*perProducer; i++ {
		ev := <-bus.Events()
		r := []rune(ev.Path)[0]
		if prev, ok := last[ev.Kind]; ok {
			assert.Greater(t, r, prev, "events from one producer must stay ordered")
		}
		last[ev.Kind] = r
		assert.False(t, ev.At.IsZero())
	}
	assert.Equal(t, 0, bus.Len())
}

func TestBusPublishBlocksUntilContextDone(t *testing.T) {
	bus := NewBus(1)
	require.NoError(t, bus.Publish(context.Background(), Event{Kind: Up}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := bus.Publish(ctx, Event{Kind: Down})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBusClose(t *testing.T) {
	bus := NewBus(0)
	bus.Close()
	assert.ErrorIs(t, bus.Publish(context.Background(), Event{Kind: Select}), ErrClosed)
}

func TestKindButton(t *testing.T) {
	for _, k := range []Kind{Up, Down, Select, Escape} {
		assert.True(t, k.Button(), k.String())
	}
	for _, k := range []Kind{TimeChanged, CurrentFrameChanged, DirChanged} {
		assert.False(t, k.Button(), k.String())
	}
}
