// Package playback streams fixed-size raw frame records onto the render
// queue at the display frame rate.
package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"reelbox/internal/render"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Config fixes the frame geometry and cadence of every session.
type Config struct {
	FrameBytes int
	Interval   time.Duration
}

// Engine owns at most one live playback session. The paused flag and the
// frame counter are shared with the dispatcher; starting a session cancels
// the previous one and bumps the generation so it can no longer publish.
type Engine struct {
	sink render.Sink
	cfg  Config
	log  logrus.FieldLogger
	open func(path string) (io.ReadSeekCloser, error)

	paused  atomic.Bool
	current atomic.Uint64
	gen     atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc

	// gate is held while a frame is handed to the sink and while the frame
	// counter moves, so pausing, stopping and restarting all wait for a
	// frame in flight.
	gate sync.Mutex
}

func NewEngine(sink render.Sink, cfg Config, log logrus.FieldLogger) *Engine {
	return &Engine{
		sink: sink,
		cfg:  cfg,
		log:  log.WithField("component", "playback"),
		open: func(path string) (io.ReadSeekCloser, error) { return os.Open(path) },
	}
}

// Session is one run of the frame loop.
type Session struct {
	ID         uuid.UUID
	Generation uint64
	Path       string
	From       uint64

	done chan struct{}
}

// Done is closed when the session's loop has returned.
func (s *Session) Done() <-chan struct{} { return s.done }

func (e *Engine) Paused() bool         { return e.paused.Load() }
func (e *Engine) CurrentFrame() uint64 { return e.current.Load() }
func (e *Engine) Generation() uint64   { return e.gen.Load() }

// SetPaused sets the shared paused flag. Once it returns no further frame
// of the live session reaches the sink. It must not be called from the sink.
func (e *Engine) SetPaused(paused bool) {
	e.gate.Lock()
	defer e.gate.Unlock()
	e.paused.Store(paused)
}

// Start opens path and plays it from frame from. Any previous session is
// cancelled first. The caller clears the paused flag; a session that finds
// it set stops after its first read.
func (e *Engine) Start(ctx context.Context, path string, from uint64) (*Session, error) {
	if e.cfg.FrameBytes <= 0 {
		return nil, fmt.Errorf("playback: invalid frame size %d", e.cfg.FrameBytes)
	}
	f, err := e.open(path)
	if err != nil {
		return nil, fmt.Errorf("playback: %w", err)
	}
	if _, err := f.Seek(int64(from)*int64(e.cfg.FrameBytes), io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("playback: seek frame %d: %w", from, err)
	}

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	sctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.gate.Lock()
	s := &Session{
		ID:         uuid.New(),
		Generation: e.gen.Add(1),
		Path:       path,
		From:       from,
		done:       make(chan struct{}),
	}
	e.current.Store(from)
	e.gate.Unlock()
	e.mu.Unlock()

	log := e.log.WithFields(logrus.Fields{"session": s.ID, "generation": s.Generation})
	log.WithFields(logrus.Fields{"path": path, "from": from}).Info("playback started")
	go func() {
		defer close(s.done)
		defer cancel()
		defer f.Close()
		reason := e.loop(sctx, s, f)
		log.WithField("frame", e.current.Load()).Infof("playback stopped: %s", reason)
	}()
	return s, nil
}

// Stop cancels the live session, if any, and invalidates its generation.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.gate.Lock()
	e.gen.Add(1)
	e.gate.Unlock()
}

func (e *Engine) live(ctx context.Context, s *Session) bool {
	return ctx.Err() == nil && e.gen.Load() == s.Generation
}

func (e *Engine) loop(ctx context.Context, s *Session, r io.Reader) string {
	var pace *time.Ticker
	if e.cfg.Interval > 0 {
		pace = time.NewTicker(e.cfg.Interval)
		defer pace.Stop()
	}

	frame := s.From
	for {
		buf := make([]byte, e.cfg.FrameBytes)
		if _, err := io.ReadFull(r, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return "end of file"
			}
			e.log.WithError(err).WithField("session", s.ID).Error("frame read failed")
			return "read error"
		}
		if reason, ok := e.publish(ctx, s, buf); !ok {
			return reason
		}
		if pace != nil {
			select {
			case <-ctx.Done():
				return "superseded"
			case <-pace.C:
			}
		}
		frame++
		if !e.advance(ctx, s, frame) {
			return "superseded"
		}
	}
}

// publish hands one frame to the sink unless the session was paused or
// superseded.
func (e *Engine) publish(ctx context.Context, s *Session, buf []byte) (string, bool) {
	e.gate.Lock()
	defer e.gate.Unlock()
	if e.paused.Load() {
		return "paused", false
	}
	if !e.live(ctx, s) {
		return "superseded", false
	}
	if err := e.sink.Send(ctx, render.RawFrame{Data: buf}); err != nil {
		if ctx.Err() != nil {
			return "superseded", false
		}
		return err.Error(), false
	}
	return "", true
}

// advance records frame as current while s is still the live session.
func (e *Engine) advance(ctx context.Context, s *Session, frame uint64) bool {
	e.gate.Lock()
	defer e.gate.Unlock()
	if !e.live(ctx, s) {
		return false
	}
	e.current.Store(frame)
	return true
}
