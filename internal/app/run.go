package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"reelbox/hal"
	"reelbox/internal/config"
	"reelbox/internal/event"
	"reelbox/internal/input"
	"reelbox/internal/media"
	"reelbox/internal/nav"
	"reelbox/internal/playback"
	"reelbox/internal/render"
	"reelbox/internal/ticker"
	"reelbox/internal/watch"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Run drives the appliance on h until ctx ends, the render worker fails or
// the user shuts down from the fatal error screen (ErrShutdown).
func Run(ctx context.Context, h hal.HAL, cfg *config.Config, log logrus.FieldLogger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cls, err := media.NewClassifier(cfg.Media.Text, cfg.Media.Video, cfg.Media.Playable)
	if err != nil {
		return err
	}
	fb := h.Framebuffer()
	if fb == nil {
		return fmt.Errorf("app: no framebuffer")
	}

	frameBytes := fb.Width() * fb.Height() * 2
	if int64(frameBytes) != cfg.Display.FrameBytes() {
		log.WithFields(logrus.Fields{
			"framebuffer": fmt.Sprintf("%dx%d", fb.Width(), fb.Height()),
			"configured":  fmt.Sprintf("%dx%d", cfg.Display.Width, cfg.Display.Height),
		}).Warn("display geometry differs from configuration; using the framebuffer")
	}

	bus := event.NewBus(cfg.Queue.Events)
	queue := render.NewQueue(cfg.Queue.Render)
	worker := render.NewWorker(fb, [2]hal.StatusDisplay{h.Status(0), h.Status(1)}, render.Options{BGR: cfg.Display.BGR}, log)
	engine := playback.NewEngine(queue, playback.Config{FrameBytes: frameBytes, Interval: cfg.Display.FrameInterval()}, log)

	home, _ := os.UserHomeDir()
	opts := Options{
		Navigator:  nav.New(cfg.Root, home, cls),
		Classifier: cls,
		Player:     engine,
		Render:     queue,
		FPS:        cfg.Display.FPS,
		FrameBytes: frameBytes,
		Log:        log,
	}
	watcher, err := watch.New(log)
	if err != nil {
		log.WithError(err).Warn("directory watching disabled")
	} else {
		opts.Watch = watcher
	}
	d := NewDispatcher(opts)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return worker.Run(gctx, queue) })

	buttons := h.Buttons()
	lines := []struct {
		pin  hal.GPIOPin
		kind event.Kind
	}{
		{buttons.Select, event.Select},
		{buttons.Escape, event.Escape},
		{buttons.Up, event.Up},
		{buttons.Down, event.Down},
	}
	for _, l := range lines {
		src := input.NewSource(l.pin, l.kind, cfg.Buttons.SampleInterval.Duration, cfg.Buttons.DebounceSamples, log)
		kind := l.kind
		g.Go(func() error {
			// A failed line costs that button only.
			if err := src.Run(gctx, bus); err != nil && gctx.Err() == nil {
				log.WithError(err).WithField("button", kind).Error("button lost")
			}
			return nil
		})
	}

	g.Go(func() error { return ticker.Clock(gctx, bus, cfg.Clock.Interval.Duration) })
	g.Go(func() error { return ticker.Frames(gctx, bus, cfg.Display.FrameInterval()) })
	if watcher != nil {
		g.Go(func() error { return watcher.Run(gctx, bus) })
	}
	g.Go(func() error {
		if err := d.Start(gctx); err != nil {
			return err
		}
		return d.Run(gctx, bus)
	})

	err = g.Wait()
	engine.Stop()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}
