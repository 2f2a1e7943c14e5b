package hal

import (
	"context"
	"io"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Geometry Geometry
	// Input feeds the console; nil leaves the buttons idle.
	Input io.Reader
	Hold  time.Duration
	// Unknown receives console lines that are not button names.
	Unknown func(line string)
}

// RunHeadless runs the controller against a memory HAL without opening a window.
func RunHeadless(ctx context.Context, run func(context.Context, HAL) error, cfg HeadlessConfig) error {
	h := NewHost(cfg.Geometry)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Input != nil {
		con := NewConsole(h, cfg.Input, cfg.Hold)
		go func() { _ = con.Run(ctx, cfg.Unknown) }()
	}
	return run(ctx, h)
}
