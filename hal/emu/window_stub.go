//go:build !cgo

package emu

import (
	"context"
	"errors"

	"reelbox/hal"
)

// Config controls the emulator window.
type Config struct {
	Geometry hal.Geometry
	Scale    int
}

func RunWindow(_ context.Context, _ func(context.Context, hal.HAL) error, _ Config) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
