package hal

import (
	"errors"

	"tinygo.org/x/drivers"
)

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp little-endian: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a directly addressed pixel buffer.
//
// Writes into Buffer become visible without an explicit flush on mapped
// devices; Present exists for backends that need a commit hook. Writers
// hold Lock while touching Buffer so that readers such as the emulator
// window never see a half-drawn frame. ClearRGB takes the lock itself.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
	Lock()
	Unlock()
}

// StatusDisplay is a small monochrome panel with draw-then-flush semantics.
//
// SetPixel only touches the local buffer; Display pushes it to the panel.
type StatusDisplay interface {
	drivers.Displayer
	ClearBuffer()
}

// Buttons are the four input lines of the appliance. Lines idle high and
// read low while pressed.
type Buttons struct {
	Select GPIOPin
	Escape GPIOPin
	Up     GPIOPin
	Down   GPIOPin
}

// HAL provides the only contact point between the controller and the outside world.
type HAL interface {
	Framebuffer() Framebuffer
	Status(i int) StatusDisplay
	Buttons() Buttons
	Close() error
}
