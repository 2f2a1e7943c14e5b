package hal

import (
	"image/color"
	"strings"
)

// Geometry sizes the primary framebuffer and the two status panels.
type Geometry struct {
	Width        int
	Height       int
	StatusWidth  int
	StatusHeight int
}

func (g Geometry) withDefaults() Geometry {
	if g.Width <= 0 {
		g.Width = 320
	}
	if g.Height <= 0 {
		g.Height = 240
	}
	if g.StatusWidth <= 0 {
		g.StatusWidth = 128
	}
	if g.StatusHeight <= 0 {
		g.StatusHeight = 32
	}
	return g
}

// Host is a HAL kept entirely in memory. Its button lines are virtual pins
// driven by the emulator window, the headless console or tests.
type Host struct {
	fb     *memFramebuffer
	status [2]*StatusBuffer
	sel    *VirtualPin
	esc    *VirtualPin
	up     *VirtualPin
	down   *VirtualPin
}

// NewHost returns a memory-backed HAL.
func NewHost(g Geometry) *Host {
	g = g.withDefaults()
	return &Host{
		fb: newMemFramebuffer(g.Width, g.Height, 0, nil),
		status: [2]*StatusBuffer{
			NewStatusBuffer(g.StatusWidth, g.StatusHeight),
			NewStatusBuffer(g.StatusWidth, g.StatusHeight),
		},
		sel:  NewVirtualPin("SELECT"),
		esc:  NewVirtualPin("ESCAPE"),
		up:   NewVirtualPin("UP"),
		down: NewVirtualPin("DOWN"),
	}
}

func (h *Host) Framebuffer() Framebuffer { return h.fb }

func (h *Host) Status(i int) StatusDisplay {
	if i < 0 || i >= len(h.status) {
		return nil
	}
	return h.status[i]
}

// StatusBuffer returns the concrete status panel for inspection.
func (h *Host) StatusBuffer(i int) *StatusBuffer {
	if i < 0 || i >= len(h.status) {
		return nil
	}
	return h.status[i]
}

func (h *Host) Buttons() Buttons {
	return Buttons{Select: h.sel, Escape: h.esc, Up: h.up, Down: h.down}
}

// Pin looks a button line up by name (select, escape, up, down).
func (h *Host) Pin(name string) *VirtualPin {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "select", "s", "enter":
		return h.sel
	case "escape", "e", "esc":
		return h.esc
	case "up", "u":
		return h.up
	case "down", "d":
		return h.down
	default:
		return nil
	}
}

func (h *Host) Close() error { return nil }

// SnapshotFramebuffer copies the framebuffer into dst as RGBA bytes.
func (h *Host) SnapshotFramebuffer(dst, scratch []byte) {
	h.fb.snapshotRGB565(scratch)
	expandRGB565(dst, scratch)
}

// SnapshotStatus copies the last flushed contents of a status panel into
// dst as RGBA bytes.
func (h *Host) SnapshotStatus(i int, dst []byte, on, off color.RGBA) {
	if s := h.StatusBuffer(i); s != nil {
		s.snapshotRGBA(dst, on, off)
	}
}
