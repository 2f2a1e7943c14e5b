package render

import (
	"image/color"

	"reelbox/hal"

	"tinygo.org/x/drivers"
)

// fbDisplay adapts a Framebuffer to drivers.Displayer so tinyfont can draw on it.
type fbDisplay struct {
	fb  hal.Framebuffer
	bgr bool
}

func newFBDisplay(fb hal.Framebuffer, bgr bool) *fbDisplay {
	return &fbDisplay{fb: fb, bgr: bgr}
}

func (d *fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	pixel := d.encode(c)
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *fbDisplay) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	buf := d.fb.Buffer()
	w, h := d.fb.Width(), d.fb.Height()

	x0 := clampInt(int(x), 0, w)
	y0 := clampInt(int(y), 0, h)
	x1 := clampInt(int(x)+int(width), 0, w)
	y1 := clampInt(int(y)+int(height), 0, h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	pixel := d.encode(c)
	lo, hi := byte(pixel), byte(pixel>>8)
	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := py * stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			if off+1 >= len(buf) {
				continue
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
	return nil
}

// outline draws a rectangle border of the given stroke width.
func (d *fbDisplay) outline(at Point, width, height, stroke int16, c color.RGBA) {
	_ = d.FillRectangle(at.X, at.Y, width, stroke, c)
	_ = d.FillRectangle(at.X, at.Y+height-stroke, width, stroke, c)
	_ = d.FillRectangle(at.X, at.Y, stroke, height, c)
	_ = d.FillRectangle(at.X+width-stroke, at.Y, stroke, height, c)
}

func (d *fbDisplay) SetRotation(rotation drivers.Rotation) error {
	_ = rotation
	return nil
}

func (d *fbDisplay) encode(c color.RGBA) uint16 {
	if d.bgr {
		return rgb565From888(c.B, c.G, c.R)
	}
	return rgb565From888(c.R, c.G, c.B)
}

func rgb565From888(r, g, b uint8) uint16 {
	return uint16((uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
