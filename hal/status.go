package hal

import (
	"image"
	"image/color"
	"sync"

	"periph.io/x/devices/v3/ssd1306/image1bit"
	"tinygo.org/x/drivers"
)

// StatusBuffer is a monochrome StatusDisplay kept in memory.
//
// Drawing goes to a back buffer; Display copies it to the visible plane and
// hands it to the flush hook, if any.
type StatusBuffer struct {
	mu      sync.Mutex
	w, h    int
	back    *image1bit.VerticalLSB
	shown   *image1bit.VerticalLSB
	flush   func(img *image1bit.VerticalLSB) error
	flushes int
}

// NewStatusBuffer returns a status display that never leaves memory.
func NewStatusBuffer(width, height int) *StatusBuffer {
	return newStatusBuffer(width, height, nil)
}

func newStatusBuffer(width, height int, flush func(img *image1bit.VerticalLSB) error) *StatusBuffer {
	r := image.Rect(0, 0, width, height)
	return &StatusBuffer{
		w:     width,
		h:     height,
		back:  image1bit.NewVerticalLSB(r),
		shown: image1bit.NewVerticalLSB(r),
		flush: flush,
	}
}

func (s *StatusBuffer) Size() (x, y int16) { return int16(s.w), int16(s.h) }

func (s *StatusBuffer) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || iy < 0 || ix >= s.w || iy >= s.h {
		return
	}
	s.mu.Lock()
	s.back.SetBit(ix, iy, lit(c))
	s.mu.Unlock()
}

func (s *StatusBuffer) Display() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy(s.shown.Pix, s.back.Pix)
	s.flushes++
	if s.flush != nil {
		return s.flush(s.shown)
	}
	return nil
}

func (s *StatusBuffer) SetRotation(rotation drivers.Rotation) error {
	_ = rotation
	return nil
}

// ClearBuffer turns every pixel of the back buffer off.
func (s *StatusBuffer) ClearBuffer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.back.Pix {
		s.back.Pix[i] = 0
	}
}

// Lit reports whether a pixel was on at the last flush.
func (s *StatusBuffer) Lit(x, y int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bool(s.shown.BitAt(x, y))
}

// Flushes counts calls to Display.
func (s *StatusBuffer) Flushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}

func (s *StatusBuffer) snapshotRGBA(dst []byte, on, off color.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for y := 0; y < s.h; y++ {
		for x := 0; x < s.w; x++ {
			c := off
			if s.shown.BitAt(x, y) {
				c = on
			}
			j := (y*s.w + x) * 4
			if j+3 >= len(dst) {
				return
			}
			dst[j+0] = c.R
			dst[j+1] = c.G
			dst[j+2] = c.B
			dst[j+3] = 0xFF
		}
	}
}

func lit(c color.RGBA) image1bit.Bit {
	return image1bit.Bit(int(c.R)+int(c.G)+int(c.B) >= 3*0x80)
}
