package hal

import "sync"

type memFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte
}

// NewFramebuffer returns an RGB565 framebuffer backed by ordinary memory.
func NewFramebuffer(width, height int) Framebuffer {
	return newMemFramebuffer(width, height, 0, nil)
}

// newMemFramebuffer wraps buf, or fresh memory when buf is nil. A stride of
// zero means rows are packed.
func newMemFramebuffer(width, height, stride int, buf []byte) *memFramebuffer {
	if stride <= 0 {
		stride = width * 2
	}
	if buf == nil {
		buf = make([]byte, stride*height)
	}
	return &memFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    buf,
	}
}

func (f *memFramebuffer) Width() int          { return f.width }
func (f *memFramebuffer) Height() int         { return f.height }
func (f *memFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *memFramebuffer) StrideBytes() int    { return f.stride }
func (f *memFramebuffer) Buffer() []byte      { return f.buf }
func (f *memFramebuffer) Present() error      { return nil }
func (f *memFramebuffer) Lock()               { f.mu.Lock() }
func (f *memFramebuffer) Unlock()             { f.mu.Unlock() }

func (f *memFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pixel := rgb565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i+1 < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

func (f *memFramebuffer) snapshotRGB565(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
}
