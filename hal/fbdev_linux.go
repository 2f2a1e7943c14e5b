//go:build linux

package hal

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// From linux/fb.h.
const (
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

type fbBitfield struct {
	Offset   uint32
	Length   uint32
	MSBRight uint32
}

type fbVarScreeninfo struct {
	XRes, YRes               uint32
	XResVirtual, YResVirtual uint32
	XOffset, YOffset         uint32
	BitsPerPixel             uint32
	Grayscale                uint32
	Red, Green, Blue, Transp fbBitfield
	Nonstd                   uint32
	Activate                 uint32
	Height, Width            uint32
	AccelFlags               uint32
	Pixclock                 uint32
	LeftMargin, RightMargin  uint32
	UpperMargin, LowerMargin uint32
	HSyncLen, VSyncLen       uint32
	Sync                     uint32
	VMode                    uint32
	Rotate                   uint32
	Colorspace               uint32
	Reserved                 [4]uint32
}

type fbFixScreeninfo struct {
	ID           [16]byte
	SmemStart    uintptr
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MmioStart    uintptr
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

func ioctlPtr(fd int, req uintptr, arg unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg)); errno != 0 {
		return errno
	}
	return nil
}

// fbScreenInfo asks the driver for the visible mode and the line length.
func fbScreenInfo(fd int) (fbVarScreeninfo, fbFixScreeninfo, error) {
	var v fbVarScreeninfo
	var f fbFixScreeninfo
	if err := ioctlPtr(fd, fbioGetVScreenInfo, unsafe.Pointer(&v)); err != nil {
		return v, f, fmt.Errorf("FBIOGET_VSCREENINFO: %w", err)
	}
	if err := ioctlPtr(fd, fbioGetFScreenInfo, unsafe.Pointer(&f)); err != nil {
		return v, f, fmt.Errorf("FBIOGET_FSCREENINFO: %w", err)
	}
	return v, f, nil
}

// fbLayout is the part of the device memory the controller maps: the
// visible rows at the driver's line length.
type fbLayout struct {
	Width, Height int
	Stride        int
	Size          int
}

func layoutOf(v fbVarScreeninfo, f fbFixScreeninfo) (fbLayout, error) {
	if v.BitsPerPixel != 16 {
		return fbLayout{}, fmt.Errorf("framebuffer is %d bpp, want 16", v.BitsPerPixel)
	}
	l := fbLayout{Width: int(v.XRes), Height: int(v.YRes), Stride: int(f.LineLength)}
	if l.Width <= 0 || l.Height <= 0 {
		return fbLayout{}, fmt.Errorf("framebuffer reports %dx%d", l.Width, l.Height)
	}
	if l.Stride == 0 {
		l.Stride = l.Width * 2
	}
	if l.Stride < l.Width*2 {
		return fbLayout{}, fmt.Errorf("framebuffer line length %d is shorter than %d pixels", l.Stride, l.Width)
	}
	l.Size = l.Stride * l.Height
	if f.SmemLen != 0 && l.Size > int(f.SmemLen) {
		return fbLayout{}, fmt.Errorf("framebuffer needs %d bytes, device has %d", l.Size, f.SmemLen)
	}
	return l, nil
}
