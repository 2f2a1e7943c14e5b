package hal

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"
)

// Console turns text lines into button presses on a Host. Each recognised
// line ("up", "down", "select", "escape") holds the line low for Hold.
type Console struct {
	h    *Host
	r    io.Reader
	hold time.Duration
}

func NewConsole(h *Host, r io.Reader, hold time.Duration) *Console {
	if hold <= 0 {
		hold = 100 * time.Millisecond
	}
	return &Console{h: h, r: r, hold: hold}
}

// Run reads until EOF or ctx is done. Unknown lines are returned to the
// caller through unknown, which may be nil.
func (c *Console) Run(ctx context.Context, unknown func(line string)) error {
	if c.r == nil {
		return ErrNotImplemented
	}
	sc := bufio.NewScanner(c.r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		pin := c.h.Pin(line)
		if pin == nil {
			if unknown != nil {
				unknown(line)
			}
			continue
		}
		if err := c.press(ctx, pin); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (c *Console) press(ctx context.Context, pin *VirtualPin) error {
	pin.Drive(false)
	t := time.NewTimer(c.hold)
	defer t.Stop()
	select {
	case <-ctx.Done():
		pin.Release()
		return ctx.Err()
	case <-t.C:
	}
	pin.Release()
	// Give the debouncer time to see the release before the next press.
	t.Reset(c.hold)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}
	return nil
}
