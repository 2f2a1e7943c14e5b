package render

import (
	"context"
	"fmt"

	"reelbox/hal"

	"github.com/sirupsen/logrus"
)

// Options tune how the worker encodes pixels.
type Options struct {
	// BGR swaps red and blue for panels wired as BGR565.
	BGR bool
}

// Worker is the only writer of the framebuffer and the status panels.
type Worker struct {
	fb     hal.Framebuffer
	p      *painter
	status [2]hal.StatusDisplay
	log    logrus.FieldLogger

	frames uint64
}

func NewWorker(fb hal.Framebuffer, status [2]hal.StatusDisplay, opts Options, log logrus.FieldLogger) *Worker {
	return &Worker{
		fb:     fb,
		p:      &painter{d: newFBDisplay(fb, opts.BGR)},
		status: status,
		log:    log.WithField("component", "render"),
	}
}

// Run applies commands until ctx ends. A device error stops the worker and
// is returned to the caller.
func (w *Worker) Run(ctx context.Context, q *Queue) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-q.Commands():
			if err := w.Apply(c); err != nil {
				w.log.WithError(err).Error("device write failed")
				return err
			}
		}
	}
}

// Apply performs one command synchronously. Framebuffer commands run with
// the framebuffer locked.
func (w *Worker) Apply(c Command) error {
	switch c := c.(type) {
	case nil:
		return nil
	case StatusText:
		return w.statusText(c)
	case ClearStatus:
		return w.clearStatus(c)
	}
	if w.fb != nil {
		w.fb.Lock()
		defer w.fb.Unlock()
	}
	if err := w.draw(c); err != nil {
		return err
	}
	return w.present()
}

func (w *Worker) draw(c Command) error {
	switch c := c.(type) {
	case NavigatingBackground:
		w.p.navigating(c)
	case ConfirmingBackground:
		w.p.confirming(c)
	case Text:
		w.p.text(c)
	case RawFrame:
		w.rawFrame(c)
	case ClearScreen:
		w.p.clear()
	case SelectYes:
		w.p.selectYes()
	case SelectNo:
		w.p.selectNo()
	case Icon:
		if c.Undraw {
			w.p.undrawIcon(c.At)
		} else {
			w.p.icon(c.At, maskFor(c.Kind))
		}
	default:
		return fmt.Errorf("render: unknown command %T", c)
	}
	return nil
}

func (w *Worker) present() error {
	if w.fb == nil {
		return nil
	}
	if err := w.fb.Present(); err != nil {
		return fmt.Errorf("framebuffer present: %w", err)
	}
	return nil
}

func (w *Worker) rawFrame(c RawFrame) {
	if w.fb == nil {
		return
	}
	buf := w.fb.Buffer()
	row := w.fb.Width() * 2
	stride := w.fb.StrideBytes()
	if len(c.Data) != row*w.fb.Height() && w.frames == 0 {
		w.log.WithFields(logrus.Fields{"frame": len(c.Data), "framebuffer": row * w.fb.Height()}).Warn("frame size does not match display")
	}
	w.frames++
	if stride == row {
		copy(buf, c.Data)
		return
	}
	for y := 0; y < w.fb.Height() && y*row < len(c.Data); y++ {
		off := y * stride
		if off >= len(buf) {
			return
		}
		copy(buf[off:min(off+row, len(buf))], c.Data[y*row:])
	}
}

func (w *Worker) panel(screen int) hal.StatusDisplay {
	if screen < 0 || screen >= len(w.status) {
		return nil
	}
	return w.status[screen]
}

func (w *Worker) statusText(c StatusText) error {
	d := w.panel(c.Screen)
	if d == nil {
		return nil
	}
	writeText(d, c.At, c.Content, statusInk(c.Undraw))
	if err := d.Display(); err != nil {
		return fmt.Errorf("status panel %d: %w", c.Screen, err)
	}
	return nil
}

func (w *Worker) clearStatus(c ClearStatus) error {
	d := w.panel(c.Screen)
	if d == nil {
		return nil
	}
	d.ClearBuffer()
	if err := d.Display(); err != nil {
		return fmt.Errorf("status panel %d: %w", c.Screen, err)
	}
	return nil
}
