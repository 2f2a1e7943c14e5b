// Package input turns sampled button lines into press events.
package input

// Debouncer is a shift-register filter: a level counts as stable once the
// last n samples agree, and only a stable released->pressed transition is
// reported.
type Debouncer struct {
	mask    uint8
	hist    uint8
	pressed bool
}

// NewDebouncer returns a filter over n samples, 1 <= n <= 8.
func NewDebouncer(n int) *Debouncer {
	if n < 1 {
		n = 1
	}
	if n > 8 {
		n = 8
	}
	return &Debouncer{mask: uint8(1<<n - 1)}
}

// Sample feeds one reading and reports whether it completed a press.
func (d *Debouncer) Sample(pressed bool) bool {
	var bit uint8
	if pressed {
		bit = 1
	}
	d.hist = (d.hist<<1 | bit) & d.mask

	switch d.hist {
	case d.mask:
		if !d.pressed {
			d.pressed = true
			return true
		}
	case 0:
		d.pressed = false
	}
	return false
}

// Pressed is the current stable level.
func (d *Debouncer) Pressed() bool { return d.pressed }
