// Package render owns the framebuffer and the status panels. Everything
// that wants pixels sends a Command over a Queue; a single Worker applies
// them in arrival order.
package render

import "reelbox/internal/media"

// Point is a pixel position. Text positions name the top-left corner of
// the text box, not its baseline.
type Point struct {
	X, Y int16
}

// Command is a drawing instruction. The set of commands is closed.
type Command interface {
	command()
}

// Slot is one of the three visible carousel positions.
type Slot uint8

const (
	SlotPrev Slot = iota
	SlotCurrent
	SlotNext
)

// Entry is what a carousel slot shows. Size and Modified are only drawn
// for the current slot.
type Entry struct {
	Name     string
	Icon     media.IconKind
	Size     string
	Modified string
}

// NavigatingBackground repaints the whole navigation screen.
type NavigatingBackground struct {
	Path    string
	Counter string
	Clock   string
	Slots   [3]*Entry
}

// ConfirmingBackground repaints the screen as a modal dialog. One option
// draws a single dismiss box; two options draw a No/Yes pair with
// Selected highlighted.
type ConfirmingBackground struct {
	Message  string
	Options  []string
	Selected int
}

// Text draws or undraws a string on the framebuffer. Selected picks the
// highlight ink for drawing; undrawing always uses the background.
type Text struct {
	Content  string
	At       Point
	Undraw   bool
	Selected bool
}

// RawFrame replaces the framebuffer contents with one frame record.
type RawFrame struct {
	Data []byte
}

// ClearScreen fills the framebuffer with the background colour.
type ClearScreen struct{}

// StatusText draws or undraws a string on status panel Screen (0 or 1).
type StatusText struct {
	Screen  int
	Content string
	At      Point
	Undraw  bool
}

// ClearStatus blanks status panel Screen.
type ClearStatus struct {
	Screen int
}

// SelectYes outlines the Yes box of a two-option modal.
type SelectYes struct{}

// SelectNo outlines the No box of a two-option modal.
type SelectNo struct{}

// Icon draws an icon, or undraws whatever is at At.
type Icon struct {
	At     Point
	Kind   media.IconKind
	Undraw bool
}

func (NavigatingBackground) command() {}
func (ConfirmingBackground) command() {}
func (Text) command()                 {}
func (RawFrame) command()             {}
func (ClearScreen) command()          {}
func (StatusText) command()           {}
func (ClearStatus) command()          {}
func (SelectYes) command()            {}
func (SelectNo) command()             {}
func (Icon) command()                 {}
