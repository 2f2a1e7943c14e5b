package app

import (
	"reelbox/internal/media"
	"reelbox/internal/nav"
)

// DisplayState is the screen the appliance is in. Exactly one is live.
type DisplayState uint8

const (
	Navigating DisplayState = iota
	PlayingSomething
	ConfirmingMediaSelection
	ConfirmingMediaExit
	ErrorMessage
	UnrecoverableError
)

func (s DisplayState) String() string {
	switch s {
	case Navigating:
		return "navigating"
	case PlayingSomething:
		return "playing"
	case ConfirmingMediaSelection:
		return "confirm-selection"
	case ConfirmingMediaExit:
		return "confirm-exit"
	case ErrorMessage:
		return "error"
	case UnrecoverableError:
		return "fatal"
	default:
		return "unknown"
	}
}

// Label is the text shown for s on the first status panel.
func (s DisplayState) Label() string {
	switch s {
	case Navigating:
		return "Navigating"
	case PlayingSomething:
		return "Playing media!"
	case ConfirmingMediaSelection:
		return "Confirm?"
	case ConfirmingMediaExit:
		return "Exit media?"
	case ErrorMessage:
		return "Error! x_x"
	case UnrecoverableError:
		return "FATAL ERROR!!"
	default:
		return ""
	}
}

// Modal is the dialog on screen in the confirming and error states.
// Selected is 0 for the first option ("No") and 1 for the second ("Yes").
type Modal struct {
	Message  string
	Options  []string
	Selected int
	File     *media.FileDetails
}

var (
	confirmOptions = []string{"No!", "Yes!"}
	dismissOptions = []string{"Okay!"}
)

const (
	msgExitMedia   = "Exit to navigation menu?"
	msgUnsupported = "Can not currently play this kind of file - "
	zeroTimestamp  = "0:00 / 0:00"
	clockLayout    = "3:04pm"
)

func playPrompt(name string) string { return "Play video: " + name + "?" }

// Playing is the state of the media being shown. It survives the exit
// modal so playback can resume where it paused.
type Playing struct {
	File   media.FileDetails
	Total  uint64
	Volume int
	// Drawn is the timestamp currently on the media status panel.
	Drawn string
}

// Snapshot is a copy of the dispatcher state.
type Snapshot struct {
	State DisplayState
	Nav   nav.Model
	Modal *Modal
	Play  Playing
	Clock string
}
