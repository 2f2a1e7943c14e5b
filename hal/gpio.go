package hal

import (
	"fmt"
	"sync"
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIOPull selects the pull resistor configuration.
type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps declares what operations a pin supports.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
)

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
}

// VirtualPin is an in-memory input line. Something outside the controller
// (the emulator keyboard, the headless console, a test) drives its level.
type VirtualPin struct {
	mu       sync.Mutex
	name     string
	caps     GPIOCaps
	mode     GPIOMode
	pull     GPIOPull
	level    bool
	driven   bool
	readErr  error
	attached bool
}

// NewVirtualPin returns an unconfigured input pin that supports pull resistors.
func NewVirtualPin(name string) *VirtualPin {
	return &VirtualPin{
		name: name,
		caps: GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown,
		mode: GPIOModeInput,
		pull: GPIOPullNone,
	}
}

func (p *VirtualPin) Name() string   { return p.name }
func (p *VirtualPin) Caps() GPIOCaps { return p.caps }

func (p *VirtualPin) Configure(mode GPIOMode, pull GPIOPull) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch mode {
	case GPIOModeInput:
		if p.caps&GPIOCapInput == 0 {
			return fmt.Errorf("gpio: pin %s: input unsupported", p.name)
		}
	case GPIOModeOutput:
		if p.caps&GPIOCapOutput == 0 {
			return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", p.name)
	}

	switch pull {
	case GPIOPullNone:
	case GPIOPullUp:
		if p.caps&GPIOCapPullUp == 0 {
			return fmt.Errorf("gpio: pin %s: pull-up unsupported", p.name)
		}
	case GPIOPullDown:
		if p.caps&GPIOCapPullDown == 0 {
			return fmt.Errorf("gpio: pin %s: pull-down unsupported", p.name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid pull", p.name)
	}

	p.mode = mode
	p.pull = pull
	p.attached = true
	return nil
}

func (p *VirtualPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.attached {
		return false, fmt.Errorf("gpio: pin %s: not configured", p.name)
	}
	if p.readErr != nil {
		return false, p.readErr
	}
	if !p.driven && p.mode == GPIOModeInput {
		// A floating input settles on its pull resistor.
		return p.pull == GPIOPullUp, nil
	}
	return p.level, nil
}

func (p *VirtualPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.level = level
	p.driven = true
	return nil
}

// Drive sets the externally applied level of the line.
func (p *VirtualPin) Drive(level bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	p.driven = true
}

// Release stops driving the line so it falls back to its pull resistor.
func (p *VirtualPin) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.driven = false
}

// Fail makes every following Read return err. A nil err clears the fault.
func (p *VirtualPin) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readErr = err
}
