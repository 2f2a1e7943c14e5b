//go:build linux

package hal

import (
	"context"
	"errors"
	"fmt"
	"image"

	"golang.org/x/sys/unix"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"
)

// Device is the HAL of the real appliance: a memory-mapped framebuffer,
// two SSD1306 panels on I2C and four GPIO buttons.
type Device struct {
	fb      *memFramebuffer
	fd      int
	mapped  []byte
	status  [2]*StatusBuffer
	panels  [2]*ssd1306.Dev
	buses   [2]i2c.BusCloser
	buttons Buttons
}

// OpenDevice initialises periph and opens every device named in cfg.
func OpenDevice(cfg DeviceConfig) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph init: %w", err)
	}
	g := cfg.Geometry.withDefaults()
	d := &Device{fd: -1}

	if err := d.mapFramebuffer(cfg.Framebuffer); err != nil {
		return nil, err
	}
	for i, name := range cfg.StatusBuses {
		if i >= len(d.status) {
			break
		}
		if err := d.openStatus(i, name, g.StatusWidth, g.StatusHeight); err != nil {
			_ = d.Close()
			return nil, err
		}
	}

	pins := [4]GPIOPin{}
	for i, name := range []string{cfg.Pins.Select, cfg.Pins.Escape, cfg.Pins.Up, cfg.Pins.Down} {
		p := gpioreg.ByName(name)
		if p == nil {
			_ = d.Close()
			return nil, fmt.Errorf("gpio: no pin named %q", name)
		}
		pins[i] = periphPin{p: p}
	}
	d.buttons = Buttons{Select: pins[0], Escape: pins[1], Up: pins[2], Down: pins[3]}
	return d, nil
}

// mapFramebuffer maps the visible rows of the device in the mode the driver
// reports; the configured geometry is not consulted.
func (d *Device) mapFramebuffer(path string) error {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	v, f, err := fbScreenInfo(fd)
	if err != nil {
		_ = unix.Close(fd)
		return fmt.Errorf("%s: %w", path, err)
	}
	l, err := layoutOf(v, f)
	if err != nil {
		_ = unix.Close(fd)
		return fmt.Errorf("%s: %w", path, err)
	}
	mem, err := unix.Mmap(fd, 0, l.Size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return fmt.Errorf("mmap %s: %w", path, err)
	}
	d.fd = fd
	d.mapped = mem
	d.fb = newMemFramebuffer(l.Width, l.Height, l.Stride, mem)
	return nil
}

func (d *Device) openStatus(i int, busName string, width, height int) error {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return fmt.Errorf("open i2c %s: %w", busName, err)
	}
	dev, err := ssd1306.NewI2C(bus, &ssd1306.Opts{W: width, H: height})
	if err != nil {
		_ = bus.Close()
		return fmt.Errorf("ssd1306 on %s: %w", busName, err)
	}
	d.buses[i] = bus
	d.panels[i] = dev
	d.status[i] = newStatusBuffer(width, height, func(img *image1bit.VerticalLSB) error {
		return dev.Draw(img.Bounds(), img, image.Point{})
	})
	return nil
}

func (d *Device) Framebuffer() Framebuffer { return d.fb }

func (d *Device) Status(i int) StatusDisplay {
	if i < 0 || i >= len(d.status) || d.status[i] == nil {
		return nil
	}
	return d.status[i]
}

func (d *Device) Buttons() Buttons { return d.buttons }

func (d *Device) Close() error {
	var errs []error
	for i := range d.panels {
		if d.panels[i] != nil {
			errs = append(errs, d.panels[i].Halt())
			d.panels[i] = nil
		}
		if d.buses[i] != nil {
			errs = append(errs, d.buses[i].Close())
			d.buses[i] = nil
		}
	}
	if d.mapped != nil {
		errs = append(errs, unix.Munmap(d.mapped))
		d.mapped = nil
	}
	if d.fd >= 0 {
		errs = append(errs, unix.Close(d.fd))
		d.fd = -1
	}
	return errors.Join(errs...)
}

// RunDevice opens the hardware described by cfg and runs the controller on it.
func RunDevice(ctx context.Context, run func(context.Context, HAL) error, cfg DeviceConfig) error {
	d, err := OpenDevice(cfg)
	if err != nil {
		return err
	}
	defer d.Close()
	return run(ctx, d)
}

type periphPin struct {
	p gpio.PinIO
}

func (p periphPin) Name() string { return p.p.Name() }

func (p periphPin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown
}

func (p periphPin) Configure(mode GPIOMode, pull GPIOPull) error {
	switch mode {
	case GPIOModeInput:
		gp := gpio.Float
		switch pull {
		case GPIOPullUp:
			gp = gpio.PullUp
		case GPIOPullDown:
			gp = gpio.PullDown
		}
		return p.p.In(gp, gpio.NoEdge)
	case GPIOModeOutput:
		return p.p.Out(gpio.Low)
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", p.p.Name())
	}
}

func (p periphPin) Read() (bool, error) {
	return p.p.Read() == gpio.High, nil
}

func (p periphPin) Write(level bool) error {
	return p.p.Out(gpio.Level(level))
}
