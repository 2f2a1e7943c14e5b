//go:build cgo

package emu

import (
	"context"
	"errors"
	"image/color"

	"reelbox/hal"
	"reelbox/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

const gap = 8

var (
	panelOn  = color.RGBA{R: 0x9f, G: 0xe8, B: 0xff, A: 0xff}
	panelOff = color.RGBA{R: 0x08, G: 0x0c, B: 0x10, A: 0xff}
)

// Config controls the emulator window.
type Config struct {
	Geometry hal.Geometry
	Scale    int
}

// RunWindow opens a desktop window that shows the framebuffer and both
// status panels and maps the arrow keys, Enter and Esc onto the button
// lines. It blocks until the window closes or run returns.
func RunWindow(ctx context.Context, run func(context.Context, hal.HAL) error, cfg Config) error {
	h := hal.NewHost(cfg.Geometry)
	fb := h.Framebuffer()
	if cfg.Scale <= 0 {
		cfg.Scale = 2
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g := &game{h: h, done: make(chan struct{})}
	g.sw, g.sh = h.Status(0).Size()
	g.width = fb.Width()
	g.height = fb.Height() + gap + int(g.sh)

	go func() {
		g.err = run(ctx, h)
		close(g.done)
	}()

	ebiten.SetWindowTitle("reelbox (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(g.width*cfg.Scale, g.height*cfg.Scale)
	ebiten.SetTPS(60)
	err := ebiten.RunGame(g)
	cancel()
	<-g.done
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return g.err
}

type game struct {
	h      *hal.Host
	width  int
	height int
	sw, sh int16

	fbImg     *ebiten.Image
	fbPix     []byte
	scratch   []byte
	statusImg [2]*ebiten.Image
	statusPix [2][]byte

	done chan struct{}
	err  error
}

var keymap = []struct {
	key ebiten.Key
	pin string
}{
	{ebiten.KeyArrowUp, "up"},
	{ebiten.KeyArrowDown, "down"},
	{ebiten.KeyEnter, "select"},
	{ebiten.KeyEscape, "escape"},
	{ebiten.KeyBackspace, "escape"},
}

func (g *game) Update() error {
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}

	held := map[string]bool{}
	for _, k := range keymap {
		if ebiten.IsKeyPressed(k.key) {
			held[k.pin] = true
		}
	}
	for _, name := range []string{"up", "down", "select", "escape"} {
		pin := g.h.Pin(name)
		if held[name] {
			pin.Drive(false)
		} else {
			pin.Release()
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	fb := g.h.Framebuffer()
	if g.fbImg == nil {
		g.fbImg = ebiten.NewImage(fb.Width(), fb.Height())
		g.fbPix = make([]byte, fb.Width()*fb.Height()*4)
		g.scratch = make([]byte, len(fb.Buffer()))
		for i := range g.statusImg {
			g.statusImg[i] = ebiten.NewImage(int(g.sw), int(g.sh))
			g.statusPix[i] = make([]byte, int(g.sw)*int(g.sh)*4)
		}
	}

	g.h.SnapshotFramebuffer(g.fbPix, g.scratch)
	g.fbImg.WritePixels(g.fbPix)
	screen.DrawImage(g.fbImg, nil)

	y := float64(fb.Height() + gap)
	x := float64(g.width/2-int(g.sw)) / 2
	for i := range g.statusImg {
		g.h.SnapshotStatus(i, g.statusPix[i], panelOn, panelOff)
		g.statusImg[i].WritePixels(g.statusPix[i])
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(x+float64(i*g.width/2), y)
		screen.DrawImage(g.statusImg[i], op)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
