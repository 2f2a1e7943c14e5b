// Package app is the appliance controller: the dispatcher that owns the
// display state and the wiring that feeds it.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"reelbox/internal/event"
	"reelbox/internal/media"
	"reelbox/internal/nav"
	"reelbox/internal/playback"
	"reelbox/internal/render"

	"github.com/sirupsen/logrus"
)

// ErrShutdown is returned by the dispatcher when the user confirms the
// fatal error screen. It is a clean exit.
var ErrShutdown = errors.New("app: shutdown requested")

// Player runs playback sessions. *playback.Engine is the production Player.
type Player interface {
	Start(ctx context.Context, path string, from uint64) (*playback.Session, error)
	Stop()
	Paused() bool
	SetPaused(paused bool)
	CurrentFrame() uint64
}

// Follower is told about every directory the user moves into.
type Follower interface {
	Follow(dir string) error
}

// Options wire a Dispatcher to its collaborators.
type Options struct {
	Navigator  *nav.Navigator
	Classifier *media.Classifier
	Player     Player
	Render     render.Sink
	// Watch is optional.
	Watch      Follower
	FPS        int
	FrameBytes int
	Now        func() time.Time
	Log        logrus.FieldLogger
}

// Dispatcher is the single consumer of the event bus and the only writer
// of the display state. Its lock is held for a whole transition, render
// commands included, so no two transitions interleave.
type Dispatcher struct {
	nav    *nav.Navigator
	cls    *media.Classifier
	player Player
	out    render.Sink
	watch  Follower
	fps    int
	frame  int
	now    func() time.Time
	log    logrus.FieldLogger

	mu    sync.Mutex
	state DisplayState
	model nav.Model
	modal *Modal
	play  Playing
	clock string
}

func NewDispatcher(o Options) *Dispatcher {
	if o.Now == nil {
		o.Now = time.Now
	}
	return &Dispatcher{
		nav:    o.Navigator,
		cls:    o.Classifier,
		player: o.Player,
		out:    o.Render,
		watch:  o.Watch,
		fps:    o.FPS,
		frame:  o.FrameBytes,
		now:    o.Now,
		log:    o.Log.WithField("component", "dispatcher"),
		state:  Navigating,
		play:   Playing{Drawn: zeroTimestamp},
	}
}

// Snapshot returns a copy of the current state.
func (d *Dispatcher) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := Snapshot{State: d.state, Nav: d.model, Play: d.play, Clock: d.clock}
	if d.modal != nil {
		m := *d.modal
		s.Modal = &m
	}
	return s
}

// Start paints the initial screens and opens the browse root.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.clock = d.now().Format(clockLayout)
	cmds := []render.Command{
		render.ClearScreen{},
		render.ClearStatus{Screen: render.StateScreen},
		render.ClearStatus{Screen: render.MediaScreen},
		render.StatusText{Screen: render.StateScreen, Content: d.state.Label(), At: render.StateLabelAt},
		render.StatusText{Screen: render.MediaScreen, Content: d.play.Drawn, At: render.TimestampAt},
		render.StatusText{Screen: render.MediaScreen, Content: render.VolumeLabel, At: render.VolumeLabelAt},
		render.StatusText{Screen: render.MediaScreen, Content: playback.FormatVolume(d.play.Volume), At: render.VolumeAt},
	}

	root := d.nav.Root()
	m, err := d.nav.Open(root)
	if err != nil {
		d.log.WithError(err).WithField("root", root).Error("browse root unreadable")
		cmds = append(cmds, d.fatal(err.Error())...)
		return d.out.Send(ctx, cmds...)
	}
	d.model = m
	bg, err := d.nav.Background(m, d.clock)
	if err != nil {
		cmds = append(cmds, d.fatal(err.Error())...)
		return d.out.Send(ctx, cmds...)
	}
	d.follow(m.Dir)
	return d.out.Send(ctx, append(cmds, bg)...)
}

// Run handles events until ctx ends, the bus closes or the user shuts the
// appliance down.
func (d *Dispatcher) Run(ctx context.Context, bus *event.Bus) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-bus.Done():
			return nil
		case ev := <-bus.Events():
			if err := d.Handle(ctx, ev); err != nil {
				return err
			}
		}
	}
}

// Handle applies one event. Events without a cell in the transition table
// for the current state change nothing.
func (d *Dispatcher) Handle(ctx context.Context, ev event.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	before := d.state
	cmds, err := d.transition(ctx, ev)
	if err != nil {
		return err
	}
	if d.state != before {
		d.log.WithFields(logrus.Fields{"event": ev.Kind, "from": before, "to": d.state}).Debug("transition")
	}
	if len(cmds) == 0 {
		return nil
	}
	if err := d.out.Send(ctx, cmds...); err != nil {
		return fmt.Errorf("dispatch %s: %w", ev.Kind, err)
	}
	return nil
}

func (d *Dispatcher) transition(ctx context.Context, ev event.Event) ([]render.Command, error) {
	if ev.Kind == event.TimeChanged {
		return d.tick(ev.At), nil
	}
	switch d.state {
	case Navigating:
		return d.navigating(ev), nil
	case ConfirmingMediaSelection:
		return d.confirmingSelection(ctx, ev), nil
	case PlayingSomething:
		return d.playing(ev), nil
	case ConfirmingMediaExit:
		return d.confirmingExit(ctx, ev), nil
	case ErrorMessage:
		if ev.Kind == event.Select || ev.Kind == event.Escape {
			return d.backToNavigation(), nil
		}
	case UnrecoverableError:
		if ev.Kind == event.Select {
			d.log.Warn("shutdown requested")
			return nil, ErrShutdown
		}
	}
	return nil, nil
}

// setState moves to next and swaps the label on the first status panel.
func (d *Dispatcher) setState(next DisplayState) []render.Command {
	if next == d.state {
		return nil
	}
	prev := d.state
	d.state = next
	return []render.Command{
		render.StatusText{Screen: render.StateScreen, Content: prev.Label(), At: render.StateLabelAt, Undraw: true},
		render.StatusText{Screen: render.StateScreen, Content: next.Label(), At: render.StateLabelAt},
	}
}

func (d *Dispatcher) openModal(next DisplayState, m Modal) []render.Command {
	d.modal = &m
	cmds := []render.Command{render.ConfirmingBackground{Message: m.Message, Options: m.Options, Selected: m.Selected}}
	return append(cmds, d.setState(next)...)
}

func (d *Dispatcher) errorModal(msg string) []render.Command {
	return d.openModal(ErrorMessage, Modal{Message: msg, Options: dismissOptions})
}

func (d *Dispatcher) fatal(msg string) []render.Command {
	return d.openModal(UnrecoverableError, Modal{Message: msg, Options: dismissOptions})
}

// backToNavigation leaves a modal for the browser. If the current
// directory has gone away the nearest readable ancestor takes its place;
// only an unreadable browse root is fatal.
func (d *Dispatcher) backToNavigation() []render.Command {
	d.modal = nil
	m, bg, err := d.relist()
	if err != nil {
		return d.fatal(err.Error())
	}
	d.model = m
	cmds := d.setState(Navigating)
	return append(cmds, bg)
}

func (d *Dispatcher) relist() (nav.Model, render.NavigatingBackground, error) {
	m, err := d.nav.Recover(d.model)
	if err != nil {
		d.log.WithError(err).WithField("root", d.nav.Root()).Error("browse root unreadable")
		return d.model, render.NavigatingBackground{}, err
	}
	if m.Dir != d.model.Dir {
		d.log.WithFields(logrus.Fields{"gone": d.model.Dir, "dir": m.Dir}).Warn("directory unreadable, moved up")
		d.follow(m.Dir)
	}
	bg, err := d.nav.Background(m, d.clock)
	if err != nil {
		d.log.WithError(err).WithField("dir", m.Dir).Error("directory unreadable")
		return d.model, render.NavigatingBackground{}, err
	}
	return m, bg, nil
}

func (d *Dispatcher) follow(dir string) {
	if d.watch == nil {
		return
	}
	if err := d.watch.Follow(dir); err != nil {
		d.log.WithError(err).WithField("dir", dir).Warn("can not watch directory")
	}
}

func (d *Dispatcher) tick(at time.Time) []render.Command {
	if at.IsZero() {
		at = d.now()
	}
	text := at.Format(clockLayout)
	prev := d.clock
	d.clock = text
	if d.state != Navigating || text == prev {
		return nil
	}
	return []render.Command{
		render.Text{Content: prev, At: render.ClockAt, Undraw: true},
		render.Text{Content: text, At: render.ClockAt},
	}
}

func (d *Dispatcher) navigating(ev event.Event) []render.Command {
	switch ev.Kind {
	case event.Up:
		m, cmds, err := d.nav.ScrollUp(d.model)
		if err != nil {
			d.log.WithError(err).Error("scroll up")
			return d.errorModal(nav.MsgUnknown)
		}
		d.model = m
		return cmds

	case event.Down:
		m, cmds, err := d.nav.ScrollDown(d.model)
		if err != nil {
			d.log.WithError(err).Error("scroll down")
			return d.errorModal(nav.MsgUnknown)
		}
		d.model = m
		return cmds

	case event.Escape:
		m, cmds, err := d.nav.Exit(d.model, d.clock)
		switch {
		case errors.Is(err, nav.ErrAboveRoot):
			return d.fatal(nav.MsgAboveRoot)
		case err != nil:
			d.log.WithError(err).Error("exit directory")
			return d.fatal(err.Error())
		}
		d.model = m
		d.follow(m.Dir)
		return cmds

	case event.Select:
		return d.selectEntry()

	case event.DirChanged:
		if ev.Path != "" && ev.Path != d.model.Dir {
			return nil
		}
		m, bg, err := d.relist()
		if err != nil {
			return d.fatal(err.Error())
		}
		d.model = m
		return []render.Command{bg}
	}
	return nil
}

func (d *Dispatcher) selectEntry() []render.Command {
	m, cmds, sel, err := d.nav.Select(d.model)
	switch {
	case errors.Is(err, nav.ErrEmpty):
		return d.errorModal(nav.MsgEmpty)
	case err != nil:
		d.log.WithError(err).Error("select")
		return d.errorModal(nav.MsgUnknown)
	}

	switch sel.Kind {
	case nav.Entered:
		d.model = m
		d.follow(m.Dir)
		return cmds
	case nav.Picked:
		file := sel.File
		if !d.cls.CanPlay(file.Name) {
			return d.errorModal(msgUnsupported + file.Name)
		}
		return d.openModal(ConfirmingMediaSelection, Modal{
			Message: playPrompt(file.Name),
			Options: confirmOptions,
			File:    &file,
		})
	default:
		return d.errorModal(sel.Message)
	}
}

// choose moves the modal highlight. Up picks "No", Down picks "Yes".
func (d *Dispatcher) choose(kind event.Kind) []render.Command {
	if d.modal == nil {
		return nil
	}
	if kind == event.Up {
		d.modal.Selected = 0
		return []render.Command{render.SelectNo{}}
	}
	d.modal.Selected = 1
	return []render.Command{render.SelectYes{}}
}

func (d *Dispatcher) confirmingSelection(ctx context.Context, ev event.Event) []render.Command {
	switch ev.Kind {
	case event.Up, event.Down:
		return d.choose(ev.Kind)
	case event.Escape:
		return d.backToNavigation()
	case event.Select:
		if d.modal == nil || d.modal.Selected == 0 || d.modal.File == nil {
			return d.backToNavigation()
		}
		return d.startPlayback(ctx, *d.modal.File)
	}
	return nil
}

func (d *Dispatcher) startPlayback(ctx context.Context, file media.FileDetails) []render.Command {
	d.play.File = file
	d.play.Total = playback.TotalFrames(file.Size, d.frame)
	d.player.SetPaused(false)
	if _, err := d.player.Start(ctx, file.Path, 0); err != nil {
		d.log.WithError(err).WithField("path", file.Path).Error("can not start playback")
		return d.errorModal(nav.MsgUnknown)
	}
	d.modal = nil
	cmds := []render.Command{render.ClearScreen{}}
	cmds = append(cmds, d.setState(PlayingSomething)...)
	return append(cmds, d.redrawTimestamp(0)...)
}

func (d *Dispatcher) resume(ctx context.Context) []render.Command {
	from := d.player.CurrentFrame()
	d.player.SetPaused(false)
	if _, err := d.player.Start(ctx, d.play.File.Path, from); err != nil {
		d.log.WithError(err).WithField("path", d.play.File.Path).Error("can not resume playback")
		d.player.Stop()
		return d.errorModal(nav.MsgUnknown)
	}
	var cmds []render.Command
	if from >= d.play.Total {
		// No frame will cover the dialog any more.
		cmds = append(cmds, render.ClearScreen{})
	}
	d.modal = nil
	return append(cmds, d.setState(PlayingSomething)...)
}

func (d *Dispatcher) playing(ev event.Event) []render.Command {
	switch ev.Kind {
	case event.Escape:
		d.player.SetPaused(true)
		return d.openModal(ConfirmingMediaExit, Modal{Message: msgExitMedia, Options: confirmOptions})
	case event.Up:
		return d.setVolume(playback.StepVolume(d.play.Volume, 1))
	case event.Down:
		return d.setVolume(playback.StepVolume(d.play.Volume, -1))
	case event.CurrentFrameChanged:
		if d.player.Paused() {
			return nil
		}
		return d.redrawTimestamp(d.player.CurrentFrame())
	}
	return nil
}

func (d *Dispatcher) setVolume(v int) []render.Command {
	if v == d.play.Volume {
		return nil
	}
	prev := d.play.Volume
	d.play.Volume = v
	return []render.Command{
		render.StatusText{Screen: render.MediaScreen, Content: playback.FormatVolume(prev), At: render.VolumeAt, Undraw: true},
		render.StatusText{Screen: render.MediaScreen, Content: playback.FormatVolume(v), At: render.VolumeAt},
	}
}

func (d *Dispatcher) redrawTimestamp(frame uint64) []render.Command {
	text := playback.FormatTimecode(frame, d.play.Total, d.fps)
	if text == d.play.Drawn {
		return nil
	}
	prev := d.play.Drawn
	d.play.Drawn = text
	return []render.Command{
		render.StatusText{Screen: render.MediaScreen, Content: prev, At: render.TimestampAt, Undraw: true},
		render.StatusText{Screen: render.MediaScreen, Content: text, At: render.TimestampAt},
	}
}

func (d *Dispatcher) confirmingExit(ctx context.Context, ev event.Event) []render.Command {
	switch ev.Kind {
	case event.Up, event.Down:
		return d.choose(ev.Kind)
	case event.Escape:
		return d.resume(ctx)
	case event.Select:
		if d.modal != nil && d.modal.Selected == 1 {
			d.player.Stop()
			cmds := d.backToNavigation()
			return append(cmds, d.resetTimestamp()...)
		}
		return d.resume(ctx)
	}
	return nil
}

func (d *Dispatcher) resetTimestamp() []render.Command {
	if d.play.Drawn == zeroTimestamp {
		return nil
	}
	prev := d.play.Drawn
	d.play.Drawn = zeroTimestamp
	return []render.Command{
		render.StatusText{Screen: render.MediaScreen, Content: prev, At: render.TimestampAt, Undraw: true},
		render.StatusText{Screen: render.MediaScreen, Content: zeroTimestamp, At: render.TimestampAt},
	}
}
