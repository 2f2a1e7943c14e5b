package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"reelbox/internal/event"
	"reelbox/internal/logging"
	"reelbox/internal/media"
	"reelbox/internal/nav"
	"reelbox/internal/playback"
	"reelbox/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type start struct {
	Path string
	From uint64
}

type fakePlayer struct {
	mu      sync.Mutex
	paused  bool
	current uint64
	starts  []start
	stops   int
	err     error
}

func (p *fakePlayer) Start(ctx context.Context, path string, from uint64) (*playback.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	p.starts = append(p.starts, start{Path: path, From: from})
	return &playback.Session{Path: path, From: from}, nil
}

func (p *fakePlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops++
}

func (p *fakePlayer) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *fakePlayer) SetPaused(paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = paused
}

func (p *fakePlayer) CurrentFrame() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *fakePlayer) setFrame(f uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = f
}

type recordingSink struct {
	mu   sync.Mutex
	cmds []render.Command
}

func (s *recordingSink) Send(ctx context.Context, cmds ...render.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cmds = append(s.cmds, cmds...)
	return nil
}

// take returns the commands sent since the last call.
func (s *recordingSink) take() []render.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.cmds
	s.cmds = nil
	return out
}

type followRecorder struct {
	dirs []string
}

func (f *followRecorder) Follow(dir string) error {
	f.dirs = append(f.dirs, dir)
	return nil
}

type harness struct {
	d      *Dispatcher
	player *fakePlayer
	sink   *recordingSink
	follow *followRecorder
	root   string
}

var fixedNow = time.Date(2024, 3, 1, 15, 4, 0, 0, time.Local)

func newHarness(t *testing.T, root string) *harness {
	t.Helper()
	cls, err := media.NewClassifier(
		[]string{"*.txt", "*.bashrc", "*.rs", "*.sh"},
		[]string{"*.rgb", "*.raw", "*.rgb565", "*.mp4"},
		[]string{"*.raw", "*.rgb565"},
	)
	require.NoError(t, err)

	h := &harness{player: &fakePlayer{}, sink: &recordingSink{}, follow: &followRecorder{}, root: root}
	h.d = NewDispatcher(Options{
		Navigator:  nav.New(root, "/nonexistent-home", cls),
		Classifier: cls,
		Player:     h.player,
		Render:     h.sink,
		Watch:      h.follow,
		FPS:        1,
		FrameBytes: 16,
		Now:        func() time.Time { return fixedNow },
		Log:        logging.Discard(),
	})
	require.NoError(t, h.d.Start(context.Background()))
	h.sink.take()
	return h
}

func browseRoot(t *testing.T) string {
	t.Helper()
	root, err := filepath.Abs("../nav/testdata/browse")
	require.NoError(t, err)
	return root
}

func (h *harness) press(t *testing.T, kinds ...event.Kind) {
	t.Helper()
	for _, k := range kinds {
		require.NoError(t, h.d.Handle(context.Background(), event.Event{Kind: k}))
	}
}

func (h *harness) state() DisplayState { return h.d.Snapshot().State }

func TestStartPaintsNavigation(t *testing.T) {
	root := browseRoot(t)
	sink := &recordingSink{}
	cls, err := media.NewClassifier(nil, nil, []string{"*.raw"})
	require.NoError(t, err)
	d := NewDispatcher(Options{
		Navigator:  nav.New(root, "", cls),
		Classifier: cls,
		Player:     &fakePlayer{},
		Render:     sink,
		FPS:        24,
		FrameBytes: 16,
		Now:        func() time.Time { return fixedNow },
		Log:        logging.Discard(),
	})
	require.NoError(t, d.Start(context.Background()))

	cmds := sink.take()
	require.NotEmpty(t, cmds)
	assert.Equal(t, render.ClearScreen{}, cmds[0])
	assert.Contains(t, cmds, render.Command(render.StatusText{Screen: render.StateScreen, Content: "Navigating", At: render.StateLabelAt}))
	assert.Contains(t, cmds, render.Command(render.StatusText{Screen: render.MediaScreen, Content: "0:00 / 0:00", At: render.TimestampAt}))
	assert.Contains(t, cmds, render.Command(render.StatusText{Screen: render.MediaScreen, Content: "0%", At: render.VolumeAt}))

	bg, ok := cmds[len(cmds)-1].(render.NavigatingBackground)
	require.True(t, ok)
	assert.Equal(t, "1/3", bg.Counter)
	assert.Equal(t, "3:04pm", bg.Clock)

	snap := d.Snapshot()
	assert.Equal(t, Navigating, snap.State)
	assert.Equal(t, nav.Model{Dir: root, Index: 0, Count: 3}, snap.Nav)
}

func TestStartWithUnreadableRootIsFatal(t *testing.T) {
	h := newHarness(t, filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, UnrecoverableError, h.state())

	err := h.d.Handle(context.Background(), event.Event{Kind: event.Select})
	assert.ErrorIs(t, err, ErrShutdown)
}

func TestEndToEndScenario(t *testing.T) {
	root := browseRoot(t)
	h := newHarness(t, root)

	h.press(t, event.Select)
	snap := h.d.Snapshot()
	assert.Equal(t, ErrorMessage, snap.State)
	require.NotNil(t, snap.Modal)
	assert.Equal(t, "Can not currently play this kind of file - a.txt", snap.Modal.Message)
	assert.Equal(t, []string{"Okay!"}, snap.Modal.Options)

	h.press(t, event.Escape)
	snap = h.d.Snapshot()
	assert.Equal(t, Navigating, snap.State)
	assert.Equal(t, 0, snap.Nav.Index)
	assert.Nil(t, snap.Modal)

	h.press(t, event.Down)
	assert.Equal(t, 1, h.d.Snapshot().Nav.Index)

	h.press(t, event.Select)
	snap = h.d.Snapshot()
	assert.Equal(t, ConfirmingMediaSelection, snap.State)
	require.NotNil(t, snap.Modal)
	require.NotNil(t, snap.Modal.File)
	assert.Equal(t, "b.raw", snap.Modal.File.Name)
	assert.Equal(t, "Play video: b.raw?", snap.Modal.Message)
	assert.Equal(t, 0, snap.Modal.Selected)

	h.sink.take()
	h.press(t, event.Down)
	assert.Equal(t, 1, h.d.Snapshot().Modal.Selected)
	assert.Equal(t, []render.Command{render.SelectYes{}}, h.sink.take())

	h.press(t, event.Select)
	snap = h.d.Snapshot()
	assert.Equal(t, PlayingSomething, snap.State)
	assert.Equal(t, []start{{Path: filepath.Join(root, "b.raw"), From: 0}}, h.player.starts)
	assert.False(t, h.player.Paused())
	assert.EqualValues(t, 4, snap.Play.Total)
	assert.Equal(t, "0:00 / 0:04", snap.Play.Drawn)
}

// toPlaying walks the browse fixture into PlayingSomething on b.raw.
func (h *harness) toPlaying(t *testing.T) {
	t.Helper()
	h.press(t, event.Down, event.Select, event.Down, event.Select)
	require.Equal(t, PlayingSomething, h.state())
	h.sink.take()
}

func TestConfirmSelectionNo(t *testing.T) {
	h := newHarness(t, browseRoot(t))
	h.press(t, event.Down, event.Select, event.Down, event.Up)
	assert.Equal(t, 0, h.d.Snapshot().Modal.Selected)

	h.press(t, event.Select)
	snap := h.d.Snapshot()
	assert.Equal(t, Navigating, snap.State)
	assert.Equal(t, 1, snap.Nav.Index)
	assert.Empty(t, h.player.starts)
}

func TestPauseAndResume(t *testing.T) {
	h := newHarness(t, browseRoot(t))
	h.toPlaying(t)

	h.press(t, event.Escape)
	snap := h.d.Snapshot()
	assert.Equal(t, ConfirmingMediaExit, snap.State)
	assert.Equal(t, "Exit to navigation menu?", snap.Modal.Message)
	assert.True(t, h.player.Paused())

	h.player.setFrame(2)
	h.press(t, event.Escape)
	assert.Equal(t, PlayingSomething, h.state())
	assert.False(t, h.player.Paused())
	require.Len(t, h.player.starts, 2)
	assert.Equal(t, uint64(2), h.player.starts[1].From)

	h.press(t, event.Escape, event.Select)
	assert.Equal(t, PlayingSomething, h.state())
	require.Len(t, h.player.starts, 3)
	assert.Equal(t, uint64(2), h.player.starts[2].From)
}

func TestExitMediaToNavigation(t *testing.T) {
	h := newHarness(t, browseRoot(t))
	h.toPlaying(t)
	h.player.setFrame(3)
	h.press(t, event.CurrentFrameChanged)

	h.press(t, event.Escape, event.Down, event.Select)
	snap := h.d.Snapshot()
	assert.Equal(t, Navigating, snap.State)
	assert.Equal(t, 1, snap.Nav.Index)
	assert.Equal(t, 1, h.player.stops)
	assert.Equal(t, "0:00 / 0:00", snap.Play.Drawn)
}

func TestFrameTickRedrawsTimestamp(t *testing.T) {
	h := newHarness(t, browseRoot(t))
	h.toPlaying(t)

	h.player.setFrame(2)
	h.press(t, event.CurrentFrameChanged)
	assert.Equal(t, []render.Command{
		render.StatusText{Screen: render.MediaScreen, Content: "0:00 / 0:04", At: render.TimestampAt, Undraw: true},
		render.StatusText{Screen: render.MediaScreen, Content: "0:02 / 0:04", At: render.TimestampAt},
	}, h.sink.take())

	h.press(t, event.CurrentFrameChanged)
	assert.Empty(t, h.sink.take(), "unchanged timestamp is not redrawn")

	h.player.SetPaused(true)
	h.player.setFrame(3)
	h.press(t, event.CurrentFrameChanged)
	assert.Empty(t, h.sink.take(), "paused playback is not redrawn")
}

func TestVolumeClamps(t *testing.T) {
	h := newHarness(t, browseRoot(t))
	h.toPlaying(t)

	for i := 0; i < 30; i++ {
		h.press(t, event.Up)
		v := h.d.Snapshot().Play.Volume
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 100)
	}
	assert.Equal(t, 100, h.d.Snapshot().Play.Volume)
	h.sink.take()
	h.press(t, event.Up)
	assert.Empty(t, h.sink.take())

	for i := 0; i < 30; i++ {
		h.press(t, event.Down)
	}
	assert.Equal(t, 0, h.d.Snapshot().Play.Volume)

	h.sink.take()
	h.press(t, event.Up)
	assert.Equal(t, []render.Command{
		render.StatusText{Screen: render.MediaScreen, Content: "0%", At: render.VolumeAt, Undraw: true},
		render.StatusText{Screen: render.MediaScreen, Content: "5%", At: render.VolumeAt},
	}, h.sink.take())
}

func TestClockRedrawsOnlyOnChange(t *testing.T) {
	h := newHarness(t, browseRoot(t))

	require.NoError(t, h.d.Handle(context.Background(), event.Event{Kind: event.TimeChanged, At: fixedNow.Add(20 * time.Second)}))
	assert.Empty(t, h.sink.take())

	require.NoError(t, h.d.Handle(context.Background(), event.Event{Kind: event.TimeChanged, At: fixedNow.Add(time.Minute)}))
	assert.Equal(t, []render.Command{
		render.Text{Content: "3:04pm", At: render.ClockAt, Undraw: true},
		render.Text{Content: "3:05pm", At: render.ClockAt},
	}, h.sink.take())
}

func TestEscapeAtRootIsFatal(t *testing.T) {
	h := newHarness(t, browseRoot(t))

	h.press(t, event.Escape)
	snap := h.d.Snapshot()
	assert.Equal(t, UnrecoverableError, snap.State)
	assert.Equal(t, nav.MsgAboveRoot, snap.Modal.Message)
	assert.Contains(t, h.sink.take(), render.Command(render.StatusText{Screen: render.StateScreen, Content: "FATAL ERROR!!", At: render.StateLabelAt}))

	err := h.d.Handle(context.Background(), event.Event{Kind: event.Select})
	assert.ErrorIs(t, err, ErrShutdown)
}

func TestEnterAndExitDirectory(t *testing.T) {
	root := browseRoot(t)
	h := newHarness(t, root)

	h.press(t, event.Down, event.Down, event.Select)
	snap := h.d.Snapshot()
	assert.Equal(t, Navigating, snap.State)
	assert.Equal(t, nav.Model{Dir: filepath.Join(root, "c"), Index: 0, Count: 1}, snap.Nav)

	h.press(t, event.Escape)
	snap = h.d.Snapshot()
	assert.Equal(t, nav.Model{Dir: root, Index: 0, Count: 3}, snap.Nav)
	assert.Equal(t, []string{root, filepath.Join(root, "c"), root}, h.follow.dirs)
}

func TestSelectInEmptyDirectory(t *testing.T) {
	h := newHarness(t, t.TempDir())

	h.press(t, event.Up, event.Down)
	assert.Empty(t, h.sink.take())

	h.press(t, event.Select)
	snap := h.d.Snapshot()
	assert.Equal(t, ErrorMessage, snap.State)
	assert.Equal(t, nav.MsgEmpty, snap.Modal.Message)
}

func TestDirChangedRefreshesListing(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.raw", "b.raw"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), make([]byte, 32), 0o644))
	}
	h := newHarness(t, root)
	h.press(t, event.Down)
	require.Equal(t, 1, h.d.Snapshot().Nav.Index)
	h.sink.take()

	require.NoError(t, os.Remove(filepath.Join(root, "b.raw")))
	require.NoError(t, h.d.Handle(context.Background(), event.Event{Kind: event.DirChanged, Path: root}))

	assert.Equal(t, nav.Model{Dir: root, Index: 0, Count: 1}, h.d.Snapshot().Nav)
	cmds := h.sink.take()
	require.Len(t, cmds, 1)
	bg, ok := cmds[0].(render.NavigatingBackground)
	require.True(t, ok)
	assert.Equal(t, "1/1", bg.Counter)
}

func removedSubdirectory(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.txt"), []byte("a"), 0o644))

	h := newHarness(t, root)
	h.press(t, event.Select)
	require.Equal(t, sub, h.d.Snapshot().Nav.Dir)
	require.NoError(t, os.RemoveAll(sub))
	h.sink.take()
	return h
}

func TestDismissingErrorAfterDirectoryRemoved(t *testing.T) {
	for _, dismiss := range []event.Kind{event.Escape, event.Select} {
		t.Run(dismiss.String(), func(t *testing.T) {
			h := removedSubdirectory(t)

			h.press(t, event.Down)
			require.Equal(t, ErrorMessage, h.state())

			h.press(t, dismiss)
			snap := h.d.Snapshot()
			assert.Equal(t, Navigating, snap.State)
			assert.Nil(t, snap.Modal)
			assert.Equal(t, nav.Model{Dir: h.root, Index: 0, Count: 0}, snap.Nav)
			assert.Equal(t, h.root, h.follow.dirs[len(h.follow.dirs)-1])

			cmds := h.sink.take()
			require.NotEmpty(t, cmds)
			_, ok := cmds[len(cmds)-1].(render.NavigatingBackground)
			assert.True(t, ok)

			h.press(t, event.Up, event.Down)
			assert.Equal(t, Navigating, h.state())
		})
	}
}

func TestEscapeFromRemovedDirectory(t *testing.T) {
	h := removedSubdirectory(t)

	h.press(t, event.Escape)
	snap := h.d.Snapshot()
	assert.Equal(t, Navigating, snap.State)
	assert.Equal(t, nav.Model{Dir: h.root, Index: 0, Count: 0}, snap.Nav)
	cmds := h.sink.take()
	require.Len(t, cmds, 1)
	assert.IsType(t, render.NavigatingBackground{}, cmds[0])
}

func TestDirChangedAfterRemovalMovesUp(t *testing.T) {
	h := removedSubdirectory(t)

	require.NoError(t, h.d.Handle(context.Background(), event.Event{Kind: event.DirChanged, Path: filepath.Join(h.root, "sub")}))
	snap := h.d.Snapshot()
	assert.Equal(t, Navigating, snap.State)
	assert.Equal(t, h.root, snap.Nav.Dir)
}

func TestDismissingErrorWithRootGoneIsFatal(t *testing.T) {
	h := removedSubdirectory(t)
	h.press(t, event.Down)
	require.NoError(t, os.RemoveAll(h.root))

	h.press(t, event.Escape)
	assert.Equal(t, UnrecoverableError, h.state())
	err := h.d.Handle(context.Background(), event.Event{Kind: event.Select})
	assert.ErrorIs(t, err, ErrShutdown)
}

func TestStartPlaybackFailure(t *testing.T) {
	h := newHarness(t, browseRoot(t))
	h.player.err = os.ErrNotExist

	h.press(t, event.Down, event.Select, event.Down, event.Select)
	snap := h.d.Snapshot()
	assert.Equal(t, ErrorMessage, snap.State)
	assert.Equal(t, nav.MsgUnknown, snap.Modal.Message)
}

func TestEventsOutsideTheTableChangeNothing(t *testing.T) {
	all := []event.Kind{event.Up, event.Down, event.Select, event.Escape, event.TimeChanged, event.CurrentFrameChanged, event.DirChanged}
	cases := []struct {
		state  DisplayState
		reach  []event.Kind
		active []event.Kind
	}{
		{Navigating, nil, []event.Kind{event.Up, event.Down, event.Select, event.Escape}},
		{ConfirmingMediaSelection, []event.Kind{event.Down, event.Select}, []event.Kind{event.Up, event.Down, event.Select, event.Escape}},
		{PlayingSomething, []event.Kind{event.Down, event.Select, event.Down, event.Select}, []event.Kind{event.Up, event.Down, event.Escape, event.CurrentFrameChanged}},
		{ConfirmingMediaExit, []event.Kind{event.Down, event.Select, event.Down, event.Select, event.Escape}, []event.Kind{event.Up, event.Down, event.Select, event.Escape}},
		{ErrorMessage, []event.Kind{event.Select}, []event.Kind{event.Select, event.Escape}},
		{UnrecoverableError, []event.Kind{event.Escape}, []event.Kind{event.Select}},
	}

	for _, tc := range cases {
		t.Run(tc.state.String(), func(t *testing.T) {
			h := newHarness(t, browseRoot(t))
			h.press(t, tc.reach...)
			require.Equal(t, tc.state, h.state())

			for _, k := range all {
				if contains(tc.active, k) {
					continue
				}
				before := h.d.Snapshot()
				h.sink.take()
				ev := event.Event{Kind: k}
				if k == event.DirChanged {
					ev.Path = filepath.Join(h.root, "c")
				}
				require.NoError(t, h.d.Handle(context.Background(), ev), k.String())
				assert.Equal(t, before, h.d.Snapshot(), k.String())
				assert.Empty(t, h.sink.take(), k.String())
			}
		})
	}
}

func contains(ks []event.Kind, k event.Kind) bool {
	for _, x := range ks {
		if x == k {
			return true
		}
	}
	return false
}

func TestConcurrentEventsKeepIndexInRange(t *testing.T) {
	root, err := filepath.Abs("../nav/testdata/long")
	require.NoError(t, err)
	h := newHarness(t, root)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kinds := []event.Kind{event.Down, event.TimeChanged, event.Up, event.CurrentFrameChanged, event.Down}
			for j := 0; j < 50; j++ {
				assert.NoError(t, h.d.Handle(context.Background(), event.Event{Kind: kinds[(i+j)%len(kinds)]}))
				snap := h.d.Snapshot()
				assert.GreaterOrEqual(t, snap.Nav.Index, 0)
				assert.Less(t, snap.Nav.Index, snap.Nav.Count)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, Navigating, h.state())
}
