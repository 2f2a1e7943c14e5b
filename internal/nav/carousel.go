package nav

import (
	"fmt"
	"path/filepath"

	"reelbox/internal/media"
	"reelbox/internal/render"
)

// slotCommands draws or undraws one carousel slot. The current slot also
// carries the size and modification time of its entry.
func (n *Navigator) slotCommands(slot render.Slot, e *entry, undraw bool) []render.Command {
	if e == nil {
		return nil
	}
	kind := n.cls.Classify(e.name, e.mode)
	if slot != render.SlotCurrent {
		return []render.Command{
			render.Icon{At: render.SlotIconAt[slot], Kind: kind, Undraw: undraw},
			render.Text{Content: e.name, At: render.SlotTextAt[slot], Undraw: undraw},
		}
	}
	size, modified := meta(e)
	return []render.Command{
		render.Text{Content: size, At: render.SizeAt, Undraw: undraw, Selected: true},
		render.Text{Content: modified, At: render.ModifiedAt, Undraw: undraw, Selected: true},
		render.Icon{At: render.SlotIconAt[slot], Kind: kind, Undraw: undraw},
		render.Text{Content: e.name, At: render.SlotTextAt[slot], Undraw: undraw, Selected: true},
	}
}

// window undraws or draws the three slots around index i.
func (n *Navigator) window(es []entry, i int, undraw bool) []render.Command {
	var cmds []render.Command
	cmds = append(cmds, n.slotCommands(render.SlotNext, at(es, i+1), undraw)...)
	cmds = append(cmds, n.slotCommands(render.SlotCurrent, at(es, i), undraw)...)
	cmds = append(cmds, n.slotCommands(render.SlotPrev, at(es, i-1), undraw)...)
	return cmds
}

func counterText(s string, undraw bool) render.Command {
	return render.Text{Content: s, At: render.CounterAt, Undraw: undraw}
}

func (n *Navigator) pathText(dir string, undraw bool) render.Command {
	return render.Text{Content: n.FormatDir(dir), At: render.PathAt, Undraw: undraw}
}

// ScrollUp moves the selection one entry back. At index 0, or with fewer
// than two entries, it changes nothing and returns no commands.
func (n *Navigator) ScrollUp(m Model) (Model, []render.Command, error) {
	es, err := n.list(m.Dir)
	if err != nil {
		return m, nil, err
	}
	m.Count = len(es)
	m = m.clamp()
	if m.Count <= 1 || m.Index == 0 {
		return m, nil, nil
	}

	i := m.Index
	var cmds []render.Command
	// Every visible slot changes role, so all three go.
	cmds = append(cmds, n.slotCommands(render.SlotPrev, at(es, i-1), true)...)
	cmds = append(cmds, n.slotCommands(render.SlotCurrent, at(es, i), true)...)
	cmds = append(cmds, n.slotCommands(render.SlotNext, at(es, i+1), true)...)

	cmds = append(cmds, n.slotCommands(render.SlotNext, at(es, i), false)...)
	cmds = append(cmds, n.slotCommands(render.SlotCurrent, at(es, i-1), false)...)
	cmds = append(cmds, n.slotCommands(render.SlotPrev, at(es, i-2), false)...)

	before := m.Counter()
	m.Index--
	cmds = append(cmds, counterText(before, true), counterText(m.Counter(), false))
	return m, cmds, nil
}

// ScrollDown moves the selection one entry forward. At the last index, or
// with fewer than two entries, it changes nothing and returns no commands.
func (n *Navigator) ScrollDown(m Model) (Model, []render.Command, error) {
	es, err := n.list(m.Dir)
	if err != nil {
		return m, nil, err
	}
	m.Count = len(es)
	m = m.clamp()
	if m.Count <= 1 || m.Index >= m.Count-1 {
		return m, nil, nil
	}

	i := m.Index
	var cmds []render.Command
	cmds = append(cmds, n.slotCommands(render.SlotNext, at(es, i+1), true)...)
	cmds = append(cmds, n.slotCommands(render.SlotCurrent, at(es, i), true)...)
	cmds = append(cmds, n.slotCommands(render.SlotPrev, at(es, i-1), true)...)

	cmds = append(cmds, n.slotCommands(render.SlotPrev, at(es, i), false)...)
	cmds = append(cmds, n.slotCommands(render.SlotCurrent, at(es, i+1), false)...)
	cmds = append(cmds, n.slotCommands(render.SlotNext, at(es, i+2), false)...)

	before := m.Counter()
	m.Index++
	cmds = append(cmds, counterText(before, true), counterText(m.Counter(), false))
	return m, cmds, nil
}

// SelectionKind says what Select found under the cursor.
type SelectionKind uint8

const (
	// Entered means the selection was a directory and the model now points into it.
	Entered SelectionKind = iota + 1
	// Picked means the selection was a regular file with an extension.
	Picked
	// Rejected means nothing could be selected; Message explains why.
	Rejected
)

// Selection is the outcome of Select.
type Selection struct {
	Kind    SelectionKind
	File    media.FileDetails
	Message string
}

// Select acts on the entry under the cursor. Directories are entered and
// come back with their redraw commands; files are described for the caller
// to decide on. An empty directory yields ErrEmpty.
func (n *Navigator) Select(m Model) (Model, []render.Command, Selection, error) {
	es, err := n.list(m.Dir)
	if err != nil {
		return m, nil, Selection{}, err
	}
	m.Count = len(es)
	m = m.clamp()
	cur := at(es, m.Index)
	if m.Count == 0 || cur == nil {
		return m, nil, Selection{}, ErrEmpty
	}
	if cur.info == nil {
		return m, nil, Selection{Kind: Rejected, Message: MsgUnknown}, nil
	}

	switch {
	case cur.info.IsDir():
		inner, err := n.list(cur.path)
		if err != nil {
			return m, nil, Selection{Kind: Rejected, Message: MsgUnknown}, nil
		}
		var cmds []render.Command
		cmds = append(cmds, counterText(m.Counter(), true), n.pathText(m.Dir, true))
		cmds = append(cmds, n.window(es, m.Index, true)...)

		next := Model{Dir: cur.path, Index: 0, Count: len(inner)}
		cmds = append(cmds, counterText(next.Counter(), false))
		cmds = append(cmds, n.window(inner, 0, false)...)
		cmds = append(cmds, n.pathText(next.Dir, false))
		return next, cmds, Selection{Kind: Entered, File: media.Describe(cur.path, cur.info)}, nil

	case cur.info.Mode().IsRegular() && media.Extension(cur.name) != "":
		return m, nil, Selection{Kind: Picked, File: media.Describe(cur.path, cur.info)}, nil

	default:
		return m, nil, Selection{Kind: Rejected, Message: MsgFiletype + cur.name}, nil
	}
}

// Exit moves to the parent directory and selects its first entry. It
// returns ErrAboveRoot at the browse root and the listing error if the
// parent can not be read. clock is only needed when the directory being
// left is gone and the whole screen has to be repainted.
func (n *Navigator) Exit(m Model, clock string) (Model, []render.Command, error) {
	dir := filepath.Clean(m.Dir)
	if dir == n.root || !within(n.root, dir) {
		return m, nil, ErrAboveRoot
	}
	parent := filepath.Dir(dir)
	outer, err := n.list(parent)
	if err != nil {
		return m, nil, fmt.Errorf("list %s: %w", parent, err)
	}
	next := Model{Dir: parent, Index: 0, Count: len(outer)}

	es, err := n.list(dir)
	if err != nil {
		// The old screen can not be reproduced for undrawing.
		bg, err := n.Background(next, clock)
		if err != nil {
			return m, nil, fmt.Errorf("list %s: %w", parent, err)
		}
		return next, []render.Command{bg}, nil
	}
	m.Count = len(es)
	m = m.clamp()
	var cmds []render.Command
	cmds = append(cmds, counterText(m.Counter(), true), n.pathText(dir, true))
	cmds = append(cmds, n.window(es, m.Index, true)...)
	cmds = append(cmds, counterText(next.Counter(), false))
	cmds = append(cmds, n.window(outer, 0, false)...)
	cmds = append(cmds, n.pathText(parent, false))
	return next, cmds, nil
}

// Recover re-lists m.Dir. When it can no longer be read, the nearest
// readable ancestor inside the browse root is opened instead. It fails only
// when the root itself is unreadable.
func (n *Navigator) Recover(m Model) (Model, error) {
	if r, err := n.Refresh(m); err == nil {
		return r, nil
	}
	dir := filepath.Clean(m.Dir)
	for dir != n.root && within(n.root, dir) {
		dir = filepath.Dir(dir)
		if next, err := n.Open(dir); err == nil {
			return next, nil
		}
	}
	next, err := n.Open(n.root)
	if err != nil {
		return m, fmt.Errorf("browse root: %w", err)
	}
	return next, nil
}

func within(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	return rel != ".." && !filepath.IsAbs(rel) && !startsWithDotDot(rel)
}

func startsWithDotDot(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
