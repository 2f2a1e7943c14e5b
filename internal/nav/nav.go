// Package nav is the directory browser: the current directory and
// selection, and the carousel diff that keeps the three visible slots in
// step with them.
package nav

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"reelbox/internal/media"
	"reelbox/internal/render"
)

var (
	ErrAboveRoot = errors.New("nav: can not leave the browse root")
	ErrEmpty     = errors.New("nav: directory is empty")
)

// Messages shown in the error modal.
const (
	MsgAboveRoot = "Can not leave the browse root."
	MsgEmpty     = "There are no files or directories in this path."
	MsgUnknown   = "Unknown error: File could not be opened."
	MsgFiletype  = "Filetype error: "
)

const pathLimit = 40

// Model is the navigation state. When Count > 0, 0 <= Index < Count.
type Model struct {
	Dir   string
	Index int
	Count int
}

// Counter is the "i/N" text of the top bar.
func (m Model) Counter() string {
	if m.Count == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", m.Index+1, m.Count)
}

func (m Model) clamp() Model {
	switch {
	case m.Count <= 0:
		m.Count, m.Index = 0, 0
	case m.Index >= m.Count:
		m.Index = m.Count - 1
	case m.Index < 0:
		m.Index = 0
	}
	return m
}

// Navigator re-reads the filesystem on every operation; it keeps no listing
// between calls.
type Navigator struct {
	root string
	home string
	cls  *media.Classifier
}

// New returns a Navigator confined to root. home is shown as "~" in paths.
func New(root, home string, cls *media.Classifier) *Navigator {
	return &Navigator{root: filepath.Clean(root), home: filepath.Clean(home), cls: cls}
}

// Root is the browse root.
func (n *Navigator) Root() string { return n.root }

type entry struct {
	name string
	path string
	info fs.FileInfo
	mode fs.FileMode
}

func (n *Navigator) list(dir string) ([]entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]entry, 0, len(des))
	for _, de := range des {
		e := entry{name: de.Name(), path: filepath.Join(dir, de.Name()), mode: de.Type()}
		if info, err := os.Stat(e.path); err == nil {
			e.info = info
			e.mode = info.Mode()
		} else if info, err := de.Info(); err == nil {
			e.info = info
		}
		out = append(out, e)
	}
	return out, nil
}

func at(es []entry, i int) *entry {
	if i < 0 || i >= len(es) {
		return nil
	}
	return &es[i]
}

// Open lists dir and selects its first entry.
func (n *Navigator) Open(dir string) (Model, error) {
	es, err := n.list(dir)
	if err != nil {
		return Model{}, err
	}
	return Model{Dir: filepath.Clean(dir), Count: len(es)}, nil
}

// Refresh re-lists m.Dir and pulls Index back into range.
func (n *Navigator) Refresh(m Model) (Model, error) {
	es, err := n.list(m.Dir)
	if err != nil {
		return m, err
	}
	m.Count = len(es)
	return m.clamp(), nil
}

// Background is the full navigation screen for m.
func (n *Navigator) Background(m Model, clock string) (render.NavigatingBackground, error) {
	es, err := n.list(m.Dir)
	if err != nil {
		return render.NavigatingBackground{}, err
	}
	m.Count = len(es)
	m = m.clamp()
	bg := render.NavigatingBackground{
		Path:    n.FormatDir(m.Dir),
		Counter: m.Counter(),
		Clock:   clock,
	}
	if m.Count > 0 {
		bg.Slots = [3]*render.Entry{
			n.slotEntry(at(es, m.Index-1), false),
			n.slotEntry(at(es, m.Index), true),
			n.slotEntry(at(es, m.Index+1), false),
		}
	}
	return bg, nil
}

func (n *Navigator) slotEntry(e *entry, current bool) *render.Entry {
	if e == nil {
		return nil
	}
	re := &render.Entry{Name: e.name, Icon: n.cls.Classify(e.name, e.mode)}
	if current {
		re.Size, re.Modified = meta(e)
	}
	return re
}

func meta(e *entry) (size, modified string) {
	if e.info == nil {
		return "?", "?"
	}
	return media.FormatBytes(e.info.Size()), media.FormatModTime(e.info.ModTime())
}

// FormatDir shortens a path for the top bar: the home directory becomes
// "~" and anything past 40 runes is cut with "...".
func (n *Navigator) FormatDir(dir string) string {
	s := filepath.Clean(dir)
	if n.home != "" && n.home != "." && n.home != "/" {
		if s == n.home {
			s = "~"
		} else if strings.HasPrefix(s, n.home+string(filepath.Separator)) {
			s = "~" + s[len(n.home):]
		}
	}
	if utf8.RuneCountInString(s) > pathLimit {
		s = string([]rune(s)[:pathLimit]) + "..."
	}
	return s
}
