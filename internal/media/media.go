// Package media classifies directory entries and describes selected files.
package media

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

// IconKind is the icon drawn next to a directory entry.
type IconKind uint8

const (
	Unknown IconKind = iota
	Folder
	Text
	Playable
)

func (k IconKind) String() string {
	switch k {
	case Folder:
		return "folder"
	case Text:
		return "text"
	case Playable:
		return "playable"
	default:
		return "unknown"
	}
}

// Classifier maps entry names onto icon kinds and decides what can be played.
type Classifier struct {
	text     []glob.Glob
	video    []glob.Glob
	playable []glob.Glob
}

// NewClassifier compiles the text, video-icon and playable pattern sets.
func NewClassifier(text, video, playable []string) (*Classifier, error) {
	c := &Classifier{}
	var err error
	if c.text, err = compile(text); err != nil {
		return nil, err
	}
	if c.video, err = compile(video); err != nil {
		return nil, err
	}
	if c.playable, err = compile(playable); err != nil {
		return nil, err
	}
	return c, nil
}

func compile(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, fmt.Errorf("media pattern %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

func matchAny(gs []glob.Glob, name string) bool {
	name = strings.ToLower(name)
	for _, g := range gs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Classify picks the icon for an entry. Directories are folders; a file
// without an extension is always Unknown.
func (c *Classifier) Classify(name string, mode fs.FileMode) IconKind {
	switch {
	case mode.IsDir():
		return Folder
	case Extension(name) == "":
		return Unknown
	case matchAny(c.text, name):
		return Text
	case matchAny(c.video, name):
		return Playable
	default:
		return Unknown
	}
}

// CanPlay reports whether Select should offer to play the file.
func (c *Classifier) CanPlay(name string) bool {
	return matchAny(c.playable, name)
}

// Extension is the name's extension without the dot, or "" if it has none.
// Dotfiles such as ".bashrc" count their suffix as the extension.
func Extension(name string) string {
	ext := filepath.Ext(name)
	if len(ext) <= 1 {
		return ""
	}
	return ext[1:]
}

// FileDetails describes the entry a modal was opened for.
type FileDetails struct {
	Path         string
	Name         string
	Extension    string
	Size         int64
	IsDir        bool
	LastModified string
}

// ModTimeLayout formats modification times on the navigation screen.
const ModTimeLayout = "01-02-2006, 3:04pm"

// Describe builds FileDetails from a path and its FileInfo.
func Describe(path string, info fs.FileInfo) FileDetails {
	return FileDetails{
		Path:         path,
		Name:         info.Name(),
		Extension:    Extension(info.Name()),
		Size:         info.Size(),
		IsDir:        info.IsDir(),
		LastModified: FormatModTime(info.ModTime()),
	}
}

// FormatModTime renders t in local time with ModTimeLayout.
func FormatModTime(t time.Time) string {
	return t.Local().Format(ModTimeLayout)
}

// FormatBytes renders n with binary units ("512 B", "1.5 KiB").
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 4; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTP"[exp])
}
