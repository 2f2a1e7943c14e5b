package render

import (
	"image/color"
	"strings"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var textFont = &proggy.TinySZ8pt7b

const (
	// textAscent moves a top-left text position onto the font baseline.
	textAscent = int16(9)
	lineHeight = int16(12)
)

// painter draws the framebuffer screens.
type painter struct {
	d *fbDisplay
}

func writeText(d drivers.Displayer, at Point, s string, c color.RGBA) {
	tinyfont.WriteLine(d, textFont, at.X, at.Y+textAscent, s, c)
}

func (p *painter) text(t Text) {
	ink := colorInk
	switch {
	case t.Undraw:
		ink = colorBG
	case t.Selected:
		ink = colorHighlight
	}
	for i, line := range strings.Split(t.Content, "\n") {
		writeText(p.d, Point{X: t.At.X, Y: t.At.Y + int16(i)*lineHeight}, line, ink)
	}
}

func (p *painter) clear() {
	w, h := p.d.Size()
	_ = p.d.FillRectangle(0, 0, w, h, colorBG)
}

func (p *painter) navigating(c NavigatingBackground) {
	p.clear()

	p.d.outline(topBarAt, topBarW, topBarH, 1, colorInk)
	p.d.outline(containerAt, containerW, containerH, 2, colorContainer)
	p.d.outline(SlotBoxAt[SlotCurrent], slotW, slotH, 2, colorHighlight)

	p.icon(folderIconAt, iconFolder)
	p.icon(weatherIconAt, iconCloud)
	p.icon(clockIconAt, iconClock)

	writeText(p.d, CounterAt, c.Counter, colorInk)
	writeText(p.d, WeatherAt, "--", colorInk)
	writeText(p.d, ClockAt, c.Clock, colorInk)
	writeText(p.d, PathAt, c.Path, colorInk)

	for i, e := range c.Slots {
		if e == nil {
			continue
		}
		slot := Slot(i)
		p.icon(SlotIconAt[slot], maskFor(e.Icon))
		p.text(Text{Content: e.Name, At: SlotTextAt[slot], Selected: slot == SlotCurrent})
		if slot != SlotCurrent {
			continue
		}
		writeText(p.d, SizeLabelAt, SizeLabel, colorInk)
		writeText(p.d, ModifiedLabelAt, ModifiedLabel, colorInk)
		p.text(Text{Content: e.Size, At: SizeAt, Selected: true})
		p.text(Text{Content: e.Modified, At: ModifiedAt, Selected: true})
	}
}

func (p *painter) confirming(c ConfirmingBackground) {
	p.clear()
	p.d.outline(modalAt, modalW, modalH, 2, colorInk)
	p.text(Text{Content: Wrap(c.Message, modalWrap), At: modalTextAt})

	switch len(c.Options) {
	case 0:
	case 1:
		p.d.outline(okayBoxAt, optionBoxW, optionBoxH, 1, colorHighlight)
		writeText(p.d, Point{X: okayBoxAt.X + optionTextDx, Y: okayBoxAt.Y + optionTextDy}, c.Options[0], colorInk)
	default:
		writeText(p.d, Point{X: noBoxAt.X + optionTextDx, Y: noBoxAt.Y + optionTextDy}, c.Options[0], colorInk)
		writeText(p.d, Point{X: yesBoxAt.X + optionTextDx, Y: yesBoxAt.Y + optionTextDy}, c.Options[1], colorInk)
		if c.Selected == 1 {
			p.selectYes()
		} else {
			p.selectNo()
		}
	}
}

func (p *painter) selectYes() {
	p.d.outline(yesBoxAt, optionBoxW, optionBoxH, 1, colorHighlight)
	p.d.outline(noBoxAt, optionBoxW, optionBoxH, 1, colorBG)
}

func (p *painter) selectNo() {
	p.d.outline(yesBoxAt, optionBoxW, optionBoxH, 1, colorBG)
	p.d.outline(noBoxAt, optionBoxW, optionBoxH, 1, colorHighlight)
}

// Wrap breaks s into lines of at most width runes.
func Wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	rs := []rune(s)
	var b strings.Builder
	for i, r := range rs {
		b.WriteRune(r)
		if (i+1)%width == 0 && i+1 != len(rs) {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// statusInk is the pen for a status panel.
func statusInk(undraw bool) color.RGBA {
	if undraw {
		return colorStatusOff
	}
	return colorStatusOn
}
