package render

import (
	"image/color"

	"reelbox/internal/media"
)

// Icons are 12x10 masks drawn at twice their size (24x20).
type iconMask struct {
	rows []string
	ink  color.RGBA
}

var (
	iconFolder = iconMask{ink: color.RGBA{R: 0xf4, G: 0xc4, B: 0x30, A: 0xff}, rows: []string{
		"............",
		".####.......",
		"#....#......",
		"#.....#####.",
		"#..........#",
		"#..........#",
		"#..........#",
		"#..........#",
		"############",
		"............",
	}}
	iconText = iconMask{ink: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, rows: []string{
		"..#######...",
		"..#.....##..",
		"..#.###.#.#.",
		"..#.....####",
		"..#.#####..#",
		"..#........#",
		"..#.#####..#",
		"..#........#",
		"..##########",
		"............",
	}}
	iconPlayable = iconMask{ink: color.RGBA{R: 0x7f, G: 0xe0, B: 0x7f, A: 0xff}, rows: []string{
		"............",
		"########....",
		"#......#..##",
		"#..#...#.###",
		"#..##..#####",
		"#..###.#####",
		"#..##..#####",
		"#..#...#.###",
		"#......#..##",
		"########....",
	}}
	iconUnknown = iconMask{ink: color.RGBA{R: 0xff, G: 0x80, B: 0x80, A: 0xff}, rows: []string{
		"....####....",
		"...#....#...",
		"..#......#..",
		"........#...",
		".......#....",
		"......#.....",
		"......#.....",
		"............",
		"......#.....",
		"............",
	}}
	iconCloud = iconMask{ink: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, rows: []string{
		"............",
		"....###.....",
		"...#...#....",
		"..#.....##..",
		".#........#.",
		"#..........#",
		"#..........#",
		".##########.",
		"............",
		"............",
	}}
	iconClock = iconMask{ink: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, rows: []string{
		"...######...",
		"..#......#..",
		".#...#....#.",
		"#....#.....#",
		"#....#.....#",
		"#....####..#",
		"#..........#",
		".#........#.",
		"..#......#..",
		"...######...",
	}}
)

func maskFor(kind media.IconKind) iconMask {
	switch kind {
	case media.Folder:
		return iconFolder
	case media.Text:
		return iconText
	case media.Playable:
		return iconPlayable
	default:
		return iconUnknown
	}
}

func (p *painter) icon(at Point, m iconMask) {
	for row, line := range m.rows {
		for col, ch := range line {
			if ch != '#' {
				continue
			}
			_ = p.d.FillRectangle(at.X+int16(col*2), at.Y+int16(row*2), 2, 2, m.ink)
		}
	}
}

// undrawIcon clears the whole icon cell to the background.
func (p *painter) undrawIcon(at Point) {
	_ = p.d.FillRectangle(at.X, at.Y, iconW, iconH, colorBG)
}
