package render

import "image/color"

// Navigation screen positions for a 320x240 framebuffer.
var (
	CounterAt = Point{X: 46, Y: 18}
	WeatherAt = Point{X: 164, Y: 18}
	ClockAt   = Point{X: 244, Y: 18}
	PathAt    = Point{X: 14, Y: 60}

	SlotBoxAt  = [3]Point{{X: 40, Y: 90}, {X: 40, Y: 140}, {X: 40, Y: 190}}
	SlotTextAt = [3]Point{{X: 76, Y: 105}, {X: 76, Y: 143}, {X: 76, Y: 205}}
	SlotIconAt = [3]Point{{X: 46, Y: 100}, {X: 46, Y: 150}, {X: 46, Y: 200}}

	SizeLabelAt     = Point{X: 76, Y: 155}
	SizeAt          = Point{X: 112, Y: 155}
	ModifiedLabelAt = Point{X: 76, Y: 167}
	ModifiedAt      = Point{X: 172, Y: 167}
)

// Status panel positions.
var (
	StateLabelAt  = Point{X: 0, Y: 0}
	TimestampAt   = Point{X: 0, Y: 2}
	VolumeLabelAt = Point{X: 0, Y: 20}
	VolumeAt      = Point{X: 56, Y: 20}
)

const (
	// StateScreen shows the state label; MediaScreen shows timestamp and volume.
	StateScreen = 0
	MediaScreen = 1
)

const (
	SizeLabel     = "Size"
	ModifiedLabel = "Last modified"
	VolumeLabel   = "Volume:"
)

var (
	topBarAt      = Point{X: 10, Y: 10}
	topBarW       = int16(300)
	topBarH       = int16(40)
	containerAt   = Point{X: 25, Y: 82}
	containerW    = int16(270)
	containerH    = int16(154)
	slotW         = int16(250)
	slotH         = int16(40)
	folderIconAt  = Point{X: 16, Y: 20}
	weatherIconAt = Point{X: 136, Y: 20}
	clockIconAt   = Point{X: 216, Y: 20}

	modalAt      = Point{X: 40, Y: 40}
	modalW       = int16(240)
	modalH       = int16(160)
	modalTextAt  = Point{X: 60, Y: 60}
	modalWrap    = 30
	okayBoxAt    = Point{X: 140, Y: 160}
	noBoxAt      = Point{X: 110, Y: 160}
	yesBoxAt     = Point{X: 170, Y: 160}
	optionBoxW   = int16(40)
	optionBoxH   = int16(20)
	optionTextDx = int16(6)
	optionTextDy = int16(4)
)

const (
	iconW = 24
	iconH = 20
)

var (
	colorBG        = color.RGBA{R: 0xa9, G: 0xa9, B: 0xa9, A: 0xff}
	colorInk       = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorHighlight = color.RGBA{R: 0x87, G: 0xce, B: 0xeb, A: 0xff}
	colorContainer = color.RGBA{R: 0xad, G: 0xd8, B: 0xe6, A: 0xff}
	colorStatusOn  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorStatusOff = color.RGBA{A: 0xff}
)
