package main

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestEncodeSolidRed(t *testing.T) {
	enc := encoder{width: 4, height: 2}
	frame := enc.encode(solid(8, 4, color.NRGBA{R: 0xFF, A: 0xFF}))
	require.Len(t, frame, 16)
	for i := 0; i < len(frame); i += 2 {
		assert.Equal(t, uint16(0xF800), uint16(frame[i])|uint16(frame[i+1])<<8)
	}
}

func TestEncodeBGRSwapsChannels(t *testing.T) {
	enc := encoder{width: 2, height: 2, bgr: true}
	frame := enc.encode(solid(2, 2, color.NRGBA{R: 0xFF, A: 0xFF}))
	assert.Equal(t, uint16(0x001F), uint16(frame[0])|uint16(frame[1])<<8)
}

func TestEncodeCropsToFrame(t *testing.T) {
	enc := encoder{width: 3, height: 3}
	frame := enc.encode(solid(30, 10, color.NRGBA{G: 0xFF, A: 0xFF}))
	require.Len(t, frame, enc.frameBytes())
	assert.Equal(t, uint16(0x07E0), uint16(frame[8])|uint16(frame[9])<<8)
}
