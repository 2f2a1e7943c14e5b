// Command mkraw converts still images into a raw RGB565 frame file that
// reelbox can play.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

func main() {
	var (
		outPath  = flag.String("out", "", "Output frame file (.raw).")
		width    = flag.Int("w", 320, "Frame width in pixels.")
		height   = flag.Int("h", 240, "Frame height in pixels.")
		hold     = flag.Int("hold", 1, "Frames written per input image.")
		bgr      = flag.Bool("bgr", false, "Write BGR565 instead of RGB565.")
		appendTo = flag.Bool("append", false, "Append to an existing output file.")
	)
	flag.Parse()

	if *outPath == "" || flag.NArg() == 0 {
		fatalf("usage: mkraw -out out.raw [-w 320] [-h 240] [-hold 1] [-bgr] [-append] image...")
	}
	if *width <= 0 || *height <= 0 || *hold <= 0 {
		fatalf("geometry and hold must be positive")
	}

	mode := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if *appendTo {
		mode = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	out, err := os.OpenFile(*outPath, mode, 0o644)
	if err != nil {
		fatalf("open output: %v", err)
	}
	w := bufio.NewWriter(out)

	enc := encoder{width: *width, height: *height, bgr: *bgr}
	frames := 0
	for _, p := range flag.Args() {
		img, err := imaging.Open(p, imaging.AutoOrientation(true))
		if err != nil {
			fatalf("%s: %v", p, err)
		}
		frame := enc.encode(img)
		for i := 0; i < *hold; i++ {
			if _, err := w.Write(frame); err != nil {
				fatalf("write: %v", err)
			}
			frames++
		}
	}
	if err := w.Flush(); err != nil {
		fatalf("write: %v", err)
	}
	if err := out.Close(); err != nil {
		fatalf("close: %v", err)
	}
	fmt.Fprintf(os.Stdout, "%s: %d frames of %dx%d (%d bytes each)\n", *outPath, frames, *width, *height, enc.frameBytes())
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

type encoder struct {
	width, height int
	bgr           bool
}

func (e encoder) frameBytes() int { return e.width * e.height * 2 }

// encode scales img to cover the frame, crops the overflow around the
// centre and packs it as little-endian 565.
func (e encoder) encode(img image.Image) []byte {
	fitted := imaging.Fill(img, e.width, e.height, imaging.Center, imaging.Lanczos)
	out := make([]byte, e.frameBytes())
	for y := 0; y < e.height; y++ {
		row := fitted.Pix[y*fitted.Stride:]
		for x := 0; x < e.width; x++ {
			r, g, b := row[x*4], row[x*4+1], row[x*4+2]
			if e.bgr {
				r, b = b, r
			}
			v := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
			i := (y*e.width + x) * 2
			out[i] = byte(v)
			out[i+1] = byte(v >> 8)
		}
	}
	return out
}
