package field

import (
	"image/color"
	"math"

	"github.com/iburimskiy/particle-field/internal/frame"
)

// Color is an 8-bit RGB colour with a fractional alpha, kept unquantised so
// recorded draw calls can be compared exactly.
type Color struct {
	R, G, B uint8
	A       float64 // 0..1
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// NRGBA quantises c to a non-premultiplied 8-bit colour.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(clamp01(c.A) * 255))}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// Surface is the 2D drawing target a Field renders into.
// Its size is owned by the host and may change between frames.
type Surface interface {
	Size() (w, h int)
	SetSize(w, h int)
	FillRect(x, y, w, h float64, c Color)
	StrokeLine(x0, y0, x1, y1, width float64, c Color)
}

// Scheduler requests a callback on the next display refresh.
type Scheduler interface {
	Request(cb func()) frame.Handle
	Cancel(h frame.Handle)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
