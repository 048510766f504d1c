package game

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/particle-field/internal/field"
)

var ErrCanvasUnavailable = errors.New("game: canvas unavailable")

// Canvas is an offscreen ebiten image a field draws into. It is never cleared
// between frames, so the field's translucent overlay leaves fading trails.
type Canvas struct {
	img  *ebiten.Image
	w, h int
}

func NewCanvas(w, h int) (*Canvas, error) {
	if !validSize(w, h) {
		return nil, fmt.Errorf("%w: size %dx%d", ErrCanvasUnavailable, w, h)
	}
	return &Canvas{img: ebiten.NewImage(w, h), w: w, h: h}, nil
}

func (c *Canvas) Size() (int, int) { return c.w, c.h }

// SetSize reallocates the image, dropping its content the way a resized
// browser canvas does. Non-positive sizes (a minimised window) are ignored.
func (c *Canvas) SetSize(w, h int) {
	if !validSize(w, h) || (w == c.w && h == c.h) {
		return
	}
	c.img.Deallocate()
	c.img = ebiten.NewImage(w, h)
	c.w, c.h = w, h
}

func (c *Canvas) FillRect(x, y, w, h float64, col field.Color) {
	vector.DrawFilledRect(c.img, float32(x), float32(y), float32(w), float32(h), col, false)
}

func (c *Canvas) StrokeLine(x0, y0, x1, y1, width float64, col field.Color) {
	vector.StrokeLine(c.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), col, true)
}

func (c *Canvas) Image() *ebiten.Image { return c.img }

func (c *Canvas) Release() {
	c.img.Deallocate()
}

func validSize(w, h int) bool {
	return w > 0 && h > 0
}
