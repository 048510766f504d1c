package game

import (
	"github.com/charmbracelet/harmonica"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	titleMinScale = 0.5
	titleZoom     = 3 // debug font is 6x16, far too small for a headline
)

// titleEntrance springs a section title from half size and transparent to
// full size and opaque, overshooting slightly like the page's intro animation.
type titleEntrance struct {
	spring   harmonica.Spring
	progress float64
	velocity float64
}

func newTitleEntrance(tps int, frequency, damping float64) titleEntrance {
	return titleEntrance{spring: harmonica.NewSpring(harmonica.FPS(tps), frequency, damping)}
}

func (t *titleEntrance) restart() {
	t.progress, t.velocity = 0, 0
}

func (t *titleEntrance) update() {
	t.progress, t.velocity = t.spring.Update(t.progress, t.velocity, 1)
}

func (t *titleEntrance) scale() float64 {
	return titleMinScale + (1-titleMinScale)*t.progress
}

func (t *titleEntrance) opacity() float64 {
	return clamp01(t.progress)
}

// renderTitle prints text into a fresh image sized to the debug font.
func renderTitle(text string) *ebiten.Image {
	if text == "" {
		return nil
	}
	img := ebiten.NewImage(len(text)*6, 16)
	ebitenutil.DebugPrint(img, text)
	return img
}

// drawTitle draws a rendered title centred at (cx, cy) with the entrance applied.
func drawTitle(screen, title *ebiten.Image, cx, cy float64, t *titleEntrance) {
	if title == nil {
		return
	}
	b := title.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	s := t.scale() * titleZoom
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-w/2, -h/2)
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(cx, cy)
	op.ColorScale.ScaleAlpha(float32(t.opacity()))
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(title, op)
}
