// Package game hosts particle-field sections in an ebiten window.
package game

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/frame"
)

var (
	buttonBase   = colorful.Color{R: 100.0 / 255, G: 120.0 / 255, B: 160.0 / 255}
	buttonBorder = colorful.Color{R: 150.0 / 255, G: 170.0 / 255, B: 200.0 / 255}
)

const hudLineHeight = 16

var sectionKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// Game runs every section's field each tick and shows one section at a time.
// Its frame queue plays the part of the browser's animation-frame callbacks.
type Game struct {
	conf     *config.Config
	frames   *frame.Queue
	sections []*Section
	active   int

	width, height int

	// input edge detection
	prevKey map[ebiten.Key]bool

	// button state
	buttonHovered bool
	buttonPressed bool

	// state
	elapsed time.Duration
	paused  bool
	lastErr error

	// one HUD text line, tinted when drawn
	hud *ebiten.Image
}

func NewGame(conf *config.Config) *Game {
	g := &Game{
		frames:  frame.NewQueue(),
		width:   conf.Width,
		height:  conf.Height,
		prevKey: map[ebiten.Key]bool{},
	}
	g.apply(conf)
	return g
}

// apply replaces all sections with fresh ones built from conf.
func (g *Game) apply(conf *config.Config) {
	g.Close()
	g.conf = conf
	g.sections = make([]*Section, len(conf.Sections))
	for i := range conf.Sections {
		g.sections[i] = newSection(conf, i, g.frames, g.width, g.height)
	}
	g.active = 0
}

// Close stops every field. Frames still queued for them become no-ops.
func (g *Game) Close() {
	for _, s := range g.sections {
		s.Close()
	}
	g.sections = nil
	if g.hud != nil {
		g.hud.Deallocate()
		g.hud = nil
	}
}

func (g *Game) selectSection(i int) {
	if i < 0 || i >= len(g.sections) || i == g.active {
		return
	}
	g.active = i
	g.sections[i].entrance.restart()
}

func nextIndex(cur, n int) int {
	if n == 0 {
		return 0
	}
	return (cur + 1) % n
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	// Handle button interactions
	mouseX, mouseY := ebiten.CursorPosition()
	g.buttonHovered = mouseX >= config.ButtonX && mouseX <= config.ButtonX+config.ButtonWidth &&
		mouseY >= config.ButtonY && mouseY <= config.ButtonY+config.ButtonHeight

	if g.buttonHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.buttonPressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.buttonPressed && g.buttonHovered {
			g.lastErr = g.openPresetDialog()
		}
		g.buttonPressed = false
	}

	if justPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if justPressed(ebiten.KeyTab) {
		g.selectSection(nextIndex(g.active, len(g.sections)))
	}
	for i, k := range sectionKeys {
		if justPressed(k) {
			g.selectSection(i)
		}
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		g.Close()
		return ebiten.Termination
	}

	if len(g.sections) > 0 {
		g.sections[g.active].entrance.update()
	}
	if !g.paused {
		g.frames.Flush()
		g.elapsed += time.Second / ebiten.DefaultTPS
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if len(g.sections) == 0 {
		return
	}
	sec := g.sections[g.active]
	sec.Draw(screen)

	g.drawButton(screen)

	g.drawHUD(screen, g.statusLine(), 12, 12)
	g.drawHUD(screen, g.statsLine(), 12, g.height-24)
}

func (g *Game) statusLine() string {
	status := "Playing - Space to pause, " + config.SectionKeysHint + " to switch, click button to load a preset"
	if g.paused {
		status = "Paused - Space to resume"
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	return status
}

// drawHUD prints one line of text at (x, y) in the current HUD tint.
func (g *Game) drawHUD(screen *ebiten.Image, text string, x, y int) {
	if !validSize(g.width, hudLineHeight) {
		return
	}
	if g.hud == nil || g.hud.Bounds().Dx() != g.width {
		if g.hud != nil {
			g.hud.Deallocate()
		}
		g.hud = ebiten.NewImage(g.width, hudLineHeight)
	}
	g.hud.Clear()
	ebitenutil.DebugPrint(g.hud, text)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(hudTint(g.elapsed))
	screen.DrawImage(g.hud, op)
}

func (g *Game) statsLine() string {
	sec := g.sections[g.active]
	mode := "static"
	if sec.Animated() {
		st := sec.Stats()
		mode = fmt.Sprintf("particles %d  links %d", st.Particles, st.Links)
	}
	return fmt.Sprintf("[%d/%d] %s  %s  TPS %.0f  %s",
		g.active+1, len(g.sections), sec.Name, mode, ebiten.ActualTPS(), formatDuration(g.elapsed))
}

func (g *Game) drawButton(screen *ebiten.Image) {
	bgColor := buttonBase
	if g.buttonPressed {
		bgColor = shade(buttonBase, 0.3)
	} else if g.buttonHovered {
		bgColor = shade(buttonBase, 0.15)
	}

	vector.DrawFilledRect(screen, config.ButtonX, config.ButtonY, config.ButtonWidth, config.ButtonHeight, bgColor, false)
	vector.StrokeRect(screen, config.ButtonX, config.ButtonY, config.ButtonWidth, config.ButtonHeight, 2, buttonBorder, false)

	text := "Open Preset"
	textWidth := len(text) * 6
	textX := config.ButtonX + (config.ButtonWidth-textWidth)/2
	textY := config.ButtonY + (config.ButtonHeight-16)/2
	ebitenutil.DebugPrintAt(screen, text, textX, textY)
}

// Layout follows the window size and forwards changes to every section.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if !validSize(outsideWidth, outsideHeight) {
		return g.width, g.height
	}
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		for _, s := range g.sections {
			s.Resize(g.width, g.height)
		}
	}
	return g.width, g.height
}
