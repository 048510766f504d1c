package game

import (
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/field"
)

// Section is one page section: a gradient background, an animated particle
// field on its own canvas and a title. A section whose canvas or field could
// not start keeps only its static background.
type Section struct {
	Name string

	width, height int

	bg         colorful.Color
	background *ebiten.Image
	canvas     *Canvas
	field      *field.Field
	title      *ebiten.Image
	entrance   titleEntrance
}

// fieldOptions maps a configured section onto field options. idx keeps
// seeded sections independent of each other.
func fieldOptions(conf *config.Config, s config.Section, idx int) (field.Options, error) {
	accent, err := config.ParseColor(conf.Accent)
	if err != nil {
		return field.Options{}, err
	}
	r, g, b := accent.RGB255()

	opts := field.Options{
		Particles:    s.Particles,
		BaseAlpha:    s.BaseAlpha,
		LinkDistance: conf.LinkDistance,
		TrailAlpha:   conf.TrailAlpha,
		Accent:       &field.Color{R: r, G: g, B: b},
	}
	switch conf.Strategy {
	case "", "auto":
		opts.Strategy = field.Auto
	case "pairs":
		opts.Strategy = field.Pairs
	case "grid":
		opts.Strategy = field.Buckets
	default:
		return field.Options{}, fmt.Errorf("%w: strategy %q", config.ErrInvalid, conf.Strategy)
	}
	if conf.Seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(conf.Seed, uint64(idx)))
	}
	return opts, nil
}

// newSection builds section idx of conf at w×h and starts its field on sched.
func newSection(conf *config.Config, idx int, sched field.Scheduler, w, h int) *Section {
	sc := conf.Sections[idx]
	s := &Section{
		Name:     sc.Name,
		width:    w,
		height:   h,
		title:    renderTitle(sc.Title),
		entrance: newTitleEntrance(ebiten.DefaultTPS, config.TitleFrequency, config.TitleDamping),
	}
	if bg, err := config.ParseColor(sc.Background); err == nil {
		s.bg = bg
	}
	s.renderBackground(w, h)

	if err := s.start(conf, idx, sched, w, h); err != nil {
		log.Printf("Section %s: animation disabled: %v", s.Name, err)
		return s
	}
	log.Printf("Section %s: %d particles at %dx%d", s.Name, sc.Particles, w, h)
	return s
}

func (s *Section) start(conf *config.Config, idx int, sched field.Scheduler, w, h int) error {
	opts, err := fieldOptions(conf, conf.Sections[idx], idx)
	if err != nil {
		return err
	}
	canvas, err := NewCanvas(w, h)
	if err != nil {
		return err
	}
	f, err := field.Start(canvas, sched, opts)
	if err != nil {
		canvas.Release()
		return err
	}
	s.canvas, s.field = canvas, f
	return nil
}

func (s *Section) renderBackground(w, h int) {
	if !validSize(w, h) {
		return
	}
	if s.background != nil {
		s.background.Deallocate()
	}
	s.background = ebiten.NewImage(w, h)
	for y := 0; y < h; y++ {
		vector.DrawFilledRect(s.background, 0, float32(y), float32(w), 1, gradientAt(s.bg, y, h), false)
	}
}

// Animated reports whether the section's field is running.
func (s *Section) Animated() bool {
	return s.field != nil && s.field.Running()
}

// Stats returns the field's frame statistics; zero for a static section.
func (s *Section) Stats() field.Stats {
	if s.field == nil {
		return field.Stats{}
	}
	return s.field.Stats()
}

// Resize forwards a new viewport size to the field. The background is
// redrawn at that size on the next Draw. Non-positive sizes are ignored.
func (s *Section) Resize(w, h int) {
	if !validSize(w, h) {
		return
	}
	s.width, s.height = w, h
	if s.field != nil {
		s.field.OnResize(w, h)
	}
}

func (s *Section) Draw(screen *ebiten.Image) {
	if s.background == nil || s.background.Bounds().Dx() != s.width || s.background.Bounds().Dy() != s.height {
		s.renderBackground(s.width, s.height)
	}
	if s.background != nil {
		screen.DrawImage(s.background, nil)
	}
	if s.canvas != nil {
		screen.DrawImage(s.canvas.Image(), nil)
	}
	b := screen.Bounds()
	drawTitle(screen, s.title, float64(b.Dx())/2, float64(b.Dy())/2, &s.entrance)
}

// Close stops the field and releases the section's images.
func (s *Section) Close() {
	if s.field != nil {
		s.field.Stop()
		s.field = nil
	}
	for _, img := range []*ebiten.Image{s.background, s.title} {
		if img != nil {
			img.Deallocate()
		}
	}
	if s.canvas != nil {
		s.canvas.Release()
		s.canvas = nil
	}
	s.background, s.title = nil, nil
}
