// Package field implements the particle field: a pseudo-3D particle
// simulation drawn onto a 2D surface, with proximity lines between close
// particles and a fading trail, redrawn once per display refresh.
package field

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/iburimskiy/particle-field/internal/frame"
)

var (
	// ErrSurfaceUnavailable is returned when there is no surface to draw on.
	ErrSurfaceUnavailable = errors.New("field: drawing surface unavailable")
	// ErrNoScheduler is returned by Start without a frame scheduler.
	ErrNoScheduler = errors.New("field: no frame scheduler")
	// ErrInvalidOptions wraps every Options validation failure.
	ErrInvalidOptions = errors.New("field: invalid options")
)

// DefaultTrailAlpha is the opacity of the per-frame fade over the surface.
const DefaultTrailAlpha = 0.05

var (
	// DefaultAccent is the teal used for proximity lines.
	DefaultAccent = Color{R: 45, G: 212, B: 191}
	trailColor    = Color{}
)

// Strategy selects how proximity links are searched.
type Strategy int

const (
	Auto    Strategy = iota // Pairs up to GridThreshold particles, Buckets above
	Pairs                   // every unordered pair
	Buckets                 // spatial grid
)

// Options parameterise one field instance.
type Options struct {
	Particles    int
	BaseAlpha    float64 // peak line alpha, reached at distance 0
	LinkDistance float64 // zero means LinkDistance
	TrailAlpha   float64 // zero means DefaultTrailAlpha
	Accent       *Color  // nil means DefaultAccent; its alpha is ignored
	Strategy     Strategy
	Rand         *rand.Rand // nil seeds from the clock
}

func (o Options) withDefaults() (Options, error) {
	if o.Particles <= 0 {
		return o, fmt.Errorf("%w: particle count %d", ErrInvalidOptions, o.Particles)
	}
	if o.BaseAlpha < 0 || o.BaseAlpha > 1 {
		return o, fmt.Errorf("%w: base alpha %g outside [0,1]", ErrInvalidOptions, o.BaseAlpha)
	}
	if o.TrailAlpha < 0 || o.TrailAlpha > 1 {
		return o, fmt.Errorf("%w: trail alpha %g outside [0,1]", ErrInvalidOptions, o.TrailAlpha)
	}
	if o.LinkDistance < 0 {
		return o, fmt.Errorf("%w: link distance %g", ErrInvalidOptions, o.LinkDistance)
	}

	if o.LinkDistance == 0 {
		o.LinkDistance = LinkDistance
	}
	if o.TrailAlpha == 0 {
		o.TrailAlpha = DefaultTrailAlpha
	}
	if o.Accent == nil {
		o.Accent = &DefaultAccent
	}
	if o.Strategy == Auto {
		o.Strategy = Pairs
		if o.Particles > GridThreshold {
			o.Strategy = Buckets
		}
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	return o, nil
}

// Field owns one particle pool and its frame loop.
type Field struct {
	mu        sync.Mutex
	opts      Options
	accent    Color
	surface   Surface
	sched     Scheduler
	particles []Particle
	links     []Link
	grid      *Grid

	handle  frame.Handle
	running bool
	frames  uint64
}

// New creates a field and seeds its pool against the surface's current size.
// Nothing is drawn until Step or Start.
func New(surface Surface, opts Options) (*Field, error) {
	if surface == nil {
		return nil, ErrSurfaceUnavailable
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	w, h := surface.Size()
	f := &Field{
		opts:      opts,
		accent:    *opts.Accent,
		surface:   surface,
		particles: make([]Particle, opts.Particles),
	}
	for i := range f.particles {
		f.particles[i] = NewParticle(opts.Rand, float64(w), float64(h))
	}
	if opts.Strategy == Buckets {
		f.grid = NewGrid()
	}
	return f, nil
}

// Start creates a field, draws its first frame immediately and keeps
// redrawing it on every frame the scheduler delivers until Stop.
func Start(surface Surface, sched Scheduler, opts Options) (*Field, error) {
	if surface == nil {
		return nil, ErrSurfaceUnavailable
	}
	if sched == nil {
		return nil, ErrNoScheduler
	}
	f, err := New(surface, opts)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.sched = sched
	f.running = true
	f.mu.Unlock()

	f.tick()
	return f, nil
}

func (f *Field) tick() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.running {
		return
	}
	f.step()
	f.handle = f.sched.Request(f.tick)
}

// Step renders one frame without scheduling another.
func (f *Field) Step() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step()
}

func (f *Field) step() {
	w, h := f.surface.Size()
	fw, fh := float64(w), float64(h)

	f.surface.FillRect(0, 0, fw, fh, trailColor.WithAlpha(f.opts.TrailAlpha))

	for i := range f.particles {
		f.particles[i] = f.particles[i].Advance(fw, fh)
	}

	if f.grid != nil {
		f.links = f.grid.Links(f.links[:0], f.particles, f.opts.LinkDistance, f.opts.BaseAlpha)
	} else {
		f.links = PairLinks(f.links[:0], f.particles, f.opts.LinkDistance, f.opts.BaseAlpha)
	}
	for _, l := range f.links {
		a, b := f.particles[l.I], f.particles[l.J]
		f.surface.StrokeLine(a.X, a.Y, b.X, b.Y, l.Width, f.accent.WithAlpha(l.Alpha))
	}
	f.frames++
}

// Stop cancels the pending frame. It is safe to call more than once.
func (f *Field) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.running {
		return
	}
	f.running = false
	f.sched.Cancel(f.handle)
	f.handle = 0
}

// OnResize resizes the surface. Particles keep their positions; the next
// frame reflects them against the new bounds.
func (f *Field) OnResize(w, h int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.surface.SetSize(w, h)
}

// Running reports whether the field is scheduling frames.
func (f *Field) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Particles returns a copy of the pool.
func (f *Field) Particles() []Particle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.particles)
}

// Stats describes the most recent frame.
type Stats struct {
	Particles int
	Links     int
	Frames    uint64
}

// Stats returns the pool size, the link count of the last frame and the
// number of frames drawn so far.
func (f *Field) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Stats{Particles: len(f.particles), Links: len(f.links), Frames: f.frames}
}
