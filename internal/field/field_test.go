package field

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/iburimskiy/particle-field/internal/frame"
)

type fillCall struct {
	x, y, w, h float64
	c          Color
}

type lineCall struct {
	x0, y0, x1, y1 float64
	width          float64
	c              Color
}

// recordingSurface records draw calls instead of rasterising them.
type recordingSurface struct {
	w, h  int
	fills []fillCall
	lines []lineCall
}

func newRecordingSurface(w, h int) *recordingSurface {
	return &recordingSurface{w: w, h: h}
}

func (s *recordingSurface) Size() (int, int) { return s.w, s.h }
func (s *recordingSurface) SetSize(w, h int) { s.w, s.h = w, h }

func (s *recordingSurface) reset() {
	s.fills, s.lines = nil, nil
}

func (s *recordingSurface) FillRect(x, y, w, h float64, c Color) {
	s.fills = append(s.fills, fillCall{x, y, w, h, c})
}

func (s *recordingSurface) StrokeLine(x0, y0, x1, y1, width float64, c Color) {
	s.lines = append(s.lines, lineCall{x0, y0, x1, y1, width, c})
}

// manualScheduler hands out handles but never cancels, so tests can fire stale callbacks.
type manualScheduler struct {
	next      frame.Handle
	callbacks []func()
	cancelled []frame.Handle
}

func (m *manualScheduler) Request(cb func()) frame.Handle {
	m.next++
	m.callbacks = append(m.callbacks, cb)
	return m.next
}

func (m *manualScheduler) Cancel(h frame.Handle) {
	m.cancelled = append(m.cancelled, h)
}

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(2024, 6))
}

func TestStart_Errors(t *testing.T) {
	q := frame.NewQueue()
	surf := newRecordingSurface(800, 600)

	if _, err := Start(nil, q, Options{Particles: 10, BaseAlpha: 0.1}); !errors.Is(err, ErrSurfaceUnavailable) {
		t.Errorf("nil surface: err = %v, want ErrSurfaceUnavailable", err)
	}
	if _, err := Start(surf, nil, Options{Particles: 10, BaseAlpha: 0.1}); !errors.Is(err, ErrNoScheduler) {
		t.Errorf("nil scheduler: err = %v, want ErrNoScheduler", err)
	}

	bad := []Options{
		{Particles: 0, BaseAlpha: 0.1},
		{Particles: -5, BaseAlpha: 0.1},
		{Particles: 10, BaseAlpha: 1.5},
		{Particles: 10, BaseAlpha: -0.1},
		{Particles: 10, BaseAlpha: 0.1, TrailAlpha: 2},
		{Particles: 10, BaseAlpha: 0.1, LinkDistance: -1},
	}
	for _, opts := range bad {
		if _, err := Start(surf, q, opts); !errors.Is(err, ErrInvalidOptions) {
			t.Errorf("%+v: err = %v, want ErrInvalidOptions", opts, err)
		}
	}

	if len(surf.fills) != 0 || len(surf.lines) != 0 || q.Pending() != 0 {
		t.Errorf("failed starts drew or scheduled: fills=%d lines=%d pending=%d", len(surf.fills), len(surf.lines), q.Pending())
	}
}

func TestStart_FirstFrameIsImmediate(t *testing.T) {
	q := frame.NewQueue()
	surf := newRecordingSurface(800, 600)

	f, err := Start(surf, q, Options{Particles: 150, BaseAlpha: 0.1, Rand: seeded()})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer f.Stop()

	if got := f.Stats().Frames; got != 1 {
		t.Errorf("frames after Start = %d, want 1", got)
	}
	if q.Pending() != 1 {
		t.Errorf("pending = %d, want next frame requested", q.Pending())
	}

	for i := 0; i < 5; i++ {
		q.Flush()
	}
	if got := f.Stats().Frames; got != 6 {
		t.Errorf("frames after 5 flushes = %d, want 6", got)
	}
}

func TestStep_TrailFillCoversSurface(t *testing.T) {
	surf := newRecordingSurface(640, 480)
	f, err := New(surf, Options{Particles: 3, BaseAlpha: 0.1, Rand: seeded()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	f.Step()

	if len(surf.fills) != 1 {
		t.Fatalf("fills = %d, want 1", len(surf.fills))
	}
	want := fillCall{0, 0, 640, 480, Color{A: DefaultTrailAlpha}}
	if surf.fills[0] != want {
		t.Errorf("fill = %+v, want %+v", surf.fills[0], want)
	}
}

func TestStep_StaticPairDrawsOneLinePerFrame(t *testing.T) {
	const baseAlpha = 0.2
	surf := newRecordingSurface(800, 600)
	f, err := New(surf, Options{Particles: 2, BaseAlpha: baseAlpha, Rand: seeded()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.particles[0] = Particle{X: 100, Y: 100, Z: 500}
	f.particles[1] = Particle{X: 150, Y: 100, Z: 500}

	wantAlpha := baseAlpha * (120 - 50) / 120.0
	for n := 0; n < 4; n++ {
		surf.reset()
		f.Step()

		if len(surf.lines) != 1 {
			t.Fatalf("frame %d: lines = %d, want 1", n, len(surf.lines))
		}
		l := surf.lines[0]
		if l.x0 != 100 || l.y0 != 100 || l.x1 != 150 || l.y1 != 100 {
			t.Errorf("frame %d: line (%g,%g)-(%g,%g)", n, l.x0, l.y0, l.x1, l.y1)
		}
		if math.Abs(l.c.A-wantAlpha) > 1e-12 {
			t.Errorf("frame %d: alpha = %g, want %g", n, l.c.A, wantAlpha)
		}
		if math.Abs(l.width-70.0/120) > 1e-12 {
			t.Errorf("frame %d: width = %g, want %g", n, l.width, 70.0/120)
		}
		if l.c.R != 45 || l.c.G != 212 || l.c.B != 191 {
			t.Errorf("frame %d: colour %+v, want accent teal", n, l.c)
		}
	}
	if got := f.Stats().Links; got != 1 {
		t.Errorf("stats links = %d, want 1", got)
	}
}

func TestStep_AccentColour(t *testing.T) {
	tests := []struct {
		name   string
		accent *Color
		want   Color
	}{
		{"unset", nil, DefaultAccent},
		{"black", &Color{}, Color{}},
		{"orange", &Color{R: 255, G: 136, A: 0.7}, Color{R: 255, G: 136}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surf := newRecordingSurface(800, 600)
			f, err := New(surf, Options{Particles: 2, BaseAlpha: 0.2, Accent: tt.accent, Rand: seeded()})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			f.particles[0] = Particle{X: 100, Y: 100, Z: 500}
			f.particles[1] = Particle{X: 150, Y: 100, Z: 500}

			f.Step()

			if len(surf.lines) != 1 {
				t.Fatalf("lines = %d, want 1", len(surf.lines))
			}
			c := surf.lines[0].c
			if c.R != tt.want.R || c.G != tt.want.G || c.B != tt.want.B {
				t.Errorf("colour %+v, want %+v", c, tt.want)
			}
		})
	}
}

func TestStep_LinesUsePostAdvancePositions(t *testing.T) {
	surf := newRecordingSurface(800, 600)
	f, err := New(surf, Options{Particles: 2, BaseAlpha: 0.1, Rand: seeded()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// 125 apart before the frame, 115 apart after: only the post-advance distance links
	f.particles[0] = Particle{X: 100, Y: 300, Z: 500, VX: 5}
	f.particles[1] = Particle{X: 225, Y: 300, Z: 500}

	f.Step()

	if len(surf.lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(surf.lines))
	}
	if surf.lines[0].x0 != 110 {
		t.Errorf("line starts at x=%g, want 110", surf.lines[0].x0)
	}
}

func TestField_Deterministic(t *testing.T) {
	run := func() []Particle {
		f, err := New(newRecordingSurface(1280, 720), Options{
			Particles: 250,
			BaseAlpha: 0.2,
			Rand:      rand.New(rand.NewPCG(123, 456)),
		})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		for i := 0; i < 500; i++ {
			f.Step()
		}
		return f.Particles()
	}

	a, b := run(), run()
	if !slices.Equal(a, b) {
		t.Fatal("same seed produced different particle states")
	}
}

func TestField_ResizeKeepsPositions(t *testing.T) {
	surf := newRecordingSurface(800, 600)
	f, err := New(surf, Options{Particles: 150, BaseAlpha: 0.1, Rand: seeded()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 30; i++ {
		f.Step()
	}
	before := f.Particles()

	f.OnResize(1600, 1200)

	if w, h := surf.Size(); w != 1600 || h != 1200 {
		t.Fatalf("surface = %dx%d, want 1600x1200", w, h)
	}
	if !slices.Equal(before, f.Particles()) {
		t.Fatal("resize moved particles")
	}

	// outside the old 800 width, inside the new one
	f.particles[0] = Particle{X: 1000, Y: 500, Z: MaxDepth, VX: 0.1}
	surf.reset()
	f.Step()

	if got := f.particles[0].VX; got != 0.1 {
		t.Errorf("vx = %g, want 0.1 (no reflection inside new bounds)", got)
	}
	if surf.fills[0].w != 1600 || surf.fills[0].h != 1200 {
		t.Errorf("trail fill = %gx%g, want 1600x1200", surf.fills[0].w, surf.fills[0].h)
	}
}

func TestField_StopCancelsAndIsIdempotent(t *testing.T) {
	q := frame.NewQueue()
	f, err := Start(newRecordingSurface(800, 600), q, Options{Particles: 20, BaseAlpha: 0.1, Rand: seeded()})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	q.Flush()

	f.Stop()
	f.Stop()

	if f.Running() {
		t.Error("Running() = true after Stop")
	}
	if q.Pending() != 0 {
		t.Errorf("pending = %d after Stop, want 0", q.Pending())
	}
	frames := f.Stats().Frames
	q.Flush()
	if got := f.Stats().Frames; got != frames {
		t.Errorf("frames advanced after Stop: %d -> %d", frames, got)
	}
}

func TestField_StaleCallbackAfterStopIsNoop(t *testing.T) {
	sched := &manualScheduler{}
	surf := newRecordingSurface(800, 600)
	f, err := Start(surf, sched, Options{Particles: 20, BaseAlpha: 0.1, Rand: seeded()})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	f.Stop()
	if len(sched.cancelled) != 1 || sched.cancelled[0] != 1 {
		t.Errorf("cancelled = %v, want [1]", sched.cancelled)
	}

	surf.reset()
	sched.callbacks[0]()

	if len(surf.fills) != 0 || len(sched.callbacks) != 1 {
		t.Error("stale callback drew or rescheduled after Stop")
	}
}

func TestField_IndependentInstances(t *testing.T) {
	q := frame.NewQueue()
	hero, err := Start(newRecordingSurface(800, 600), q, Options{Particles: 250, BaseAlpha: 0.2, Rand: seeded()})
	if err != nil {
		t.Fatalf("Start hero: %v", err)
	}
	about, err := Start(newRecordingSurface(800, 600), q, Options{Particles: 150, BaseAlpha: 0.1, Rand: seeded()})
	if err != nil {
		t.Fatalf("Start about: %v", err)
	}

	q.Flush()
	hero.Stop()
	q.Flush()

	if got := hero.Stats().Frames; got != 2 {
		t.Errorf("hero frames = %d, want 2", got)
	}
	if got := about.Stats().Frames; got != 3 {
		t.Errorf("about frames = %d, want 3", got)
	}
	about.Stop()
}

func TestOptions_AutoStrategy(t *testing.T) {
	small, err := New(newRecordingSurface(800, 600), Options{Particles: GridThreshold, BaseAlpha: 0.1, Rand: seeded()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if small.grid != nil {
		t.Error("grid used at the threshold")
	}

	large, err := New(newRecordingSurface(800, 600), Options{Particles: GridThreshold + 1, BaseAlpha: 0.1, Rand: seeded()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if large.grid == nil {
		t.Error("grid not used above the threshold")
	}
}

func TestColor_NRGBA(t *testing.T) {
	c := DefaultAccent.WithAlpha(0.2)
	got := c.NRGBA()
	if got.R != 45 || got.G != 212 || got.B != 191 || got.A != 51 {
		t.Errorf("NRGBA = %+v, want {45 212 191 51}", got)
	}
	if c.WithAlpha(3).NRGBA().A != 255 {
		t.Error("alpha above 1 not clamped")
	}
}
