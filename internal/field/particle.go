package field

import "math/rand/v2"

const (
	// MaxDepth is where particles spawn and respawn; also the perspective numerator.
	MaxDepth = 1000.0
	// MinDepth is the smallest depth a particle may hold after Advance.
	MinDepth = 1.0

	// DriftSpeed bounds the planar velocity: vx, vy in [-DriftSpeed, DriftSpeed).
	DriftSpeed = 0.15
	// ApproachSpeed bounds the depth velocity: vz in [-ApproachSpeed, 0).
	ApproachSpeed = 2.0
)

// Particle is one point light moving through the simulated depth field.
// X and Y are surface pixels, Z is the distance from the viewer.
type Particle struct {
	X, Y, Z    float64
	VX, VY, VZ float64
}

// NewParticle places a particle uniformly on a w×h surface at a random depth.
func NewParticle(rng *rand.Rand, w, h float64) Particle {
	return Particle{
		X:  rng.Float64() * w,
		Y:  rng.Float64() * h,
		Z:  rng.Float64() * MaxDepth,
		VX: (rng.Float64() - 0.5) * 2 * DriftSpeed,
		VY: (rng.Float64() - 0.5) * 2 * DriftSpeed,
		// 1-Float64 is in (0, 1], so vz never stalls at zero
		VZ: -(1 - rng.Float64()) * ApproachSpeed,
	}
}

// Perspective is the displacement scale for a particle at depth z.
func Perspective(z float64) float64 {
	return MaxDepth / z
}

// Advance returns p moved by one frame on a w×h surface.
//
// Depth is updated and respawned first, so the planar step always uses the
// post-respawn depth. Bounds are checked after the move and only flip the
// velocity; the position itself is never clamped.
func (p Particle) Advance(w, h float64) Particle {
	p.Z += p.VZ
	if p.Z < MinDepth {
		p.Z = MaxDepth
	}

	k := Perspective(p.Z)
	p.X += p.VX * k
	p.Y += p.VY * k

	if p.X < 0 || p.X > w {
		p.VX = -p.VX
	}
	if p.Y < 0 || p.Y > h {
		p.VY = -p.VY
	}
	return p
}
