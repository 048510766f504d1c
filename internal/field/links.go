package field

import (
	"cmp"
	"math"
	"slices"
)

// LinkDistance is the pixel distance below which two particles are connected.
const LinkDistance = 120.0

// GridThreshold is the pool size above which the spatial grid replaces the pairwise scan.
const GridThreshold = 300

// Link is a connecting line between particles I and J (I < J).
type Link struct {
	I, J     int
	Distance float64
	Alpha    float64 // baseAlpha scaled by the falloff
	Width    float64 // the falloff itself
}

// LinkScale is the linear falloff for two particles d pixels apart:
// 1 at d=0, 0 at d>=maxDist.
func LinkScale(d, maxDist float64) float64 {
	if d >= maxDist {
		return 0
	}
	return math.Min(1, (maxDist-d)/maxDist)
}

func distance(a, b Particle) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func appendLink(dst []Link, ps []Particle, i, j int, maxDist, baseAlpha float64) []Link {
	d := distance(ps[i], ps[j])
	if d >= maxDist {
		return dst
	}
	s := LinkScale(d, maxDist)
	return append(dst, Link{I: i, J: j, Distance: d, Alpha: baseAlpha * s, Width: s})
}

// PairLinks appends every link of ps to dst by checking all unordered pairs.
// Links come out ordered by (I, J).
func PairLinks(dst []Link, ps []Particle, maxDist, baseAlpha float64) []Link {
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			dst = appendLink(dst, ps, i, j, maxDist, baseAlpha)
		}
	}
	return dst
}

type cellKey struct{ cx, cy int }

// Grid buckets particles into square cells of the link distance so only
// neighbouring cells are compared. Its output is identical to PairLinks.
// A Grid keeps its buckets between frames; it is not safe for concurrent use.
type Grid struct {
	buckets map[cellKey][]int
}

// NewGrid returns an empty grid; its buckets are reused across frames.
func NewGrid() *Grid {
	return &Grid{buckets: make(map[cellKey][]int)}
}

func (g *Grid) cellOf(p Particle, size float64) cellKey {
	return cellKey{int(math.Floor(p.X / size)), int(math.Floor(p.Y / size))}
}

// Links appends every link of ps to dst, ordered by (I, J).
func (g *Grid) Links(dst []Link, ps []Particle, maxDist, baseAlpha float64) []Link {
	for k, b := range g.buckets {
		if len(b) == 0 {
			delete(g.buckets, k)
			continue
		}
		g.buckets[k] = b[:0]
	}
	for i, p := range ps {
		k := g.cellOf(p, maxDist)
		g.buckets[k] = append(g.buckets[k], i)
	}

	start := len(dst)
	for i, p := range ps {
		c := g.cellOf(p, maxDist)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for _, j := range g.buckets[cellKey{c.cx + dx, c.cy + dy}] {
					if j <= i {
						continue
					}
					dst = appendLink(dst, ps, i, j, maxDist, baseAlpha)
				}
			}
		}
	}

	slices.SortFunc(dst[start:], func(a, b Link) int {
		if c := cmp.Compare(a.I, b.I); c != 0 {
			return c
		}
		return cmp.Compare(a.J, b.J)
	})
	return dst
}
