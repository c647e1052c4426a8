// Package particles simulates the ambient particle field: a fixed set of
// drifting points that bounce off the surface edges, link up with nearby
// neighbours and shy away from the pointer.
package particles

import (
	"math"
	"math/rand"

	"github.com/Garsondee/portfolio-fx/internal/draw"
	"github.com/Garsondee/portfolio-fx/internal/pointer"
)

// Particle is one simulated point. Positions are in surface pixels.
type Particle struct {
	X, Y   float64
	DX, DY float64 // velocity, px per frame
	Radius float64
	Alpha  float64
}

// Speed returns the particle's current speed.
func (p Particle) Speed() float64 { return math.Hypot(p.DX, p.DY) }

// Link is a derived segment between two particles closer than the link
// distance. Links are recomputed every frame and never stored.
type Link struct {
	A, B  int
	Dist  float64
	Alpha float64
}

// LinkAlpha is the linear opacity falloff of a link: 1 at distance 0,
// 0 at the threshold and beyond.
func LinkAlpha(dist, threshold float64) float64 {
	if threshold <= 0 || dist >= threshold {
		return 0
	}
	if dist <= 0 {
		return 1
	}
	return 1 - dist/threshold
}

// Field owns a population of particles inside a w×h box.
type Field struct {
	cfg       Config
	w, h      float64
	particles []Particle
}

// NewField validates cfg and scatters the population over a w×h surface.
func NewField(cfg Config, w, h float64, rng *rand.Rand) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := &Field{cfg: cfg, w: math.Max(w, 0), h: math.Max(h, 0)}
	n := cfg.population(f.w, f.h)
	f.particles = make([]Particle, n)
	for i := range f.particles {
		angle := rng.Float64() * 2 * math.Pi
		speed := cfg.MinSpeed + rng.Float64()*(cfg.MaxSpeed-cfg.MinSpeed)
		f.particles[i] = Particle{
			X:      rng.Float64() * f.w,
			Y:      rng.Float64() * f.h,
			DX:     math.Cos(angle) * speed,
			DY:     math.Sin(angle) * speed,
			Radius: cfg.MinRadius + rng.Float64()*(cfg.MaxRadius-cfg.MinRadius),
			Alpha:  0.4 + rng.Float64()*0.6,
		}
	}
	return f, nil
}

// Config returns the configuration the field was built with.
func (f *Field) Config() Config { return f.cfg }

// Bounds returns the current surface size.
func (f *Field) Bounds() (w, h float64) { return f.w, f.h }

// Len returns the population size. It never changes after NewField.
func (f *Field) Len() int { return len(f.particles) }

// Particles exposes the population for inspection. Callers must not
// append to or shrink the slice.
func (f *Field) Particles() []Particle { return f.particles }

// Step advances one frame: move, reflect off the edges, then react to the
// pointer if it is present.
func (f *Field) Step(p pointer.State) {
	for i := range f.particles {
		pt := &f.particles[i]
		pt.X += pt.DX
		pt.Y += pt.DY
		f.reflect(pt)
	}
	if p.Present && f.cfg.PointerRadius > 0 && f.cfg.PointerForce != 0 {
		f.nudge(p)
	}
}

// reflect keeps pt inside the box by clamping to the crossed edge and
// turning the velocity component back inwards.
func (f *Field) reflect(pt *Particle) {
	r := f.cfg.Restitution
	if pt.X < 0 {
		pt.X = 0
		pt.DX = math.Abs(pt.DX) * r
	} else if pt.X > f.w {
		pt.X = f.w
		pt.DX = -math.Abs(pt.DX) * r
	}
	if pt.Y < 0 {
		pt.Y = 0
		pt.DY = math.Abs(pt.DY) * r
	} else if pt.Y > f.h {
		pt.Y = f.h
		pt.DY = -math.Abs(pt.DY) * r
	}
}

// nudge pushes particles within the pointer radius away from the pointer
// (or pulls them toward it for a negative force). The push falls off
// linearly with distance and the result is capped at SpeedLimit.
func (f *Field) nudge(p pointer.State) {
	radius := f.cfg.PointerRadius
	for i := range f.particles {
		pt := &f.particles[i]
		dx := pt.X - p.X
		dy := pt.Y - p.Y
		d := math.Hypot(dx, dy)
		if d >= radius || d < 1e-6 {
			continue
		}
		push := f.cfg.PointerForce * (1 - d/radius)
		pt.DX += dx / d * push
		pt.DY += dy / d * push
		if s := pt.Speed(); s > f.cfg.SpeedLimit {
			k := f.cfg.SpeedLimit / s
			pt.DX *= k
			pt.DY *= k
		}
	}
}

// Resize moves the box to w×h and clamps every particle into it. Calling
// it again with the same size changes nothing. Non-positive sizes are
// ignored (a minimised window reports 0×0).
func (f *Field) Resize(w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	f.w, f.h = w, h
	for i := range f.particles {
		pt := &f.particles[i]
		pt.X = math.Min(math.Max(pt.X, 0), w)
		pt.Y = math.Min(math.Max(pt.Y, 0), h)
	}
}

// EachLink calls fn for every unordered pair closer than the link
// distance. This is a plain O(n²) pass; populations stay in the low
// hundreds.
func (f *Field) EachLink(fn func(l Link)) {
	limit := f.cfg.LinkDistance
	limitSq := limit * limit
	for i := 0; i < len(f.particles); i++ {
		a := f.particles[i]
		for j := i + 1; j < len(f.particles); j++ {
			b := f.particles[j]
			dx := a.X - b.X
			dy := a.Y - b.Y
			dsq := dx*dx + dy*dy
			if dsq >= limitSq {
				continue
			}
			d := math.Sqrt(dsq)
			fn(Link{A: i, B: j, Dist: d, Alpha: LinkAlpha(d, limit)})
		}
	}
}

// Links collects EachLink into a slice.
func (f *Field) Links() []Link {
	var out []Link
	f.EachLink(func(l Link) { out = append(out, l) })
	return out
}

// Frame renders the current state as draw commands.
func (f *Field) Frame() draw.List {
	cmds := make(draw.List, 0, len(f.particles)*2+1)
	if f.cfg.Trail > 0 {
		cmds = cmds.Fade(draw.WithAlpha(f.cfg.Background, f.cfg.Trail))
	} else {
		cmds = cmds.Clear()
	}
	f.EachLink(func(l Link) {
		a, b := f.particles[l.A], f.particles[l.B]
		c := draw.WithAlpha(f.cfg.LinkColor, l.Alpha*f.cfg.LinkOpacity)
		cmds = cmds.Line(a.X, a.Y, b.X, b.Y, f.cfg.LinkWidth, c)
	})
	for _, pt := range f.particles {
		cmds = cmds.Circle(pt.X, pt.Y, pt.Radius, draw.WithAlpha(f.cfg.Color, pt.Alpha))
	}
	return cmds
}
