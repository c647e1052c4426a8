package particles

import (
	"math/rand"
	"time"

	"github.com/Garsondee/portfolio-fx/internal/draw"
	"github.com/Garsondee/portfolio-fx/internal/loop"
	"github.com/Garsondee/portfolio-fx/internal/pointer"
)

// Instance is a particle field mounted on a surface.
type Instance struct {
	field   *Field
	surface draw.Surface
	canvas  draw.Canvas
	pointer pointer.Source
	handle  *loop.Handle
	frames  int
}

// Mount validates cfg, acquires a canvas from s and starts the per-frame
// simulation on l. An invalid config is returned as an error. A surface
// that cannot provide a canvas is not: the instance is returned inert and
// renders nothing.
//
// rng may be nil, in which case cfg.Seed (or the clock) seeds one.
func Mount(l *loop.Loop, s draw.Surface, src pointer.Source, cfg Config, rng *rand.Rand) (*Instance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = pointer.Fixed(pointer.Absent)
	}
	in := &Instance{surface: s, pointer: src}

	canvas, err := s.Canvas()
	if err != nil {
		l.Logger().Warn("particle field disabled", "err", err)
		return in, nil
	}
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- cosmetic only
	}
	w, h := canvas.Size()
	field, err := NewField(cfg, float64(w), float64(h), rng)
	if err != nil {
		return nil, err
	}
	in.field = field
	in.canvas = canvas
	in.handle = l.Frame("particles", in.frame)
	l.Logger().Debug("particle field mounted", "particles", field.Len(), "w", w, "h", h)
	return in, nil
}

func (in *Instance) frame(loop.Frame) {
	if in.surface.Detached() {
		// The host pulled the surface out from under us: stop quietly.
		in.handle.Stop()
		return
	}
	in.field.Step(in.pointer.Pointer())
	draw.Replay(in.canvas, in.field.Frame())
	in.frames++
}

// Active reports whether the simulation loop is running.
func (in *Instance) Active() bool {
	return in != nil && in.handle != nil && !in.handle.Stopped()
}

// Field returns the simulated field, or nil for an inert instance.
func (in *Instance) Field() *Field { return in.field }

// Frames returns how many frames have been rendered.
func (in *Instance) Frames() int { return in.frames }

// Resize forwards a viewport change to the field. Safe to call
// redundantly and on an inert instance.
func (in *Instance) Resize(w, h int) {
	if in == nil || in.field == nil {
		return
	}
	in.field.Resize(float64(w), float64(h))
}

// Unmount stops the loop. No frame is rendered after it returns.
func (in *Instance) Unmount() {
	if in == nil {
		return
	}
	in.handle.Stop()
}
