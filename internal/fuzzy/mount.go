package fuzzy

import (
	"github.com/charmbracelet/log"

	"github.com/Garsondee/portfolio-fx/internal/draw"
	"github.com/Garsondee/portfolio-fx/internal/loop"
	"github.com/Garsondee/portfolio-fx/internal/pointer"
)

// Instance is distorted text mounted on a surface.
type Instance struct {
	text    *Text
	surface draw.Surface
	canvas  draw.Canvas
	pointer pointer.Source
	handle  *loop.Handle
	frames  int
	logger  *log.Logger
}

// Mount lays out s at (x, y), acquires a canvas from surf and redraws the
// text every frame on l. Invalid config or empty text is an error; a
// surface without a canvas yields an inert instance.
func Mount(l *loop.Loop, surf draw.Surface, src pointer.Source, s string, x, y float64, m Metrics, cfg Config) (*Instance, error) {
	text, err := Layout(s, x, y, m, cfg)
	if err != nil {
		return nil, err
	}
	if src == nil {
		src = pointer.Fixed(pointer.Absent)
	}
	in := &Instance{text: text, surface: surf, pointer: src, logger: l.Logger()}
	canvas, err := surf.Canvas()
	if err != nil {
		l.Logger().Warn("fuzzy text disabled", "text", s, "err", err)
		return in, nil
	}
	in.canvas = canvas
	in.handle = l.Frame("fuzzy", in.frame)
	return in, nil
}

func (in *Instance) frame(f loop.Frame) {
	if in.surface.Detached() {
		in.handle.Stop()
		return
	}
	if in.text.Hover(in.pointer.Pointer()) {
		in.logger.Debug("fuzzy hover", "hovered", in.text.Hovered(), "intensity", in.text.Intensity())
	}
	draw.Replay(in.canvas, in.text.Frame(f.Elapsed))
	in.frames++
}

// Text returns the laid out text.
func (in *Instance) Text() *Text { return in.text }

// Active reports whether the render loop is running.
func (in *Instance) Active() bool {
	return in != nil && in.handle != nil && !in.handle.Stopped()
}

// Frames returns how many frames have been rendered.
func (in *Instance) Frames() int { return in.frames }

// Unmount stops the loop. No frame is rendered after it returns.
func (in *Instance) Unmount() {
	if in == nil {
		return
	}
	in.handle.Stop()
}
