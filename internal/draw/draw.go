// Package draw holds the drawing vocabulary shared by every effect.
//
// Effects never touch a real surface while they simulate. They produce a
// List of commands from their state, and a host replays that list onto
// whatever Canvas it owns (an Ebiten image, a gg context, a Recorder).
package draw

import (
	"errors"
	"image/color"
)

// ErrNoContext is returned when a surface cannot provide a drawing context.
var ErrNoContext = errors.New("draw: drawing context unavailable")

// Op identifies a drawing command.
type Op uint8

const (
	OpClear Op = iota
	OpFade
	OpLine
	OpCircle
	OpGlyph
)

var opNames = [...]string{
	OpClear:  "clear",
	OpFade:   "fade",
	OpLine:   "line",
	OpCircle: "circle",
	OpGlyph:  "glyph",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// Command is one drawing instruction. Which fields are meaningful depends
// on Op:
//
//	OpClear   -
//	OpFade    Color
//	OpLine    X1, Y1, X2, Y2, Width, Color
//	OpCircle  X1, Y1 (centre), R, Color
//	OpGlyph   X1, Y1 (top-left), Size, Rune, Color
type Command struct {
	Op             Op
	X1, Y1, X2, Y2 float64
	R              float64
	Width          float64
	Size           float64
	Rune           rune
	Color          color.RGBA
}

// List is an ordered batch of commands for one frame.
type List []Command

// Clear appends a clear command.
func (l List) Clear() List {
	return append(l, Command{Op: OpClear})
}

// Fade appends a translucent full-surface fill used for trailing effects.
func (l List) Fade(c color.RGBA) List {
	return append(l, Command{Op: OpFade, Color: c})
}

// Line appends a line segment.
func (l List) Line(x1, y1, x2, y2, width float64, c color.RGBA) List {
	return append(l, Command{Op: OpLine, X1: x1, Y1: y1, X2: x2, Y2: y2, Width: width, Color: c})
}

// Circle appends a filled circle.
func (l List) Circle(x, y, r float64, c color.RGBA) List {
	return append(l, Command{Op: OpCircle, X1: x, Y1: y, R: r, Color: c})
}

// Glyph appends a single character cell.
func (l List) Glyph(r rune, x, y, size float64, c color.RGBA) List {
	return append(l, Command{Op: OpGlyph, X1: x, Y1: y, Size: size, Rune: r, Color: c})
}

// Count returns the number of commands with the given op.
func (l List) Count(op Op) int {
	n := 0
	for _, c := range l {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Canvas is a drawable region.
type Canvas interface {
	Size() (w, h int)
	Clear()
	Fade(c color.RGBA)
	Line(x1, y1, x2, y2, width float64, c color.RGBA)
	Circle(x, y, r float64, c color.RGBA)
	Glyph(r rune, x, y, size float64, c color.RGBA)
}

// Surface is what a host hands to an effect at mount time.
type Surface interface {
	// Canvas acquires the drawing context. It fails with ErrNoContext
	// (possibly wrapped) when the surface cannot be drawn on.
	Canvas() (Canvas, error)
	// Detached reports that the surface was removed while an effect may
	// still be running.
	Detached() bool
}

// Replay executes l on c in order.
func Replay(c Canvas, l List) {
	for _, cmd := range l {
		switch cmd.Op {
		case OpClear:
			c.Clear()
		case OpFade:
			c.Fade(cmd.Color)
		case OpLine:
			c.Line(cmd.X1, cmd.Y1, cmd.X2, cmd.Y2, cmd.Width, cmd.Color)
		case OpCircle:
			c.Circle(cmd.X1, cmd.Y1, cmd.R, cmd.Color)
		case OpGlyph:
			c.Glyph(cmd.Rune, cmd.X1, cmd.Y1, cmd.Size, cmd.Color)
		}
	}
}

// WithAlpha returns c with its alpha multiplied by a in [0, 1]. The
// colour channels are scaled too, keeping c premultiplied.
func WithAlpha(c color.RGBA, a float64) color.RGBA {
	if a <= 0 {
		return color.RGBA{}
	}
	if a >= 1 {
		return c
	}
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
