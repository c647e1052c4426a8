// Package pointer models the pointer as a value sampled once per frame.
package pointer

// State is the last known pointer position. Present is false once the
// pointer has left the surface.
type State struct {
	X, Y    float64
	Present bool
}

// Absent is the state of a pointer that is not over the surface.
var Absent = State{}

// At returns a present state at (x, y).
func At(x, y float64) State {
	return State{X: x, Y: y, Present: true}
}

// In reports whether the pointer is present and inside r.
func (s State) In(r Rect) bool {
	return s.Present && r.Contains(s.X, s.Y)
}

// Rect is an axis-aligned region in surface coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Source yields the pointer state for the current frame.
type Source interface {
	Pointer() State
}

// Fixed is a Source that always reports the same state.
type Fixed State

// Pointer implements Source.
func (f Fixed) Pointer() State { return State(f) }

// SourceFunc adapts a function to Source.
type SourceFunc func() State

// Pointer implements Source.
func (fn SourceFunc) Pointer() State { return fn() }

// Tracker is a Source fed by host move/leave events. The host writes it
// between frames and effects read it once per frame.
type Tracker struct {
	state State
}

// Move records a pointer position.
func (t *Tracker) Move(x, y float64) { t.state = At(x, y) }

// Leave marks the pointer absent.
func (t *Tracker) Leave() { t.state = Absent }

// Pointer implements Source.
func (t *Tracker) Pointer() State { return t.state }
