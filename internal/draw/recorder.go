package draw

import "image/color"

// Recorder is an in-memory Canvas and Surface. It keeps the commands
// drawn since the last Clear, which is what a real surface would show.
type Recorder struct {
	W, H int

	// Fail makes Canvas return ErrNoContext.
	Fail bool

	frame    List
	detached bool
	clears   int
}

// NewRecorder returns a w×h recorder.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

// Canvas implements Surface.
func (r *Recorder) Canvas() (Canvas, error) {
	if r.Fail || r.W <= 0 || r.H <= 0 {
		return nil, ErrNoContext
	}
	return r, nil
}

// Detached implements Surface.
func (r *Recorder) Detached() bool { return r.detached }

// Detach simulates the surface being removed from its host.
func (r *Recorder) Detach() { r.detached = true }

// Size implements Canvas.
func (r *Recorder) Size() (int, int) { return r.W, r.H }

// Clear implements Canvas.
func (r *Recorder) Clear() {
	r.clears++
	r.frame = r.frame[:0]
}

// Fade implements Canvas.
func (r *Recorder) Fade(c color.RGBA) { r.frame = r.frame.Fade(c) }

// Line implements Canvas.
func (r *Recorder) Line(x1, y1, x2, y2, width float64, c color.RGBA) {
	r.frame = r.frame.Line(x1, y1, x2, y2, width, c)
}

// Circle implements Canvas.
func (r *Recorder) Circle(x, y, rad float64, c color.RGBA) {
	r.frame = r.frame.Circle(x, y, rad, c)
}

// Glyph implements Canvas.
func (r *Recorder) Glyph(ch rune, x, y, size float64, c color.RGBA) {
	r.frame = r.frame.Glyph(ch, x, y, size, c)
}

// Frame returns the commands drawn since the last clear.
func (r *Recorder) Frame() List { return r.frame }

// Clears returns how many times the canvas was cleared.
func (r *Recorder) Clears() int { return r.clears }
