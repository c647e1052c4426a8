// Package snapshot renders the effects without a window, onto software gg
// contexts, and writes the frames as PNG files.
package snapshot

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/Garsondee/portfolio-fx/internal/draw"
)

var (
	monoOnce   sync.Once
	monoSource *text.FontSource
	monoErr    error
)

func monoFontSource() (*text.FontSource, error) {
	monoOnce.Do(func() {
		monoSource, monoErr = text.NewFontSource(gomono.TTF)
	})
	return monoSource, monoErr
}

// Faces caches Go Mono faces by pixel size.
type Faces struct {
	src   *text.FontSource
	mu    sync.Mutex
	sized map[float64]text.Face
}

// NewFaces loads Go Mono.
func NewFaces() (*Faces, error) {
	src, err := monoFontSource()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return &Faces{src: src, sized: make(map[float64]text.Face)}, nil
}

// At returns the face for size.
func (f *Faces) At(size float64) text.Face {
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.sized[size]; ok {
		return face
	}
	face := f.src.Face(size)
	f.sized[size] = face
	return face
}

// Advance implements fuzzy.Metrics.
func (f *Faces) Advance(r rune, size float64) float64 {
	return f.At(size).Advance(string(r))
}

// LineHeight implements fuzzy.Metrics.
func (f *Faces) LineHeight(size float64) float64 {
	m := f.At(size).Metrics()
	return m.Ascent + m.Descent + m.LineGap
}

// Canvas is a gg context exposed as draw.Canvas and draw.Surface.
type Canvas struct {
	dc       *gg.Context
	faces    *Faces
	detached bool
}

// NewCanvas allocates a w×h transparent canvas.
func NewCanvas(w, h int, faces *Faces) (*Canvas, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", draw.ErrNoContext, w, h)
	}
	return &Canvas{dc: gg.NewContext(w, h), faces: faces}, nil
}

// Context returns the underlying gg context.
func (c *Canvas) Context() *gg.Context { return c.dc }

// Canvas implements draw.Surface.
func (c *Canvas) Canvas() (draw.Canvas, error) {
	if c.detached {
		return nil, draw.ErrNoContext
	}
	return c, nil
}

// Detached implements draw.Surface.
func (c *Canvas) Detached() bool { return c.detached }

// Close releases the context. Effects on it stop on their next frame.
func (c *Canvas) Close() error {
	c.detached = true
	return c.dc.Close()
}

// Size implements draw.Canvas.
func (c *Canvas) Size() (int, int) { return c.dc.Width(), c.dc.Height() }

// Clear implements draw.Canvas.
func (c *Canvas) Clear() { c.dc.Clear() }

// Fade implements draw.Canvas.
func (c *Canvas) Fade(col color.RGBA) {
	c.dc.DrawRectangle(0, 0, float64(c.dc.Width()), float64(c.dc.Height()))
	c.dc.SetColor(col)
	_ = c.dc.Fill()
}

// Line implements draw.Canvas.
func (c *Canvas) Line(x1, y1, x2, y2, width float64, col color.RGBA) {
	c.dc.SetLineWidth(width)
	c.dc.SetColor(col)
	c.dc.DrawLine(x1, y1, x2, y2)
	_ = c.dc.Stroke()
}

// Circle implements draw.Canvas.
func (c *Canvas) Circle(x, y, r float64, col color.RGBA) {
	c.dc.SetColor(col)
	c.dc.DrawCircle(x, y, r)
	_ = c.dc.Fill()
}

// Glyph implements draw.Canvas. (x, y) is the top-left of the cell.
func (c *Canvas) Glyph(r rune, x, y, size float64, col color.RGBA) {
	face := c.faces.At(size)
	c.dc.SetFont(face)
	c.dc.SetColor(col)
	c.dc.DrawString(string(r), x, y+face.Metrics().Ascent)
}
