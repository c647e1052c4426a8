package scene

import (
	"bytes"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/Garsondee/portfolio-fx/internal/draw"
)

var (
	monoOnce   sync.Once
	monoSource *text.GoTextFaceSource
	monoErr    error
)

// monoFaceSource parses Go Mono once per process.
func monoFaceSource() (*text.GoTextFaceSource, error) {
	monoOnce.Do(func() {
		monoSource, monoErr = text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	})
	return monoSource, monoErr
}

// faces caches one face per pixel size.
type faces struct {
	src   *text.GoTextFaceSource
	sized map[float64]*text.GoTextFace
}

func newFaces(src *text.GoTextFaceSource) *faces {
	return &faces{src: src, sized: make(map[float64]*text.GoTextFace)}
}

func (f *faces) at(size float64) *text.GoTextFace {
	if face, ok := f.sized[size]; ok {
		return face
	}
	face := &text.GoTextFace{Source: f.src, Size: size}
	f.sized[size] = face
	return face
}

// faceMetrics measures glyphs with the real face so hover bounds match
// what is drawn.
type faceMetrics struct{ faces *faces }

func (m faceMetrics) Advance(r rune, size float64) float64 {
	return text.Advance(string(r), m.faces.at(size))
}

func (m faceMetrics) LineHeight(size float64) float64 {
	fm := m.faces.at(size).Metrics()
	return fm.HAscent + fm.HDescent + fm.HLineGap
}

// ImageSurface is an offscreen Ebiten image exposed as a draw.Surface and
// draw.Canvas. Resizing reallocates the image but keeps the surface, so
// effects holding the canvas keep drawing into the new buffer.
type ImageSurface struct {
	img      *ebiten.Image
	faces    *faces
	detached bool
}

// NewImageSurface allocates a w×h surface.
func NewImageSurface(w, h int, f *faces) *ImageSurface {
	return &ImageSurface{img: ebiten.NewImage(w, h), faces: f}
}

// Image is the current backing image.
func (s *ImageSurface) Image() *ebiten.Image { return s.img }

// Canvas implements draw.Surface.
func (s *ImageSurface) Canvas() (draw.Canvas, error) {
	if s.img == nil || s.detached {
		return nil, draw.ErrNoContext
	}
	return s, nil
}

// Detached implements draw.Surface.
func (s *ImageSurface) Detached() bool { return s.detached }

// Detach releases the image. Effects drawing here stop on their next frame.
func (s *ImageSurface) Detach() {
	if s.detached {
		return
	}
	s.detached = true
	if s.img != nil {
		s.img.Deallocate()
	}
}

// Resize reallocates the image if the size changed. It reports whether it
// did anything.
func (s *ImageSurface) Resize(w, h int) bool {
	if w <= 0 || h <= 0 || s.detached {
		return false
	}
	if b := s.img.Bounds(); b.Dx() == w && b.Dy() == h {
		return false
	}
	s.img.Deallocate()
	s.img = ebiten.NewImage(w, h)
	return true
}

// Size implements draw.Canvas.
func (s *ImageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Clear implements draw.Canvas.
func (s *ImageSurface) Clear() { s.img.Clear() }

// Fade implements draw.Canvas.
func (s *ImageSurface) Fade(c color.RGBA) {
	w, h := s.Size()
	vector.FillRect(s.img, 0, 0, float32(w), float32(h), c, false)
}

// Line implements draw.Canvas.
func (s *ImageSurface) Line(x1, y1, x2, y2, width float64, c color.RGBA) {
	vector.StrokeLine(s.img, float32(x1), float32(y1), float32(x2), float32(y2), float32(width), c, true)
}

// Circle implements draw.Canvas.
func (s *ImageSurface) Circle(x, y, r float64, c color.RGBA) {
	vector.FillCircle(s.img, float32(x), float32(y), float32(r), c, true)
}

// Glyph implements draw.Canvas.
func (s *ImageSurface) Glyph(r rune, x, y, size float64, c color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(s.img, string(r), s.faces.at(size), op)
}
