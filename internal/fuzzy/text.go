// Package fuzzy renders a string as jittering glyphs. Each glyph drifts
// around its resting position along a smooth noise path, so the text is
// never still and never jumps between frames. Hovering the text raises the
// jitter from its base intensity to its hover intensity.
package fuzzy

import (
	"math"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/Garsondee/portfolio-fx/internal/draw"
	"github.com/Garsondee/portfolio-fx/internal/pointer"
)

// Noise lattice placement. Integer lattice points of simplex noise sit
// at zero, so samples are offset off-lattice.
const (
	cellStride = 0.731
	cellPhase  = 0.37
	axisStride = 17.3
	axisPhase  = 0.19
)

// Metrics measures glyphs for layout.
type Metrics interface {
	Advance(r rune, size float64) float64
	LineHeight(size float64) float64
}

// MonoMetrics lays text out as a monospaced face with a 0.6 em advance.
type MonoMetrics struct{}

// Advance implements Metrics.
func (MonoMetrics) Advance(_ rune, size float64) float64 { return size * 0.6 }

// LineHeight implements Metrics.
func (MonoMetrics) LineHeight(size float64) float64 { return size * 1.2 }

// Cell is one character slot at rest.
type Cell struct {
	Rune         rune
	Index        int
	BaseX, BaseY float64
	Width        float64
}

// GlyphCell is a cell with this frame's offset applied.
type GlyphCell struct {
	Cell
	DX, DY float64
}

// X returns the drawn x position.
func (g GlyphCell) X() float64 { return g.BaseX + g.DX }

// Y returns the drawn y position.
func (g GlyphCell) Y() float64 { return g.BaseY + g.DY }

// Text is a laid out, distortable string.
type Text struct {
	cfg     Config
	cells   []Cell
	bounds  pointer.Rect
	noise   opensimplex.Noise
	hovered bool
}

// Layout validates cfg and places one cell per rune of s starting at
// (x, y), the top-left corner of the text.
func Layout(s string, x, y float64, m Metrics, cfg Config) (*Text, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if s == "" {
		return nil, ErrEmptyText
	}
	if m == nil {
		m = MonoMetrics{}
	}
	t := &Text{cfg: cfg, noise: opensimplex.New(cfg.Seed)}
	cx := x
	for i, r := range []rune(s) {
		w := m.Advance(r, cfg.FontSize)
		t.cells = append(t.cells, Cell{Rune: r, Index: i, BaseX: cx, BaseY: y, Width: w})
		cx += w + cfg.LetterSpacing
	}
	t.bounds = pointer.Rect{X: x, Y: y, W: cx - cfg.LetterSpacing - x, H: m.LineHeight(cfg.FontSize)}
	return t, nil
}

// Config returns the text's configuration.
func (t *Text) Config() Config { return t.cfg }

// Layout returns the resting cells.
func (t *Text) Layout() []Cell { return t.cells }

// Bounds is the region that counts as hovering the text.
func (t *Text) Bounds() pointer.Rect { return t.bounds }

// Hovered reports the current hover state.
func (t *Text) Hovered() bool { return t.hovered }

// Hover samples the pointer and switches between idle and hovered. It is
// the only state transition and it takes effect immediately. It reports
// whether the state changed.
func (t *Text) Hover(p pointer.State) bool {
	next := t.cfg.EnableHover && p.In(t.bounds)
	changed := next != t.hovered
	t.hovered = next
	return changed
}

// Intensity is the distortion currently in force.
func (t *Text) Intensity() float64 {
	if t.hovered {
		return t.cfg.HoverIntensity
	}
	return t.cfg.BaseIntensity
}

// Offsets computes every cell at elapsed for an explicit intensity. The
// offsets are a continuous function of elapsed.
func (t *Text) Offsets(elapsed time.Duration, intensity float64) []GlyphCell {
	z := elapsed.Seconds() * t.cfg.NoiseSpeed
	amp := intensity * t.cfg.FuzzRange
	out := make([]GlyphCell, len(t.cells))
	for i, c := range t.cells {
		u := float64(c.Index)*cellStride + cellPhase
		dx := t.noise.Eval3(u, axisPhase, z) * amp
		dy := t.noise.Eval3(u, axisStride+axisPhase, z) * amp * t.cfg.VerticalRatio
		out[i] = GlyphCell{Cell: c, DX: dx, DY: dy}
	}
	return out
}

// Cells computes every cell at elapsed using the current intensity.
func (t *Text) Cells(elapsed time.Duration) []GlyphCell {
	return t.Offsets(elapsed, t.Intensity())
}

// Frame renders the text at elapsed as draw commands.
func (t *Text) Frame(elapsed time.Duration) draw.List {
	cells := t.Cells(elapsed)
	cmds := make(draw.List, 0, len(cells)+2).Clear()
	if t.cfg.Background.A > 0 {
		cmds = cmds.Fade(t.cfg.Background)
	}
	for _, g := range cells {
		if g.Rune == ' ' {
			continue
		}
		cmds = cmds.Glyph(g.Rune, g.X(), g.Y(), t.cfg.FontSize, t.cfg.Color)
	}
	return cmds
}

// MeanOffset is the mean offset magnitude across cells.
func MeanOffset(cells []GlyphCell) float64 {
	if len(cells) == 0 {
		return 0
	}
	var sum float64
	for _, g := range cells {
		sum += math.Hypot(g.DX, g.DY)
	}
	return sum / float64(len(cells))
}
