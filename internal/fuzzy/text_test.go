package fuzzy

import (
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Garsondee/portfolio-fx/internal/draw"
	"github.com/Garsondee/portfolio-fx/internal/loop"
	"github.com/Garsondee/portfolio-fx/internal/pointer"
)

func layoutTest(t *testing.T, s string, cfg Config) *Text {
	t.Helper()
	txt, err := Layout(s, 10, 20, MonoMetrics{}, cfg)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return txt
}

func TestLayout_CellsAndBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FontSize = 10
	cfg.LetterSpacing = 2
	txt := layoutTest(t, "ABC", cfg)
	cells := txt.Layout()
	if len(cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(cells))
	}
	if cells[1].BaseX != 18 || cells[2].BaseX != 26 {
		t.Fatalf("unexpected advances: %v %v", cells[1].BaseX, cells[2].BaseX)
	}
	b := txt.Bounds()
	if b.X != 10 || b.Y != 20 || b.W != 22 || b.H != 12 {
		t.Fatalf("unexpected bounds %+v", b)
	}
}

func TestLayout_Rejects(t *testing.T) {
	if _, err := Layout("", 0, 0, nil, DefaultConfig()); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	cfg := DefaultConfig()
	cfg.FontSize = 0
	if _, err := Layout("x", 0, 0, nil, cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	bad := []func(*Config){
		func(c *Config) { c.FontSize = -1 },
		func(c *Config) { c.BaseIntensity = -0.1 },
		func(c *Config) { c.HoverIntensity = -0.1 },
		func(c *Config) { c.FuzzRange = 0 },
		func(c *Config) { c.VerticalRatio = -1 },
		func(c *Config) { c.NoiseSpeed = 0 },
	}
	for i, mut := range bad {
		c := DefaultConfig()
		mut(&c)
		if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("case %d: expected ErrInvalidConfig, got %v", i, err)
		}
	}
}

func TestOffsets_HoverLargerThanBase(t *testing.T) {
	cfg := DefaultConfig()
	txt := layoutTest(t, "SUMETH", cfg)
	for _, at := range []time.Duration{0, 1234 * time.Millisecond, 7 * time.Second} {
		base := MeanOffset(txt.Offsets(at, cfg.BaseIntensity))
		hover := MeanOffset(txt.Offsets(at, cfg.HoverIntensity))
		if !(hover > base) {
			t.Fatalf("at %v: hover mean %v not greater than base mean %v", at, hover, base)
		}
	}
}

func TestOffsets_ContinuousInTime(t *testing.T) {
	cfg := DefaultConfig()
	txt := layoutTest(t, "PORTFOLIO", cfg)
	prev := txt.Offsets(0, cfg.HoverIntensity)
	for ms := 1; ms <= 2000; ms++ {
		cur := txt.Offsets(time.Duration(ms)*time.Millisecond, cfg.HoverIntensity)
		for i := range cur {
			if d := math.Hypot(cur[i].DX-prev[i].DX, cur[i].DY-prev[i].DY); d > 1 {
				t.Fatalf("cell %d jumped %.3fpx between %dms and %dms", i, d, ms-1, ms)
			}
		}
		prev = cur
	}
}

func TestOffsets_IdleStillAnimates(t *testing.T) {
	cfg := DefaultConfig()
	txt := layoutTest(t, "SUMETH", cfg)
	a := txt.Cells(500 * time.Millisecond)
	b := txt.Cells(2500 * time.Millisecond)
	moved := false
	for i := range a {
		if math.Abs(a[i].DX-b[i].DX) > 1e-6 {
			moved = true
		}
	}
	if !moved {
		t.Fatal("idle text should keep drifting without pointer input")
	}
}

func TestOffsets_ZeroIntensityIsStill(t *testing.T) {
	txt := layoutTest(t, "AB", DefaultConfig())
	for _, g := range txt.Offsets(3*time.Second, 0) {
		if g.DX != 0 || g.DY != 0 {
			t.Fatalf("zero intensity should not move glyphs: %+v", g)
		}
	}
}

func TestHover_Transitions(t *testing.T) {
	cfg := DefaultConfig()
	txt := layoutTest(t, "HELLO", cfg)
	b := txt.Bounds()
	inside := pointer.At(b.X+b.W/2, b.Y+b.H/2)

	if txt.Intensity() != cfg.BaseIntensity {
		t.Fatal("should start idle")
	}
	if !txt.Hover(inside) || txt.Intensity() != cfg.HoverIntensity {
		t.Fatal("pointer over text should switch to hover intensity")
	}
	if txt.Hover(inside) {
		t.Fatal("repeated sample inside should not report a change")
	}
	if !txt.Hover(pointer.Absent) || txt.Intensity() != cfg.BaseIntensity {
		t.Fatal("pointer leaving should switch back to base")
	}
}

func TestHover_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableHover = false
	txt := layoutTest(t, "HELLO", cfg)
	b := txt.Bounds()
	txt.Hover(pointer.At(b.X+1, b.Y+1))
	if txt.Hovered() || txt.Intensity() != cfg.BaseIntensity {
		t.Fatal("hover must be ignored when disabled")
	}
}

func TestFrame_SkipsSpaces(t *testing.T) {
	txt := layoutTest(t, "A B", DefaultConfig())
	l := txt.Frame(time.Second)
	if l[0].Op != draw.OpClear || l.Count(draw.OpGlyph) != 2 {
		t.Fatalf("expected clear + 2 glyphs, got %d glyphs", l.Count(draw.OpGlyph))
	}
}

func TestMount_HoverFromPointerSource(t *testing.T) {
	l := loop.New(log.New(io.Discard))
	rec := draw.NewRecorder(800, 200)
	var tr pointer.Tracker
	in, err := Mount(l, rec, &tr, "SUMETH", 10, 10, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	l.Advance(time.Second / 60)
	if in.Text().Hovered() {
		t.Fatal("should be idle without pointer")
	}
	b := in.Text().Bounds()
	tr.Move(b.X+5, b.Y+5)
	l.Advance(time.Second / 60)
	if !in.Text().Hovered() {
		t.Fatal("pointer over text should hover on next frame")
	}
	if rec.Frame().Count(draw.OpGlyph) != 6 {
		t.Fatalf("expected 6 glyphs drawn, got %d", rec.Frame().Count(draw.OpGlyph))
	}
	in.Unmount()
	l.Advance(time.Second / 60)
	if in.Frames() != 2 {
		t.Fatalf("frames after unmount: %d", in.Frames())
	}
}

func TestMount_SurfaceFailures(t *testing.T) {
	l := loop.New(log.New(io.Discard))
	rec := draw.NewRecorder(100, 100)
	rec.Fail = true
	in, err := Mount(l, rec, nil, "X", 0, 0, nil, DefaultConfig())
	if err != nil || in.Active() {
		t.Fatalf("failed acquisition should be inert, err=%v active=%v", err, in.Active())
	}

	rec2 := draw.NewRecorder(100, 100)
	in2, _ := Mount(l, rec2, nil, "X", 0, 0, nil, DefaultConfig())
	rec2.Detach()
	l.Advance(time.Second / 60)
	if in2.Active() || in2.Frames() != 0 {
		t.Fatal("detached surface should stop the loop before drawing")
	}
}
