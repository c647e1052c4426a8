package headless

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Garsondee/portfolio-fx/internal/config"
	"github.com/Garsondee/portfolio-fx/internal/fuzzy"
	"github.com/Garsondee/portfolio-fx/internal/particles"
	"github.com/Garsondee/portfolio-fx/internal/pointer"
	"github.com/Garsondee/portfolio-fx/internal/scramble"
)

func mustHarness(t *testing.T, opts ...Option) *Harness {
	t.Helper()
	h, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(h.Close)
	return h
}

func TestHarness_ParticlesStayInBounds(t *testing.T) {
	cfg := particles.DefaultConfig()
	cfg.MaxSpeed = 8
	cfg.SpeedLimit = 12
	h := mustHarness(t,
		WithSeed(11),
		WithSize(400, 300),
		WithPointer(Orbit(400, 300, 90)),
		WithParticles(cfg),
	)
	st := h.Run(600)
	if st.OutOfBounds != 0 || st.PopulationChanges != 0 {
		t.Fatalf("invariants broken:\n%s", h.Log.Format())
	}
	if st.Particles != cfg.Count || st.Frames != 600 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestHarness_ResizeKeepsPopulation(t *testing.T) {
	h := mustHarness(t, WithSeed(5), WithSize(800, 600), WithParticles(particles.DefaultConfig()))
	h.Run(60)
	h.Resize(200, 100)
	h.Resize(200, 100)
	st := h.Run(120)
	if st.OutOfBounds != 0 || st.PopulationChanges != 0 {
		t.Fatalf("resize broke invariants:\n%s", h.Log.Format())
	}
	if h.Log.Count("state", "resize") != 2 {
		t.Fatal("expected both resize events logged")
	}
}

func TestHarness_ScrambleCompletesInOrder(t *testing.T) {
	cfg := scramble.DefaultConfig()
	cfg.Sequential = true
	cfg.Direction = scramble.Center
	cfg.Speed = 50 * time.Millisecond
	h := mustHarness(t, WithSeed(3), WithFPS(60), WithScramble("HELLO", cfg))
	st := h.Run(60)
	if st.Regressions != 0 {
		t.Fatalf("monotonicity broken:\n%s", h.Log.Format())
	}
	if st.CompleteTick < 0 || h.Caption() != "HELLO" || st.ScrambleTicks != 5 {
		t.Fatalf("expected HELLO revealed in 5 steps, got %q stats %+v", h.Caption(), st)
	}
	first, ok := h.Log.LastOf("state", "resolved")
	if !ok || first.NumVal != 5 {
		t.Fatalf("last resolved entry should be 5/5, got %+v", first)
	}
	if e := h.Log.Filter("state", "resolved")[0]; e.Value != "1/5" {
		t.Fatalf("first resolution should be 1/5, got %q", e.Value)
	}
}

func TestHarness_SimultaneousBounded(t *testing.T) {
	cfg := scramble.DefaultConfig()
	cfg.MaxIterations = 6
	for seed := int64(1); seed <= 10; seed++ {
		h := mustHarness(t, WithSeed(seed), WithScramble("DECRYPTING 42", cfg))
		// 6 ticks at 50ms is 300ms = 18 frames.
		st := h.Run(20)
		if st.Regressions != 0 || st.CompleteTick < 0 || st.ScrambleTicks > cfg.MaxIterations {
			t.Fatalf("seed %d: %+v\n%s", seed, st, h.Log.Format())
		}
	}
}

func TestHarness_FuzzyHoverFromOrbit(t *testing.T) {
	h := mustHarness(t,
		WithSeed(2),
		WithSize(1280, 720),
		WithPointer(Orbit(1280, 720, 120)),
		WithFuzzy("SUMETH", fuzzy.DefaultConfig()),
	)
	st := h.Run(240)
	if st.HoverChanges == 0 {
		t.Fatalf("orbiting pointer should cross the heading:\n%s", h.Log.Format())
	}
	if st.GlyphErrors != 0 {
		t.Fatalf("glyph count mismatch:\n%s", h.Log.Format())
	}
}

func TestHarness_NoPointerNoHover(t *testing.T) {
	h := mustHarness(t, WithFuzzy("SUMETH", fuzzy.DefaultConfig()))
	if st := h.Run(60); st.HoverChanges != 0 {
		t.Fatal("absent pointer must never hover")
	}
	if h.Fuzzy().Text().Intensity() != fuzzy.DefaultConfig().BaseIntensity {
		t.Fatal("idle text should use the base intensity")
	}
}

func TestHarness_InvalidConfig(t *testing.T) {
	cfg := particles.DefaultConfig()
	cfg.Restitution = 0
	if _, err := New(WithParticles(cfg)); err == nil {
		t.Fatal("expected error for invalid particle config")
	}
}

func TestHarness_RejectsNonPositiveFPS(t *testing.T) {
	for _, fps := range []int{0, -30} {
		if _, err := New(WithFPS(fps), WithParticles(particles.DefaultConfig())); !errors.Is(err, ErrInvalidOption) {
			t.Fatalf("fps %d: expected ErrInvalidOption, got %v", fps, err)
		}
	}
}

func TestHarness_PointerPath(t *testing.T) {
	var seen []int
	h := mustHarness(t, WithPointer(func(tick int) pointer.State {
		seen = append(seen, tick)
		return pointer.Absent
	}), WithParticles(particles.DefaultConfig()))
	h.Run(3)
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Fatalf("pointer should be sampled once per frame with the current tick, got %v", seen)
	}
}

func TestRunSeeds_LandingScenario(t *testing.T) {
	cfg := config.Default()
	cfg.Window.Width, cfg.Window.Height = 640, 360
	cfg.Particles.Count = 30
	runs, err := RunSeeds(context.Background(), Landing(cfg), 3, 120, 42, 1)
	if err != nil {
		t.Fatalf("RunSeeds: %v", err)
	}
	agg := Summarize(runs)
	if agg.Runs != 3 || !agg.Clean() {
		t.Fatalf("unexpected aggregate %+v", agg)
	}
	// 16 characters at 70ms is 1.12s, inside 2s of frames.
	if agg.Incomplete != 0 || agg.CompleteMin <= 0 || agg.CompleteMax > 120 {
		t.Fatalf("every run should complete the reveal: %+v", agg)
	}
	if runs[0].Seed != 42 || runs[2].Seed != 44 {
		t.Fatalf("seeds not stepped: %d %d", runs[0].Seed, runs[2].Seed)
	}
}

func TestRunSeeds_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runs, err := RunSeeds(ctx, Landing(config.Default()), 5, 10, 1, 1)
	if err == nil || len(runs) != 0 {
		t.Fatalf("expected cancellation before any run, got %d runs err=%v", len(runs), err)
	}
}

func TestSummarize_Incomplete(t *testing.T) {
	agg := Summarize([]Stats{{CompleteTick: -1}, {CompleteTick: 10}, {CompleteTick: 20}})
	if agg.Incomplete != 1 || agg.CompleteMin != 10 || agg.CompleteMax != 20 || agg.CompleteMean != 15 {
		t.Fatalf("unexpected aggregate %+v", agg)
	}
}

func TestLog_FilterAndFormat(t *testing.T) {
	l := NewLog(false)
	l.Add(1, "scramble", "state", "resolved", "1/5", 1)
	l.AddVerbose(1, "particles", "stats", "links", "12", 12)
	l.Add(2, "fuzzy", "state", "hover", "intensity 0.50", 0.5)
	if len(l.Entries()) != 2 {
		t.Fatal("verbose entries should be dropped when not verbose")
	}
	if !l.HasEntry("state", "hover", "0.50") || l.HasEntry("state", "hover", "0.18") {
		t.Fatal("HasEntry substring match failed")
	}
	if len(l.FilterEffect("scramble")) != 1 {
		t.Fatal("FilterEffect")
	}
	if !strings.Contains(l.Format(), "[T=001] scramble") {
		t.Fatalf("unexpected format:\n%s", l.Format())
	}
}
