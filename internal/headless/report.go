package headless

import (
	"context"
	"math"

	"github.com/Garsondee/portfolio-fx/internal/config"
	"github.com/Garsondee/portfolio-fx/internal/pointer"
)

// Scenario builds the options for one seeded run.
type Scenario func(seed int64) []Option

// Landing mounts every effect from cfg with the pointer orbiting the
// heading, the way a visitor would move over the page.
func Landing(cfg config.Config) Scenario {
	return func(seed int64) []Option {
		w, h := cfg.Window.Width, cfg.Window.Height
		return []Option{
			WithSeed(seed),
			WithSize(w, h),
			WithFPS(cfg.Window.TPS),
			WithPointer(Orbit(w, h, 4*cfg.Window.TPS)),
			WithParticles(cfg.Particles.Effect()),
			WithFuzzy(cfg.Fuzzy.Text, cfg.Fuzzy.Effect()),
			WithScramble(cfg.Scramble.Text, cfg.Scramble.Config),
		}
	}
}

// Orbit circles the centre of a w×h area once every period ticks.
func Orbit(w, h, period int) Path {
	if period <= 0 {
		period = 240
	}
	return func(tick int) pointer.State {
		a := 2 * math.Pi * float64(tick%period) / float64(period)
		return pointer.At(float64(w)/2+math.Cos(a)*float64(w)/8, float64(h)/2+math.Sin(a)*float64(h)/16)
	}
}

// Aggregate summarises many runs.
type Aggregate struct {
	Runs       int
	Incomplete int // runs whose reveal never completed

	CompleteMin  int
	CompleteMax  int
	CompleteMean float64

	OutOfBounds       int
	PopulationChanges int
	Regressions       int
	GlyphErrors       int
	MeanLinks         float64
	MeanHoverChanges  float64
}

// Clean reports whether no run broke an invariant.
func (a Aggregate) Clean() bool {
	return a.OutOfBounds == 0 && a.PopulationChanges == 0 && a.Regressions == 0 && a.GlyphErrors == 0
}

// RunSeeds runs the scenario once per seed for frames frames. It stops
// between runs when ctx is done and returns what it has.
func RunSeeds(ctx context.Context, sc Scenario, runs, frames int, seedBase, seedStep int64) ([]Stats, error) {
	out := make([]Stats, 0, runs)
	for i := 0; i < runs; i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		h, err := New(sc(seedBase + int64(i)*seedStep)...)
		if err != nil {
			return out, err
		}
		out = append(out, h.Run(frames))
		h.Close()
	}
	return out, nil
}

// Summarize folds runs into an Aggregate.
func Summarize(runs []Stats) Aggregate {
	a := Aggregate{Runs: len(runs), CompleteMin: -1, CompleteMax: -1}
	completed := 0
	var completeSum, linkSum, hoverSum float64
	for _, r := range runs {
		a.OutOfBounds += r.OutOfBounds
		a.PopulationChanges += r.PopulationChanges
		a.Regressions += r.Regressions
		a.GlyphErrors += r.GlyphErrors
		linkSum += r.MeanLinks()
		hoverSum += float64(r.HoverChanges)
		if r.CompleteTick < 0 {
			a.Incomplete++
			continue
		}
		completed++
		completeSum += float64(r.CompleteTick)
		if a.CompleteMin < 0 || r.CompleteTick < a.CompleteMin {
			a.CompleteMin = r.CompleteTick
		}
		if r.CompleteTick > a.CompleteMax {
			a.CompleteMax = r.CompleteTick
		}
	}
	if completed > 0 {
		a.CompleteMean = completeSum / float64(completed)
	}
	if len(runs) > 0 {
		a.MeanLinks = linkSum / float64(len(runs))
		a.MeanHoverChanges = hoverSum / float64(len(runs))
	}
	return a
}
