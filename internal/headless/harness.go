// Package headless runs the effects without any surface or window and
// checks their invariants frame by frame. It backs the report command and
// the package tests.
package headless

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/Garsondee/portfolio-fx/internal/draw"
	"github.com/Garsondee/portfolio-fx/internal/fuzzy"
	"github.com/Garsondee/portfolio-fx/internal/loop"
	"github.com/Garsondee/portfolio-fx/internal/particles"
	"github.com/Garsondee/portfolio-fx/internal/pointer"
	"github.com/Garsondee/portfolio-fx/internal/scramble"
)

// Path scripts the pointer position per tick.
type Path func(tick int) pointer.State

// Harness is a deterministic, window-less host for all three effects.
type Harness struct {
	Width  int
	Height int
	FPS    int
	Log    *Log
	Tick   int

	seed    int64
	rng     *rand.Rand
	path    Path
	logger  *log.Logger
	loop    *loop.Loop
	pointer pointer.SourceFunc

	particleCfg *particles.Config
	particles   *particles.Instance
	bg          *draw.Recorder

	fuzzyText string
	fuzzyCfg  fuzzy.Config
	fuzzy     *fuzzy.Instance
	heading   *draw.Recorder

	scrambleText string
	scrambleCfg  *scramble.Config
	reveal       *scramble.Reveal
	caption      scramble.Buffer

	stats Stats
	prev  scrambleSnapshot
}

type scrambleSnapshot struct {
	display  []rune
	resolved []bool
	count    int
	state    scramble.State
}

// Stats summarises one run.
type Stats struct {
	Seed      int64
	Frames    int
	Particles int

	PopulationChanges int // frames where the particle count differed from the start
	OutOfBounds       int // particle positions found outside the bounds
	LinkSum           int

	ScrambleLen   int
	CompleteTick  int // tick the reveal completed, -1 if it did not
	ScrambleTicks int // reveal steps taken
	Regressions   int // resolved positions that changed or unresolved

	HoverChanges int
	GlyphErrors  int // frames whose glyph count did not match the text
}

// MeanLinks is the mean number of links per frame.
func (s Stats) MeanLinks() float64 {
	if s.Frames == 0 {
		return 0
	}
	return float64(s.LinkSum) / float64(s.Frames)
}

// Option configures a Harness. Infra options apply before effects are
// mounted.
type Option struct {
	infra bool
	fn    func(*Harness)
}

// WithSeed seeds every effect.
func WithSeed(seed int64) Option {
	return Option{true, func(h *Harness) {
		h.seed = seed
		h.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithSize sets the surface size.
func WithSize(w, hh int) Option {
	return Option{true, func(h *Harness) {
		h.Width, h.Height = w, hh
	}}
}

// WithFPS sets the simulated refresh rate.
func WithFPS(fps int) Option {
	return Option{true, func(h *Harness) { h.FPS = fps }}
}

// WithVerbose keeps per-frame stats entries in the log.
func WithVerbose(v bool) Option {
	return Option{true, func(h *Harness) { h.Log = NewLog(v) }}
}

// WithLogger routes loop lifecycle logs.
func WithLogger(l *log.Logger) Option {
	return Option{true, func(h *Harness) { h.logger = l }}
}

// WithPointer scripts the pointer.
func WithPointer(p Path) Option {
	return Option{true, func(h *Harness) { h.path = p }}
}

// WithParticles mounts a particle field.
func WithParticles(cfg particles.Config) Option {
	return Option{false, func(h *Harness) { h.particleCfg = &cfg }}
}

// WithFuzzy mounts distorted text at the centre.
func WithFuzzy(text string, cfg fuzzy.Config) Option {
	return Option{false, func(h *Harness) {
		h.fuzzyText = text
		h.fuzzyCfg = cfg
	}}
}

// WithScramble mounts a reveal of text. The reveal starts on mount
// whatever cfg.Trigger says.
func WithScramble(text string, cfg scramble.Config) Option {
	return Option{false, func(h *Harness) {
		h.scrambleText = text
		h.scrambleCfg = &cfg
	}}
}

// ErrInvalidOption reports a harness option outside its valid range.
var ErrInvalidOption = errors.New("headless: invalid option")

// New builds a harness. Invalid effect configs are returned as errors.
func New(opts ...Option) (*Harness, error) {
	h := &Harness{
		Width:  1280,
		Height: 720,
		FPS:    60,
		Log:    NewLog(false),
		seed:   1,
		rng:    rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
		path:   func(int) pointer.State { return pointer.Absent },
	}
	for _, o := range opts {
		if o.infra {
			o.fn(h)
		}
	}
	if h.FPS <= 0 {
		return nil, fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidOption, h.FPS)
	}
	for _, o := range opts {
		if !o.infra {
			o.fn(h)
		}
	}
	if h.logger == nil {
		h.logger = log.New(io.Discard)
	}
	h.loop = loop.New(h.logger)
	h.pointer = func() pointer.State { return h.path(h.Tick) }
	h.stats = Stats{Seed: h.seed, CompleteTick: -1}

	if h.particleCfg != nil {
		h.bg = draw.NewRecorder(h.Width, h.Height)
		in, err := particles.Mount(h.loop, h.bg, h.pointer, *h.particleCfg, h.rng)
		if err != nil {
			return nil, err
		}
		if in.Active() {
			h.particles = in
			h.stats.Particles = in.Field().Len()
			h.Log.Add(0, "particles", "state", "mounted", fmt.Sprintf("%d particles", in.Field().Len()), float64(in.Field().Len()))
		} else {
			h.Log.Add(0, "particles", "state", "inert", fmt.Sprintf("no canvas at %dx%d", h.Width, h.Height), 0)
		}
	}
	if h.fuzzyText != "" {
		h.heading = draw.NewRecorder(h.Width, h.Height)
		cfg := h.fuzzyCfg
		cfg.Seed = h.seed
		x := float64(h.Width)/2 - float64(len([]rune(h.fuzzyText)))*cfg.FontSize*0.3
		in, err := fuzzy.Mount(h.loop, h.heading, h.pointer, h.fuzzyText, x, float64(h.Height)/2, nil, cfg)
		if err != nil {
			return nil, err
		}
		h.fuzzy = in
	}
	if h.scrambleCfg != nil {
		cfg := *h.scrambleCfg
		cfg.Trigger = scramble.OnMount
		r, err := scramble.Mount(h.loop, &h.caption, h.scrambleText, cfg, rand.New(rand.NewSource(h.seed+1))) // #nosec G404 -- test harness
		if err != nil {
			return nil, err
		}
		h.reveal = r
		h.stats.ScrambleLen = r.Sequence().Len()
		h.prev = snapshotOf(r.Sequence())
		if r.Sequence().State() == scramble.Complete {
			h.stats.CompleteTick = 0
		}
	}
	return h, nil
}

func snapshotOf(s *scramble.Sequence) scrambleSnapshot {
	snap := scrambleSnapshot{
		display:  []rune(s.Display()),
		resolved: make([]bool, s.Len()),
		count:    s.ResolvedCount(),
		state:    s.State(),
	}
	for i := range snap.resolved {
		snap.resolved[i] = s.Resolved(i)
	}
	return snap
}

// Particles returns the mounted particle instance, or nil.
func (h *Harness) Particles() *particles.Instance { return h.particles }

// Fuzzy returns the mounted fuzzy instance, or nil.
func (h *Harness) Fuzzy() *fuzzy.Instance { return h.fuzzy }

// Reveal returns the mounted scramble reveal, or nil.
func (h *Harness) Reveal() *scramble.Reveal { return h.reveal }

// Caption is the scramble text as last published.
func (h *Harness) Caption() string { return h.caption.String() }

// Stats returns the run summary so far.
func (h *Harness) Stats() Stats { return h.stats }

// Resize changes the surface size between frames.
func (h *Harness) Resize(w, hh int) {
	h.Width, h.Height = w, hh
	if h.bg != nil {
		h.bg.W, h.bg.H = w, hh
	}
	h.particles.Resize(w, hh)
	h.Log.Add(h.Tick, "--", "state", "resize", fmt.Sprintf("%dx%d", w, hh), 0)
}

// Step advances every effect by one frame and checks invariants.
func (h *Harness) Step() {
	h.Tick++
	var hovered bool
	if h.fuzzy != nil {
		hovered = h.fuzzy.Text().Hovered()
	}
	h.loop.Advance(time.Second / time.Duration(h.FPS))
	h.stats.Frames++

	if h.particles != nil {
		h.checkParticles()
	}
	if h.fuzzy != nil {
		h.checkFuzzy(hovered)
	}
	if h.reveal != nil {
		h.checkScramble()
	}
}

// Run advances n frames.
func (h *Harness) Run(n int) Stats {
	for i := 0; i < n; i++ {
		h.Step()
	}
	return h.stats
}

func (h *Harness) checkParticles() {
	f := h.particles.Field()
	if f.Len() != h.stats.Particles {
		h.stats.PopulationChanges++
		h.Log.Add(h.Tick, "particles", "invariant", "population_changed", fmt.Sprintf("%d -> %d", h.stats.Particles, f.Len()), float64(f.Len()))
	}
	w, hh := f.Bounds()
	for i, p := range f.Particles() {
		if p.X < 0 || p.X > w || p.Y < 0 || p.Y > hh {
			h.stats.OutOfBounds++
			h.Log.Add(h.Tick, "particles", "invariant", "out_of_bounds", fmt.Sprintf("#%d at (%.1f, %.1f)", i, p.X, p.Y), 0)
		}
	}
	links := len(f.Links())
	h.stats.LinkSum += links
	h.Log.AddVerbose(h.Tick, "particles", "stats", "links", fmt.Sprintf("%d", links), float64(links))
}

func (h *Harness) checkFuzzy(wasHovered bool) {
	t := h.fuzzy.Text()
	if t.Hovered() != wasHovered {
		h.stats.HoverChanges++
		h.Log.Add(h.Tick, "fuzzy", "state", "hover", fmt.Sprintf("intensity %.2f", t.Intensity()), t.Intensity())
	}
	want := 0
	for _, c := range t.Layout() {
		if c.Rune != ' ' {
			want++
		}
	}
	if got := h.heading.Frame().Count(draw.OpGlyph); got != want {
		h.stats.GlyphErrors++
		h.Log.Add(h.Tick, "fuzzy", "invariant", "glyph_count", fmt.Sprintf("%d drawn, %d expected", got, want), float64(got))
	}
}

func (h *Harness) checkScramble() {
	seq := h.reveal.Sequence()
	cur := snapshotOf(seq)
	if len(cur.display) != len(h.prev.display) {
		h.stats.Regressions++
		h.Log.Add(h.Tick, "scramble", "invariant", "length_changed", fmt.Sprintf("%d -> %d", len(h.prev.display), len(cur.display)), 0)
	}
	for i := range cur.resolved {
		if i >= len(h.prev.resolved) || !h.prev.resolved[i] {
			continue
		}
		if !cur.resolved[i] || cur.display[i] != h.prev.display[i] {
			h.stats.Regressions++
			h.Log.Add(h.Tick, "scramble", "invariant", "regressed", fmt.Sprintf("position %d", i), float64(i))
		}
	}
	for i, r := range []rune(seq.Target()) {
		if unicode.IsSpace(r) && cur.display[i] != r {
			h.stats.Regressions++
			h.Log.Add(h.Tick, "scramble", "invariant", "whitespace", fmt.Sprintf("position %d", i), float64(i))
		}
	}
	if cur.count != h.prev.count {
		h.Log.Add(h.Tick, "scramble", "state", "resolved", fmt.Sprintf("%d/%d", cur.count, seq.Len()), float64(cur.count))
	}
	if cur.state == scramble.Complete && h.prev.state != scramble.Complete {
		h.stats.CompleteTick = h.Tick
		h.Log.Add(h.Tick, "scramble", "state", "complete", seq.Display(), float64(seq.Step()))
	}
	h.stats.ScrambleTicks = seq.Step()
	h.prev = cur
}

// Close stops every effect.
func (h *Harness) Close() { h.loop.StopAll() }
