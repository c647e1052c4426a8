package snapshot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gogpu/gg"

	"github.com/Garsondee/portfolio-fx/internal/config"
	"github.com/Garsondee/portfolio-fx/internal/fuzzy"
	"github.com/Garsondee/portfolio-fx/internal/loop"
	"github.com/Garsondee/portfolio-fx/internal/particles"
	"github.com/Garsondee/portfolio-fx/internal/pointer"
	"github.com/Garsondee/portfolio-fx/internal/scramble"
)

// ErrNoFrames is returned when Options ask for nothing to be rendered.
var ErrNoFrames = errors.New("snapshot: frames must be > 0")

const captionSize = 22

// Path scripts the pointer for a headless run.
type Path func(frame int) pointer.State

// Still is a Path with no pointer.
func Still(int) pointer.State { return pointer.Absent }

// Orbit circles the centre of a w×h canvas once every period frames, close
// enough to pass over the heading.
func Orbit(w, h, period int) Path {
	if period <= 0 {
		period = 240
	}
	return func(frame int) pointer.State {
		a := 2 * math.Pi * float64(frame%period) / float64(period)
		return pointer.At(float64(w)/2+math.Cos(a)*float64(w)/4, float64(h)/2+math.Sin(a)*float64(h)/6)
	}
}

// Options configure Render.
type Options struct {
	Config config.Config
	Frames int    // frames to simulate
	Every  int    // write every Nth frame; 0 writes only the last
	OutDir string // "" renders without writing files
	FPS    int    // simulated refresh rate; 0 uses the window tps
	Seed   int64  // 0 uses the config seeds
	Path   Path   // nil is Still
	Logger *log.Logger
}

// Result summarises a render.
type Result struct {
	Frames   int
	Files    []string
	Bytes    int64
	Caption  string
	Revealed bool
	Elapsed  time.Duration
}

// Render mounts the effects on gg canvases, advances them frame by frame
// and writes composited PNG frames. It stops early, returning ctx.Err(),
// when ctx is done.
func Render(ctx context.Context, opts Options) (Result, error) {
	if opts.Frames <= 0 {
		return Result{}, ErrNoFrames
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = cfg.Window.TPS
	}
	path := opts.Path
	if path == nil {
		path = Still
	}
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o750); err != nil {
			return Result{}, fmt.Errorf("create output dir: %w", err)
		}
	}

	faces, err := NewFaces()
	if err != nil {
		return Result{}, err
	}
	w, h := cfg.Window.Width, cfg.Window.Height
	bg, err := NewCanvas(w, h, faces)
	if err != nil {
		return Result{}, err
	}
	defer bg.Close()
	head, err := NewCanvas(w, h, faces)
	if err != nil {
		return Result{}, err
	}
	defer head.Close()

	l := loop.New(logger)
	defer l.StopAll()

	frame := 0
	cursor := pointer.SourceFunc(func() pointer.State { return path(frame) })

	pc := cfg.Particles.Effect()
	seed := pc.Seed
	if opts.Seed != 0 {
		seed = opts.Seed
	}
	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- cosmetic only
	}
	field, err := particles.Mount(l, bg, cursor, pc, rng)
	if err != nil {
		return Result{}, fmt.Errorf("particles: %w", err)
	}

	fc := cfg.Fuzzy.Effect()
	probe, err := fuzzy.Layout(cfg.Fuzzy.Text, 0, 0, faces, fc)
	if err != nil {
		return Result{}, fmt.Errorf("fuzzy: %w", err)
	}
	b := probe.Bounds()
	hx, hy := (float64(w)-b.W)/2, (float64(h)-b.H)/2-36
	if _, err := fuzzy.Mount(l, head, cursor, cfg.Fuzzy.Text, hx, hy, faces, fc); err != nil {
		return Result{}, fmt.Errorf("fuzzy: %w", err)
	}

	var caption scramble.Buffer
	scrambleSeed := cfg.Scramble.Seed
	if opts.Seed != 0 {
		scrambleSeed = opts.Seed
	}
	reveal, err := scramble.Mount(l, &caption, cfg.Scramble.Text, cfg.Scramble.Config, scramble.NewSource(scrambleSeed))
	if err != nil {
		return Result{}, fmt.Errorf("scramble: %w", err)
	}
	if cfg.Scramble.Trigger == scramble.OnHover {
		// No real hover without a window: reveal as if the pointer entered.
		if err := reveal.Hover(true); err != nil {
			return Result{}, err
		}
	}

	out, err := NewCanvas(w, h, faces)
	if err != nil {
		return Result{}, err
	}
	defer out.Close()

	start := time.Now()
	dt := time.Second / time.Duration(fps)
	res := Result{}
	for frame = 0; frame < opts.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		l.Advance(dt)
		res.Frames++

		last := frame == opts.Frames-1
		if opts.OutDir == "" || !(last || (opts.Every > 0 && frame%opts.Every == 0)) {
			continue
		}
		compose(out, bg, head, faces, caption.String(), cfg, hy+b.H)
		name := filepath.Join(opts.OutDir, fmt.Sprintf("frame-%04d.png", frame+1))
		if err := out.Context().SavePNG(name); err != nil {
			return res, fmt.Errorf("write %s: %w", name, err)
		}
		if st, err := os.Stat(name); err == nil {
			res.Bytes += st.Size()
		}
		res.Files = append(res.Files, name)
		logger.Debug("frame written", "file", name, "particles", field.Field().Len(), "caption", caption.String())
	}
	res.Caption = caption.String()
	res.Revealed = reveal.Sequence().State() == scramble.Complete
	res.Elapsed = time.Since(start)
	return res, nil
}

// compose flattens the layers into out: background color, particles,
// heading, then the caption centred under the heading.
func compose(out, bg, head *Canvas, faces *Faces, caption string, cfg config.Config, captionY float64) {
	dc := out.Context()
	dc.ClearWithColor(gg.FromColor(cfg.Particles.Background.RGBA()))
	dc.DrawImage(gg.ImageBufFromImage(bg.Context().Image()), 0, 0)
	dc.DrawImage(gg.ImageBufFromImage(head.Context().Image()), 0, 0)
	if caption == "" {
		return
	}
	dc.SetFont(faces.At(captionSize))
	dc.SetColor(cfg.Particles.Color.RGBA())
	dc.DrawStringAnchored(caption, float64(dc.Width())/2, captionY+captionSize, 0.5, 0)
}
