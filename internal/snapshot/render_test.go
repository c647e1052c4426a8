package snapshot

import (
	"context"
	"errors"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Garsondee/portfolio-fx/internal/config"
	"github.com/Garsondee/portfolio-fx/internal/draw"
)

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.Window.Width = 320
	cfg.Window.Height = 200
	cfg.Particles.Count = 20
	cfg.Fuzzy.FontSize = 32
	return cfg
}

var orange = color.RGBA{R: 249, G: 115, B: 22, A: 255}

func quiet() *log.Logger { return log.New(io.Discard) }

func TestRender_WritesEveryNthAndLast(t *testing.T) {
	dir := t.TempDir()
	res, err := Render(context.Background(), Options{
		Config: smallConfig(),
		Frames: 30,
		Every:  10,
		OutDir: dir,
		Seed:   7,
		Logger: quiet(),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Frames != 30 || len(res.Files) != 4 {
		t.Fatalf("expected 30 frames and 4 files, got %d frames %v", res.Frames, res.Files)
	}
	if filepath.Base(res.Files[0]) != "frame-0001.png" || filepath.Base(res.Files[3]) != "frame-0030.png" {
		t.Fatalf("unexpected file names %v", res.Files)
	}
	f, err := os.Open(res.Files[3])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 200 {
		t.Fatalf("unexpected frame size %v", b)
	}
	if res.Bytes <= 0 {
		t.Fatal("expected byte count for written files")
	}
}

func TestRender_RevealsCaption(t *testing.T) {
	res, err := Render(context.Background(), Options{Config: smallConfig(), Frames: 90, Seed: 3, Path: Orbit(320, 200, 60), Logger: quiet()})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !res.Revealed || res.Caption != "ACCESS PORTFOLIO" {
		t.Fatalf("caption should be revealed after 1.5s, got %q (revealed=%v)", res.Caption, res.Revealed)
	}
	if len(res.Files) != 0 {
		t.Fatal("no files without an output dir")
	}
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Render(ctx, Options{Config: smallConfig(), Frames: 10, Logger: quiet()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRender_NoFrames(t *testing.T) {
	if _, err := Render(context.Background(), Options{Config: smallConfig()}); !errors.Is(err, ErrNoFrames) {
		t.Fatalf("expected ErrNoFrames, got %v", err)
	}
}

func TestCanvas_SurfaceLifecycle(t *testing.T) {
	faces, err := NewFaces()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewCanvas(0, 10, faces); !errors.Is(err, draw.ErrNoContext) {
		t.Fatalf("expected ErrNoContext for empty canvas, got %v", err)
	}
	c, err := NewCanvas(64, 32, faces)
	if err != nil {
		t.Fatal(err)
	}
	cv, err := c.Canvas()
	if err != nil {
		t.Fatalf("Canvas: %v", err)
	}
	if w, h := cv.Size(); w != 64 || h != 32 {
		t.Fatalf("size %dx%d", w, h)
	}
	cmds := draw.List{}.Clear().
		Line(0, 0, 64, 32, 1, draw.WithAlpha(orange, 0.5)).
		Circle(10, 10, 3, orange).
		Glyph('A', 20, 4, 16, orange)
	draw.Replay(cv, cmds)
	_ = c.Close()
	if !c.Detached() {
		t.Fatal("closed canvas should report detached")
	}
	if _, err := c.Canvas(); !errors.Is(err, draw.ErrNoContext) {
		t.Fatalf("expected ErrNoContext after close, got %v", err)
	}
}

func TestFaces_Metrics(t *testing.T) {
	faces, err := NewFaces()
	if err != nil {
		t.Fatal(err)
	}
	if a, b := faces.Advance('M', 20), faces.Advance('i', 20); a <= 0 || a != b {
		t.Fatalf("mono advances should be equal and positive: %v %v", a, b)
	}
	if faces.LineHeight(20) <= faces.LineHeight(10) {
		t.Fatal("line height should grow with size")
	}
}
