package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Garsondee/portfolio-fx/internal/particles"
	"github.com/Garsondee/portfolio-fx/internal/scramble"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Scramble.Text != "ACCESS PORTFOLIO" || cfg.Scramble.Speed != 70*time.Millisecond {
		t.Fatalf("unexpected scramble defaults: %+v", cfg.Scramble)
	}
	if !cfg.Scramble.Sequential || cfg.Scramble.Direction != scramble.Center {
		t.Fatal("scramble should default to a sequential center reveal")
	}
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse(`
[window]
width = 800

[particles]
count = 40
color = "#00ff00"
link_color = "#0000ff80"

[fuzzy]
text = "HELLO"
hover_intensity = 0.9

[scramble]
speed = "30ms"
direction = "end"
trigger = "hover"
sequential = false
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != 720 {
		t.Fatalf("window: %+v", cfg.Window)
	}
	pc := cfg.Particles.Effect()
	if pc.Count != 40 || pc.LinkDistance != particles.DefaultConfig().LinkDistance {
		t.Fatalf("particles: %+v", pc)
	}
	if pc.Color.G != 255 || pc.Color.R != 0 || pc.Color.A != 255 {
		t.Fatalf("color: %+v", pc.Color)
	}
	if pc.LinkColor.B != 255 || pc.LinkColor.A != 0x80 {
		t.Fatalf("link color: %+v", pc.LinkColor)
	}
	if cfg.Fuzzy.Text != "HELLO" || cfg.Fuzzy.Effect().HoverIntensity != 0.9 || cfg.Fuzzy.FontSize != 64 {
		t.Fatalf("fuzzy: %+v", cfg.Fuzzy)
	}
	s := cfg.Scramble
	if s.Speed != 30*time.Millisecond || s.Direction != scramble.Reverse || s.Trigger != scramble.OnHover || s.Sequential {
		t.Fatalf("scramble: %+v", s)
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse("[particles]\ncuont = 3\n")
	if !errors.Is(err, ErrUnknownKeys) || !strings.Contains(err.Error(), "particles.cuont") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestParse_RejectsInvalidSections(t *testing.T) {
	cases := map[string]error{
		"[particles]\nrestitution = 2\n":     particles.ErrInvalidConfig,
		"[scramble]\ncharacters = \"A B\"\n": scramble.ErrInvalidConfig,
		"[scramble]\ndirection = \"up\"\n":   scramble.ErrInvalidConfig,
		"[scramble]\ntrigger = \"click\"\n":  scramble.ErrInvalidConfig,
		"[window]\ntps = 0\n":                ErrInvalid,
		"[fuzzy]\ntext = \"\"\n":             ErrInvalid,
	}
	for in, want := range cases {
		if _, err := Parse(in); !errors.Is(err, want) {
			t.Fatalf("%q: expected %v, got %v", in, want, err)
		}
	}
}

func TestParse_BadColor(t *testing.T) {
	if _, err := Parse("[particles]\ncolor = \"orange\"\n"); err == nil {
		t.Fatal("expected error for non-hex color")
	}
}

func TestLoad_WrapsPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fx.toml")
	if err := os.WriteFile(path, []byte("[window]\ntitle = \"demo\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil || cfg.Window.Title != "demo" {
		t.Fatalf("Load: %v %+v", err, cfg.Window)
	}
	_, err = Load(filepath.Join(dir, "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "missing.toml") {
		t.Fatalf("expected path in error, got %v", err)
	}
}

func TestLoad_ExampleFile(t *testing.T) {
	if _, err := Load(filepath.Join("..", "..", "fx.example.toml")); err != nil {
		t.Fatalf("example config: %v", err)
	}
}

func TestColor_RoundTrip(t *testing.T) {
	for _, in := range []string{"#f97316", "#000000", "#ffffff40"} {
		c, err := ParseColor(in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", in, err)
		}
		out, _ := c.MarshalText()
		if string(out) != in {
			t.Fatalf("round trip %q -> %q", in, out)
		}
	}
	c, err := ParseColor("transparent")
	if err != nil || c.A != 0 {
		t.Fatalf("transparent: %+v %v", c, err)
	}
}
