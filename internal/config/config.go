// Package config loads the fx TOML file. Every section decodes over the
// defaults, so a file only needs the keys it changes.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Garsondee/portfolio-fx/internal/fuzzy"
	"github.com/Garsondee/portfolio-fx/internal/particles"
	"github.com/Garsondee/portfolio-fx/internal/scramble"
)

var (
	// ErrUnknownKeys is returned when the file has keys nothing decodes.
	ErrUnknownKeys = errors.New("config: unknown keys")
	// ErrInvalid is wrapped by Validate failures outside the effect sections.
	ErrInvalid = errors.New("config: invalid")
)

// Color is an RGBA color written as "#rgb", "#rrggbb" or "#rrggbbaa".
type Color color.RGBA

// ParseColor parses a hex color.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "transparent") || strings.EqualFold(s, "none") {
		return Color{}, nil
	}
	alpha := uint8(255)
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("color %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: alpha}, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	hex := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
	if c.A != 255 {
		hex += fmt.Sprintf("%02x", c.A)
	}
	return []byte(hex), nil
}

// RGBA returns the color as color.RGBA.
func (c Color) RGBA() color.RGBA { return color.RGBA(c) }

// Window is the [window] section.
type Window struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Title  string  `toml:"title"`
	TPS    int     `toml:"tps"`
	Speed  float64 `toml:"speed"` // simulation time per wall-clock time
}

// Particles is the [particles] section.
type Particles struct {
	particles.Config
	Color      Color `toml:"color"`
	LinkColor  Color `toml:"link_color"`
	Background Color `toml:"background"`
}

// Effect returns the particle config with colors applied.
func (p Particles) Effect() particles.Config {
	c := p.Config
	c.Color = p.Color.RGBA()
	c.LinkColor = p.LinkColor.RGBA()
	c.Background = p.Background.RGBA()
	return c
}

// Fuzzy is the [fuzzy] section.
type Fuzzy struct {
	Text string `toml:"text"`
	fuzzy.Config
	Color      Color `toml:"color"`
	Background Color `toml:"background"`
}

// Effect returns the fuzzy config with colors applied.
func (f Fuzzy) Effect() fuzzy.Config {
	c := f.Config
	c.Color = f.Color.RGBA()
	c.Background = f.Background.RGBA()
	return c
}

// Scramble is the [scramble] section. Direction and trigger are decoded
// as text and parsed by Parse/Load so their errors keep
// scramble.ErrInvalidConfig.
type Scramble struct {
	Text string `toml:"text"`
	scramble.Config
	Seed int64 `toml:"seed"`

	DirectionName string `toml:"direction"`
	TriggerName   string `toml:"trigger"`
}

// resolve parses the textual direction and trigger into Config.
func (s *Scramble) resolve() error {
	d, err := scramble.ParseDirection(s.DirectionName)
	if err != nil {
		return err
	}
	t, err := scramble.ParseTrigger(s.TriggerName)
	if err != nil {
		return err
	}
	s.Direction, s.Trigger = d, t
	return nil
}

// Config is the whole file.
type Config struct {
	Window    Window    `toml:"window"`
	Particles Particles `toml:"particles"`
	Fuzzy     Fuzzy     `toml:"fuzzy"`
	Scramble  Scramble  `toml:"scramble"`
}

// Default returns the landing page setup.
func Default() Config {
	pc := particles.DefaultConfig()
	fc := fuzzy.DefaultConfig()
	sc := scramble.DefaultConfig()
	sc.Speed = 70 * time.Millisecond
	sc.Sequential = true
	sc.Direction = scramble.Center
	return Config{
		Window: Window{Width: 1280, Height: 720, Title: "portfolio-fx", TPS: 60, Speed: 1},
		Particles: Particles{
			Config:     pc,
			Color:      Color(pc.Color),
			LinkColor:  Color(pc.LinkColor),
			Background: Color(pc.Background),
		},
		Fuzzy: Fuzzy{
			Text:       "SUMETH",
			Config:     fc,
			Color:      Color(fc.Color),
			Background: Color(fc.Background),
		},
		Scramble: Scramble{
			Text:          "ACCESS PORTFOLIO",
			Config:        sc,
			DirectionName: sc.Direction.String(),
			TriggerName:   "mount",
		},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.TPS <= 0:
		return fmt.Errorf("%w: window tps must be > 0, got %d", ErrInvalid, c.Window.TPS)
	case c.Window.Speed <= 0:
		return fmt.Errorf("%w: window speed must be > 0, got %v", ErrInvalid, c.Window.Speed)
	case c.Fuzzy.Text == "":
		return fmt.Errorf("%w: fuzzy text is empty", ErrInvalid)
	}
	if err := c.Particles.Effect().Validate(); err != nil {
		return fmt.Errorf("[particles]: %w", err)
	}
	if err := c.Fuzzy.Effect().Validate(); err != nil {
		return fmt.Errorf("[fuzzy]: %w", err)
	}
	if err := c.Scramble.Config.Validate(); err != nil {
		return fmt.Errorf("[scramble]: %w", err)
	}
	return nil
}

// Parse decodes data over the defaults and validates the result.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, err
	}
	return finish(cfg, md)
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	cfg, err = finish(cfg, md)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault returns Default() for an empty path.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func finish(cfg Config, md toml.MetaData) (Config, error) {
	if und := md.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownKeys, strings.Join(keys, ", "))
	}
	if err := cfg.Scramble.resolve(); err != nil {
		return Config{}, fmt.Errorf("[scramble]: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
