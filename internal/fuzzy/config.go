package fuzzy

import (
	"errors"
	"fmt"
	"image/color"
)

var (
	// ErrInvalidConfig is wrapped by every Validate failure.
	ErrInvalidConfig = errors.New("fuzzy: invalid config")
	// ErrEmptyText is returned when there is nothing to render.
	ErrEmptyText = errors.New("fuzzy: empty text")
)

// Config tunes the distortion.
type Config struct {
	FontSize       float64 `toml:"font_size"`       // px
	BaseIntensity  float64 `toml:"base_intensity"`  // idle distortion, 0 = still
	HoverIntensity float64 `toml:"hover_intensity"` // distortion while hovered
	EnableHover    bool    `toml:"enable_hover"`

	// FuzzRange is the largest horizontal offset, in px, at intensity 1.
	FuzzRange float64 `toml:"fuzz_range"`
	// VerticalRatio scales vertical jitter relative to horizontal.
	VerticalRatio float64 `toml:"vertical_ratio"`
	// NoiseSpeed is how far through the noise field one second travels.
	NoiseSpeed    float64 `toml:"noise_speed"`
	LetterSpacing float64 `toml:"letter_spacing"` // px added after each glyph

	Color      color.RGBA `toml:"-"`
	Background color.RGBA `toml:"-"`

	Seed int64 `toml:"seed"`
}

// DefaultConfig matches the landing page heading.
func DefaultConfig() Config {
	return Config{
		FontSize:       64,
		BaseIntensity:  0.18,
		HoverIntensity: 0.5,
		EnableHover:    true,
		FuzzRange:      30,
		VerticalRatio:  0.25,
		NoiseSpeed:     6,
		LetterSpacing:  0,
		Color:          color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Validate rejects configurations that could only come from a caller bug.
func (c Config) Validate() error {
	switch {
	case c.FontSize <= 0:
		return fmt.Errorf("%w: font_size must be > 0, got %v", ErrInvalidConfig, c.FontSize)
	case c.BaseIntensity < 0:
		return fmt.Errorf("%w: base_intensity must be >= 0, got %v", ErrInvalidConfig, c.BaseIntensity)
	case c.HoverIntensity < 0:
		return fmt.Errorf("%w: hover_intensity must be >= 0, got %v", ErrInvalidConfig, c.HoverIntensity)
	case c.FuzzRange <= 0:
		return fmt.Errorf("%w: fuzz_range must be > 0, got %v", ErrInvalidConfig, c.FuzzRange)
	case c.VerticalRatio < 0:
		return fmt.Errorf("%w: vertical_ratio must be >= 0, got %v", ErrInvalidConfig, c.VerticalRatio)
	case c.NoiseSpeed <= 0:
		return fmt.Errorf("%w: noise_speed must be > 0, got %v", ErrInvalidConfig, c.NoiseSpeed)
	}
	return nil
}
