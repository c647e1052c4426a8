package particles

import (
	"errors"
	"fmt"
	"image/color"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("particles: invalid config")

// Config tunes a particle field. Every visual constant is a default here,
// not a contract.
type Config struct {
	// Count is the fixed population. Zero derives it from Density and the
	// bounds at mount time.
	Count   int     `toml:"count"`
	Density float64 `toml:"density"` // particles per 10 000 px² when Count is 0

	MinSpeed  float64 `toml:"min_speed"` // px per frame
	MaxSpeed  float64 `toml:"max_speed"`
	MinRadius float64 `toml:"min_radius"`
	MaxRadius float64 `toml:"max_radius"`

	LinkDistance float64 `toml:"link_distance"` // px; pairs closer than this are linked
	LinkWidth    float64 `toml:"link_width"`
	LinkOpacity  float64 `toml:"link_opacity"` // opacity of a zero-length link

	Color      color.RGBA `toml:"-"`
	LinkColor  color.RGBA `toml:"-"`
	Background color.RGBA `toml:"-"`

	// Trail is the alpha of the background fill drawn each frame instead of
	// a clear. Zero clears the surface every frame.
	Trail float64 `toml:"trail"`

	PointerRadius float64 `toml:"pointer_radius"` // 0 disables pointer interaction
	PointerForce  float64 `toml:"pointer_force"`  // >0 repels, <0 attracts
	SpeedLimit    float64 `toml:"speed_limit"`    // hard cap on particle speed

	// Restitution scales the reflected velocity component at a boundary.
	// 1 is a perfectly elastic bounce.
	Restitution float64 `toml:"restitution"`

	Seed int64 `toml:"seed"` // 0 seeds from the clock
}

// Site palette.
var (
	orange = color.RGBA{R: 249, G: 115, B: 22, A: 255}
	black  = color.RGBA{A: 255}
)

// DefaultConfig returns the ambient background used on the landing page.
func DefaultConfig() Config {
	return Config{
		Count:         90,
		Density:       0.9,
		MinSpeed:      0.1,
		MaxSpeed:      0.6,
		MinRadius:     0.8,
		MaxRadius:     2.2,
		LinkDistance:  120,
		LinkWidth:     1,
		LinkOpacity:   0.35,
		Color:         orange,
		LinkColor:     orange,
		Background:    black,
		Trail:         0,
		PointerRadius: 140,
		PointerForce:  0.06,
		SpeedLimit:    1.6,
		Restitution:   1,
	}
}

// Validate rejects configurations that could only come from a caller bug.
// Nothing is clamped.
func (c Config) Validate() error {
	switch {
	case c.Count < 0:
		return fmt.Errorf("%w: count must be >= 0, got %d", ErrInvalidConfig, c.Count)
	case c.Count == 0 && c.Density <= 0:
		return fmt.Errorf("%w: count is 0 so density must be > 0, got %v", ErrInvalidConfig, c.Density)
	case c.MinSpeed < 0:
		return fmt.Errorf("%w: min_speed must be >= 0, got %v", ErrInvalidConfig, c.MinSpeed)
	case c.MaxSpeed < c.MinSpeed:
		return fmt.Errorf("%w: max_speed %v below min_speed %v", ErrInvalidConfig, c.MaxSpeed, c.MinSpeed)
	case c.MinRadius <= 0 || c.MaxRadius < c.MinRadius:
		return fmt.Errorf("%w: radius range [%v, %v] must be positive and ordered", ErrInvalidConfig, c.MinRadius, c.MaxRadius)
	case c.LinkDistance <= 0:
		return fmt.Errorf("%w: link_distance must be > 0, got %v", ErrInvalidConfig, c.LinkDistance)
	case c.LinkWidth <= 0:
		return fmt.Errorf("%w: link_width must be > 0, got %v", ErrInvalidConfig, c.LinkWidth)
	case c.LinkOpacity < 0 || c.LinkOpacity > 1:
		return fmt.Errorf("%w: link_opacity must be in [0, 1], got %v", ErrInvalidConfig, c.LinkOpacity)
	case c.Trail < 0 || c.Trail >= 1:
		return fmt.Errorf("%w: trail must be in [0, 1), got %v", ErrInvalidConfig, c.Trail)
	case c.PointerRadius < 0:
		return fmt.Errorf("%w: pointer_radius must be >= 0, got %v", ErrInvalidConfig, c.PointerRadius)
	case c.SpeedLimit < c.MaxSpeed || c.SpeedLimit <= 0:
		return fmt.Errorf("%w: speed_limit %v must be positive and >= max_speed %v", ErrInvalidConfig, c.SpeedLimit, c.MaxSpeed)
	case c.Restitution <= 0 || c.Restitution > 1:
		return fmt.Errorf("%w: restitution must be in (0, 1], got %v", ErrInvalidConfig, c.Restitution)
	}
	return nil
}

// population resolves the particle count for a w×h surface.
func (c Config) population(w, h float64) int {
	if c.Count > 0 {
		return c.Count
	}
	n := int(w * h / 10000 * c.Density)
	if n < 1 {
		n = 1
	}
	return n
}
