package scramble

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("scramble: invalid config")

// DefaultCharacters is the glyph pool for scrambled positions.
const DefaultCharacters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()_+"

// Direction is the order in which positions lock to their target.
type Direction int

const (
	Forward Direction = iota // index order
	Reverse                  // last index first
	Center                   // middle first, expanding outward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	case Center:
		return "center"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection accepts forward|start, reverse|end and center.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "start", "":
		return Forward, nil
	case "reverse", "end":
		return Reverse, nil
	case "center", "centre":
		return Center, nil
	}
	return Forward, fmt.Errorf("%w: unknown direction %q", ErrInvalidConfig, s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Trigger is the host policy for when a reveal starts.
type Trigger int

const (
	OnMount Trigger = iota // start as soon as the text is shown
	OnHover                // start when the pointer enters, reset when it leaves
)

// ParseTrigger accepts mount|view and hover.
func ParseTrigger(s string) (Trigger, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mount", "view", "":
		return OnMount, nil
	case "hover":
		return OnHover, nil
	}
	return OnMount, fmt.Errorf("%w: unknown trigger %q", ErrInvalidConfig, s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Trigger) UnmarshalText(b []byte) error {
	v, err := ParseTrigger(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Trigger) MarshalText() ([]byte, error) {
	if t == OnHover {
		return []byte("hover"), nil
	}
	return []byte("mount"), nil
}

// Config tunes a reveal.
type Config struct {
	Speed         time.Duration `toml:"speed"`          // interval between ticks
	MaxIterations int           `toml:"max_iterations"` // per-position cap in simultaneous mode
	Sequential    bool          `toml:"sequential"`
	Direction     Direction     `toml:"direction"`

	// Characters is the scramble pool. It must not contain whitespace.
	Characters string `toml:"characters"`
	// UseOriginalCharsOnly scrambles with the target's own characters.
	UseOriginalCharsOnly bool `toml:"use_original_chars_only"`

	Trigger Trigger `toml:"trigger"`
}

// DefaultConfig returns the library defaults.
func DefaultConfig() Config {
	return Config{
		Speed:         50 * time.Millisecond,
		MaxIterations: 10,
		Direction:     Forward,
		Characters:    DefaultCharacters,
	}
}

// Validate rejects configurations that could only come from a caller bug.
func (c Config) Validate() error {
	switch {
	case c.Speed <= 0:
		return fmt.Errorf("%w: speed must be > 0, got %v", ErrInvalidConfig, c.Speed)
	case c.MaxIterations < 1:
		return fmt.Errorf("%w: max_iterations must be >= 1, got %d", ErrInvalidConfig, c.MaxIterations)
	case c.Direction < Forward || c.Direction > Center:
		return fmt.Errorf("%w: unknown direction %d", ErrInvalidConfig, int(c.Direction))
	case !c.UseOriginalCharsOnly && c.Characters == "":
		return fmt.Errorf("%w: characters must not be empty", ErrInvalidConfig)
	case strings.IndexFunc(c.Characters, unicode.IsSpace) >= 0:
		return fmt.Errorf("%w: characters must not contain whitespace", ErrInvalidConfig)
	}
	return nil
}

// pool returns the scramble glyphs for target.
func (c Config) pool(target []rune) []rune {
	if c.UseOriginalCharsOnly {
		seen := make(map[rune]bool, len(target))
		var out []rune
		for _, r := range target {
			if unicode.IsSpace(r) || seen[r] {
				continue
			}
			seen[r] = true
			out = append(out, r)
		}
		if len(out) > 0 {
			return out
		}
	}
	if c.Characters == "" {
		return []rune(DefaultCharacters)
	}
	return []rune(c.Characters)
}
