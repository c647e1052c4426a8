// Package scramble animates a string from random glyphs to its final
// value in discrete ticks. Positions lock in one at a time along a reveal
// direction (sequential mode) or independently as soon as their random
// glyph hits the target or their iteration budget runs out.
package scramble

import (
	"math/rand"
	"time"
	"unicode"
)

// State of a sequence.
type State int

const (
	Idle State = iota
	Scrambling
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scrambling:
		return "scrambling"
	case Complete:
		return "complete"
	}
	return "unknown"
}

// Source is the randomness behind scrambled glyphs. *rand.Rand satisfies
// it; tests inject a seeded one to get exact sequences.
type Source interface {
	Intn(n int) int
}

// NewSource returns a seeded source. Seed 0 seeds from the clock.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- cosmetic only
}

// Order returns the reveal permutation of n positions for d. Center
// starts at n/2 and alternates left and right: 5 gives 2 1 3 0 4.
func Order(n int, d Direction) []int {
	out := make([]int, n)
	switch d {
	case Reverse:
		for k := range out {
			out[k] = n - 1 - k
		}
	case Center:
		mid := n / 2
		for k := range out {
			off := k / 2
			if k%2 == 0 {
				out[k] = mid + off
			} else {
				out[k] = mid - off - 1
			}
		}
	default:
		for k := range out {
			out[k] = k
		}
	}
	return out
}

// Sequence is the reveal state machine. Between ticks the displayed text
// always has the target's length, resolved positions never change and the
// resolved set only grows.
type Sequence struct {
	cfg Config
	src Source

	target   []rune
	display  []rune
	resolved []bool
	iters    []int
	order    []int
	pool     []rune

	cursor   int // next entry of order in sequential mode
	nResolve int
	step     int
	state    State
}

// NewSequence validates cfg and returns an idle sequence.
func NewSequence(cfg Config, src Source) (*Sequence, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = NewSource(0)
	}
	return &Sequence{cfg: cfg, src: src}, nil
}

// Start validates cfg and returns a sequence already started on target.
func Start(target string, cfg Config, src Source) (*Sequence, error) {
	s, err := NewSequence(cfg, src)
	if err != nil {
		return nil, err
	}
	s.Start(target)
	return s, nil
}

// Start discards all previous state and begins revealing target from a
// freshly scrambled display. An empty target completes immediately.
func (s *Sequence) Start(target string) {
	s.target = []rune(target)
	n := len(s.target)
	s.display = make([]rune, n)
	s.resolved = make([]bool, n)
	s.iters = make([]int, n)
	s.order = Order(n, s.cfg.Direction)
	s.pool = s.cfg.pool(s.target)
	s.cursor, s.nResolve, s.step = 0, 0, 0
	for i := range s.display {
		s.display[i] = s.glyph(i)
	}
	s.state = Scrambling
	if n == 0 {
		s.state = Complete
	}
}

// Reset returns to Idle with the target shown as-is.
func (s *Sequence) Reset() {
	s.display = append(s.display[:0], s.target...)
	for i := range s.resolved {
		s.resolved[i] = false
		s.iters[i] = 0
	}
	s.cursor, s.nResolve, s.step = 0, 0, 0
	s.state = Idle
}

// glyph draws a scrambled glyph for position i. Whitespace is never
// scrambled so the text keeps its shape.
func (s *Sequence) glyph(i int) rune {
	if unicode.IsSpace(s.target[i]) {
		return s.target[i]
	}
	return s.pool[s.src.Intn(len(s.pool))]
}

func (s *Sequence) resolve(i int) {
	s.display[i] = s.target[i]
	s.resolved[i] = true
	s.nResolve++
}

// Tick advances one step. It reports whether anything happened, which is
// false outside Scrambling.
func (s *Sequence) Tick() bool {
	if s.state != Scrambling {
		return false
	}
	s.step++
	if s.cfg.Sequential {
		s.resolve(s.order[s.cursor])
		s.cursor++
		for i := range s.display {
			if !s.resolved[i] {
				s.display[i] = s.glyph(i)
			}
		}
	} else {
		for i := range s.display {
			if s.resolved[i] {
				continue
			}
			s.iters[i]++
			g := s.glyph(i)
			if g == s.target[i] || s.iters[i] >= s.cfg.MaxIterations {
				s.resolve(i)
				continue
			}
			s.display[i] = g
		}
	}
	if s.nResolve == len(s.target) {
		s.state = Complete
	}
	return true
}

// Display is the text to show right now.
func (s *Sequence) Display() string { return string(s.display) }

// Target is the final text.
func (s *Sequence) Target() string { return string(s.target) }

// State returns the current state.
func (s *Sequence) State() State { return s.state }

// Step returns the number of ticks since Start.
func (s *Sequence) Step() int { return s.step }

// Len is the target length in runes.
func (s *Sequence) Len() int { return len(s.target) }

// Resolved reports whether position i has locked in.
func (s *Sequence) Resolved(i int) bool { return s.resolved[i] }

// ResolvedCount returns how many positions have locked in.
func (s *Sequence) ResolvedCount() int { return s.nResolve }

// Order returns a copy of the reveal permutation in use.
func (s *Sequence) Order() []int { return append([]int(nil), s.order...) }

// Config returns the sequence's configuration.
func (s *Sequence) Config() Config { return s.cfg }

// MaxTicks is the most ticks a Start can take to complete for a target of
// n runes under cfg.
func MaxTicks(n int, cfg Config) int {
	if cfg.Sequential {
		return n
	}
	if n == 0 {
		return 0
	}
	return cfg.MaxIterations
}
