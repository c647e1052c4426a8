// Package loop drives effect callbacks once per host refresh.
//
// A Loop belongs to exactly one host (a window, a headless renderer, a
// terminal model) and is advanced by that host's own frame callback. Every
// mounted effect gets its own Handle; stopping a handle is the only way to
// cancel an effect and it takes effect before Stop returns.
//
// A Loop is not safe for concurrent use. Hosts call Advance from the single
// goroutine that owns the drawing surface.
package loop

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ErrInvalidInterval is returned by Every for a non-positive interval.
var ErrInvalidInterval = errors.New("loop: interval must be positive")

// Frame describes one host refresh as seen by a callback.
type Frame struct {
	Index   int           // refreshes delivered to this handle so far, starting at 0
	Elapsed time.Duration // time since the handle was mounted, including this refresh
	Delta   time.Duration // time covered by this refresh
}

// FrameFunc is invoked once per delivered refresh.
type FrameFunc func(f Frame)

// Handle is the cancellation token of one mounted callback.
type Handle struct {
	id      uuid.UUID
	name    string
	fn      FrameFunc
	every   time.Duration // 0 = every refresh
	accum   time.Duration // pending time for interval handles
	elapsed time.Duration
	index   int
	stopped bool
	loop    *Loop
}

// ID returns the handle's unique identifier.
func (h *Handle) ID() uuid.UUID { return h.id }

// Name returns the label given at mount time.
func (h *Handle) Name() string { return h.name }

// Stopped reports whether Stop has been called.
func (h *Handle) Stopped() bool { return h == nil || h.stopped }

// Stop cancels the handle. It is safe to call more than once, on a nil
// handle, and from inside the handle's own callback.
func (h *Handle) Stop() {
	if h == nil || h.stopped {
		return
	}
	h.stopped = true
	h.loop.logger.Debug("effect stopped", "name", h.name, "id", h.id, "frames", h.index)
}

// Loop owns the handles mounted by one host.
type Loop struct {
	handles []*Handle
	logger  *log.Logger
	frames  int
}

// New creates an empty loop. A nil logger falls back to log.Default().
func New(logger *log.Logger) *Loop {
	if logger == nil {
		logger = log.Default()
	}
	return &Loop{logger: logger}
}

// Logger returns the logger shared by everything mounted on this loop.
func (l *Loop) Logger() *log.Logger { return l.logger }

// Frame mounts fn to run on every refresh.
func (l *Loop) Frame(name string, fn FrameFunc) *Handle {
	return l.mount(name, 0, fn)
}

// Every mounts fn to run once per whole interval of advanced time.
func (l *Loop) Every(name string, interval time.Duration, fn FrameFunc) (*Handle, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: %s got %v", ErrInvalidInterval, name, interval)
	}
	return l.mount(name, interval, fn), nil
}

func (l *Loop) mount(name string, every time.Duration, fn FrameFunc) *Handle {
	h := &Handle{
		id:    uuid.New(),
		name:  name,
		fn:    fn,
		every: every,
		loop:  l,
	}
	l.handles = append(l.handles, h)
	l.logger.Debug("effect mounted", "name", name, "id", h.id, "every", every)
	return h
}

// Advance runs one host refresh covering dt. Handles run in mount order.
// Handles mounted during Advance first run on the next refresh.
func (l *Loop) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	l.frames++
	// Callbacks may stop handles and prune l.handles in place.
	pending := append([]*Handle(nil), l.handles...)
	for _, h := range pending {
		if h.stopped {
			continue
		}
		if h.every == 0 {
			h.elapsed += dt
			h.fn(Frame{Index: h.index, Elapsed: h.elapsed, Delta: dt})
			h.index++
			continue
		}
		// Interval handles fire once per whole interval; the remainder
		// carries over to the next refresh.
		h.accum += dt
		for h.accum >= h.every && !h.stopped {
			h.accum -= h.every
			h.elapsed += h.every
			h.fn(Frame{Index: h.index, Elapsed: h.elapsed, Delta: h.every})
			h.index++
		}
	}
	l.prune()
}

func (l *Loop) prune() {
	kept := l.handles[:0]
	for _, h := range l.handles {
		if !h.stopped {
			kept = append(kept, h)
		}
	}
	for i := len(kept); i < len(l.handles); i++ {
		l.handles[i] = nil
	}
	l.handles = kept
}

// Len returns the number of live handles.
func (l *Loop) Len() int {
	n := 0
	for _, h := range l.handles {
		if !h.stopped {
			n++
		}
	}
	return n
}

// Refreshes returns how many times Advance has been called.
func (l *Loop) Refreshes() int { return l.frames }

// StopAll stops every live handle.
func (l *Loop) StopAll() {
	for _, h := range l.handles {
		h.Stop()
	}
	l.prune()
}
