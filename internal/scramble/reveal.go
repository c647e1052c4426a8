package scramble

import (
	"github.com/charmbracelet/log"

	"github.com/Garsondee/portfolio-fx/internal/loop"
)

// Container receives the text to expose after every change.
type Container interface {
	SetText(s string)
}

// ContainerFunc adapts a function to Container.
type ContainerFunc func(s string)

// SetText implements Container.
func (f ContainerFunc) SetText(s string) { f(s) }

// Buffer is a Container that keeps the latest text.
type Buffer struct {
	text    string
	updates int
}

// SetText implements Container.
func (b *Buffer) SetText(s string) {
	b.text = s
	b.updates++
}

// String returns the latest text.
func (b *Buffer) String() string { return b.text }

// Updates returns how many times the text was set.
func (b *Buffer) Updates() int { return b.updates }

// Reveal runs a Sequence on a loop and pushes every change to a
// container.
type Reveal struct {
	loop    *loop.Loop
	out     Container
	seq     *Sequence
	handle  *loop.Handle
	target  string
	hovered bool
	logger  *log.Logger
}

// Mount validates cfg and binds a reveal of target to l and out. With the
// OnMount trigger the animation starts right away; with OnHover the
// target is shown as-is until Hover(true).
func Mount(l *loop.Loop, out Container, target string, cfg Config, src Source) (*Reveal, error) {
	seq, err := NewSequence(cfg, src)
	if err != nil {
		return nil, err
	}
	r := &Reveal{loop: l, out: out, seq: seq, target: target, logger: l.Logger()}
	if cfg.Trigger == OnMount {
		if err := r.Trigger(target); err != nil {
			return nil, err
		}
		return r, nil
	}
	seq.Start(target)
	seq.Reset()
	out.SetText(seq.Display())
	return r, nil
}

// Trigger restarts the reveal on target from any state.
func (r *Reveal) Trigger(target string) error {
	r.handle.Stop()
	r.handle = nil
	r.target = target
	r.seq.Start(target)
	r.out.SetText(r.seq.Display())
	if r.seq.State() == Complete {
		return nil
	}
	h, err := r.loop.Every("scramble", r.seq.cfg.Speed, r.tick)
	if err != nil {
		return err
	}
	r.handle = h
	r.logger.Debug("scramble started", "text", target, "sequential", r.seq.cfg.Sequential, "direction", r.seq.cfg.Direction)
	return nil
}

// Restart triggers again on the current target.
func (r *Reveal) Restart() error { return r.Trigger(r.target) }

func (r *Reveal) tick(loop.Frame) {
	if !r.seq.Tick() {
		return
	}
	r.out.SetText(r.seq.Display())
	if r.seq.State() == Complete {
		r.handle.Stop()
		r.logger.Debug("scramble complete", "text", r.target, "ticks", r.seq.Step())
	}
}

// Hover applies the OnHover policy: entering starts a reveal, leaving
// cancels it and shows the target. It is a no-op for OnMount.
func (r *Reveal) Hover(in bool) error {
	if r.seq.cfg.Trigger != OnHover || in == r.hovered {
		return nil
	}
	r.hovered = in
	if in {
		return r.Trigger(r.target)
	}
	r.handle.Stop()
	r.handle = nil
	r.seq.Reset()
	r.out.SetText(r.seq.Display())
	return nil
}

// Sequence returns the underlying state machine.
func (r *Reveal) Sequence() *Sequence { return r.seq }

// Text is the currently displayed text.
func (r *Reveal) Text() string { return r.seq.Display() }

// Running reports whether ticks are still scheduled.
func (r *Reveal) Running() bool { return r.handle != nil && !r.handle.Stopped() }

// Unmount stops ticking. No update reaches the container afterwards.
func (r *Reveal) Unmount() {
	r.handle.Stop()
}
