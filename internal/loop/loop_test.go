package loop

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func quietLoop() *Loop {
	return New(log.New(io.Discard))
}

func TestFrame_RunsEveryAdvance(t *testing.T) {
	l := quietLoop()
	var got []Frame
	l.Frame("fx", func(f Frame) { got = append(got, f) })

	for i := 0; i < 3; i++ {
		l.Advance(16 * time.Millisecond)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(got))
	}
	if got[2].Index != 2 || got[2].Elapsed != 48*time.Millisecond {
		t.Fatalf("unexpected third frame: %+v", got[2])
	}
}

func TestStop_NoFurtherCallbacks(t *testing.T) {
	l := quietLoop()
	calls := 0
	h := l.Frame("fx", func(Frame) { calls++ })
	l.Advance(time.Millisecond)
	h.Stop()
	h.Stop() // idempotent
	l.Advance(time.Millisecond)
	l.Advance(time.Millisecond)
	if calls != 1 {
		t.Fatalf("expected 1 call before stop, got %d", calls)
	}
	if l.Len() != 0 {
		t.Fatalf("stopped handle should be pruned, %d live", l.Len())
	}
}

func TestStop_FromInsideCallback(t *testing.T) {
	l := quietLoop()
	calls := 0
	var h *Handle
	h = l.Frame("self", func(Frame) {
		calls++
		h.Stop()
	})
	l.Advance(time.Millisecond)
	l.Advance(time.Millisecond)
	if calls != 1 {
		t.Fatalf("self-stopping handle ran %d times", calls)
	}
}

func TestStopAll_FromInsideCallback(t *testing.T) {
	l := quietLoop()
	later := 0
	l.Frame("teardown", func(Frame) { l.StopAll() })
	l.Frame("later", func(Frame) { later++ })
	l.Advance(time.Millisecond)
	l.Advance(time.Millisecond)
	if later != 0 {
		t.Fatalf("handle stopped by StopAll ran %d times", later)
	}
	if l.Len() != 0 {
		t.Fatalf("expected no live handles, got %d", l.Len())
	}
}

func TestStop_NilHandle(t *testing.T) {
	var h *Handle
	h.Stop()
	if !h.Stopped() {
		t.Fatal("nil handle should report stopped")
	}
}

func TestEvery_FiresPerWholeInterval(t *testing.T) {
	l := quietLoop()
	ticks := 0
	if _, err := l.Every("tick", 50*time.Millisecond, func(Frame) { ticks++ }); err != nil {
		t.Fatalf("Every: %v", err)
	}
	l.Advance(30 * time.Millisecond) // 30
	if ticks != 0 {
		t.Fatalf("expected no tick after 30ms, got %d", ticks)
	}
	l.Advance(30 * time.Millisecond) // 60
	if ticks != 1 {
		t.Fatalf("expected 1 tick after 60ms, got %d", ticks)
	}
	l.Advance(100 * time.Millisecond) // 160
	if ticks != 3 {
		t.Fatalf("expected 3 ticks after 160ms, got %d", ticks)
	}
}

func TestEvery_StopInsideBurst(t *testing.T) {
	l := quietLoop()
	ticks := 0
	var h *Handle
	h, _ = l.Every("tick", 10*time.Millisecond, func(Frame) {
		ticks++
		if ticks == 2 {
			h.Stop()
		}
	})
	l.Advance(100 * time.Millisecond)
	if ticks != 2 {
		t.Fatalf("expected burst to end at stop, got %d ticks", ticks)
	}
}

func TestEvery_RejectsNonPositive(t *testing.T) {
	l := quietLoop()
	if _, err := l.Every("bad", 0, func(Frame) {}); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestHandles_AreIndependent(t *testing.T) {
	l := quietLoop()
	a, b := 0, 0
	ha := l.Frame("a", func(Frame) { a++ })
	l.Frame("b", func(Frame) { b++ })
	l.Advance(time.Millisecond)
	ha.Stop()
	l.Advance(time.Millisecond)
	if a != 1 || b != 2 {
		t.Fatalf("expected a=1 b=2, got a=%d b=%d", a, b)
	}
	if ha.ID().String() == "" {
		t.Fatal("handle should carry an id")
	}
}

func TestMountDuringAdvance_RunsNextRefresh(t *testing.T) {
	l := quietLoop()
	late := 0
	mounted := false
	l.Frame("parent", func(Frame) {
		if !mounted {
			mounted = true
			l.Frame("child", func(Frame) { late++ })
		}
	})
	l.Advance(time.Millisecond)
	if late != 0 {
		t.Fatalf("child should not run in the refresh it was mounted, ran %d", late)
	}
	l.Advance(time.Millisecond)
	if late != 1 {
		t.Fatalf("child should run on the next refresh, ran %d", late)
	}
}

func TestStopAll(t *testing.T) {
	l := quietLoop()
	h1 := l.Frame("a", func(Frame) {})
	h2, _ := l.Every("b", time.Second, func(Frame) {})
	l.StopAll()
	if !h1.Stopped() || !h2.Stopped() || l.Len() != 0 {
		t.Fatal("StopAll should stop every handle")
	}
}
