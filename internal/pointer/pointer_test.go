package pointer

import "testing"

func TestRectContains_Edges(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 5}
	cases := []struct {
		x, y float64
		want bool
	}{
		{10, 10, true},
		{30, 15, true},
		{20, 12, true},
		{9.9, 12, false},
		{20, 15.1, false},
	}
	for _, c := range cases {
		if got := r.Contains(c.x, c.y); got != c.want {
			t.Fatalf("Contains(%v, %v) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestStateIn_AbsentNeverInside(t *testing.T) {
	r := Rect{W: 100, H: 100}
	if Absent.In(r) {
		t.Fatal("absent pointer must not be inside any rect")
	}
	if !At(50, 50).In(r) {
		t.Fatal("present pointer at centre should be inside")
	}
}

func TestTracker_MoveLeave(t *testing.T) {
	var tr Tracker
	tr.Move(3, 4)
	if p := tr.Pointer(); !p.Present || p.X != 3 || p.Y != 4 {
		t.Fatalf("unexpected state after move: %+v", p)
	}
	tr.Leave()
	if tr.Pointer().Present {
		t.Fatal("pointer should be absent after leave")
	}
}
