package gscene

import (
	"errors"
	"testing"
)

type followStep struct {
	dx, dy float64
	last   bool
}

// follower starts a follow session on every down and records what it gets.
type follower struct {
	steps  []followStep
	events []Event
	err    error
}

func (f *follower) OnDown(e *Event) {
	f.err = e.Follow(func(e *Event) {
		f.steps = append(f.steps, followStep{e.Delta.X, e.Delta.Y, e.Last})
		f.events = append(f.events, *e)
	})
}

func TestFollowDeltas(t *testing.T) {
	s, th := newTestScene(t)
	f := &follower{}
	s.Root().Add(NewLayer(LayerOptions{Width: 50, Height: 50, Delegate: f}))

	th.input.Down(10, 10)
	if !s.Following() {
		t.Fatal("Following() = false after Follow")
	}
	th.input.Move(15, 10)
	th.input.Move(20, 30)
	th.input.Up(20, 30)

	want := []followStep{{5, 0, false}, {10, 20, false}, {10, 20, true}}
	if len(f.steps) != len(want) {
		t.Fatalf("steps = %v, want %v", f.steps, want)
	}
	for i := range want {
		if f.steps[i] != want[i] {
			t.Errorf("step %d = %v, want %v", i, f.steps[i], want[i])
		}
	}
	if s.Following() {
		t.Error("Following() = true after the up")
	}
	for i, e := range f.events {
		if !e.Following {
			t.Errorf("event %d: Following = false", i)
		}
	}
}

func TestFollowEventsOutsideTarget(t *testing.T) {
	s, th := newTestScene(t)
	f := &follower{}
	target := NewLayer(LayerOptions{X: 10, Y: 10, Width: 20, Height: 20, Delegate: f})
	s.Root().Add(target)

	th.input.Down(15, 15)
	th.input.Move(300, 200) // far outside the target
	if len(f.events) != 1 {
		t.Fatalf("follow events = %d, want 1", len(f.events))
	}
	e := f.events[0]
	if e.Target != target {
		t.Error("follow target should be the layer that started the session")
	}
	if e.X != 290 || e.Y != 190 || e.GlobalX != 300 || e.GlobalY != 200 {
		t.Errorf("event = (%v, %v) global (%v, %v), want (290, 190) global (300, 200)", e.X, e.Y, e.GlobalX, e.GlobalY)
	}
}

func TestFollowCapturesMoves(t *testing.T) {
	s, th := newTestScene(t)
	f := &follower{}
	var m moveRecorder
	var u upRecorder
	s.Root().Add(
		NewLayer(LayerOptions{Width: 400, Height: 300, Delegate: &m}),
		NewLayer(LayerOptions{Width: 400, Height: 300, Delegate: &u}),
		NewLayer(LayerOptions{Width: 50, Height: 50, Delegate: f}),
	)

	th.input.Move(100, 100)
	if m.n != 1 {
		t.Fatalf("moves before follow = %d, want 1", m.n)
	}

	th.input.Down(10, 10)
	th.input.Move(20, 20)
	th.input.Up(20, 20)
	if m.n != 1 || u.n != 0 {
		t.Errorf("during follow: moves=%d ups=%d, want 1 and 0", m.n, u.n)
	}
	if len(f.steps) != 2 {
		t.Errorf("follow steps = %d, want 2", len(f.steps))
	}

	th.input.Move(100, 100)
	th.input.Up(100, 100)
	if m.n != 2 || u.n != 1 {
		t.Errorf("after follow: moves=%d ups=%d, want 2 and 1", m.n, u.n)
	}
}

func TestFollowRestoresUnboundClasses(t *testing.T) {
	s, th := newTestScene(t)
	s.Root().Add(NewLayer(LayerOptions{Width: 50, Height: 50, Delegate: &follower{}}))

	th.input.Down(10, 10)
	if !th.input.Bound(InputMove) || !th.input.Bound(InputUp) {
		t.Fatal("move and up should be bound during follow")
	}
	th.input.Up(10, 10)
	if th.input.Bound(InputMove) || th.input.Bound(InputUp) {
		t.Error("move and up should be unbound again after follow")
	}
	if !th.input.Bound(InputDown) {
		t.Error("down should stay bound")
	}
}

func TestSecondFollowRejected(t *testing.T) {
	s, th := newTestScene(t)
	first := &follower{}
	second := &follower{}
	s.Root().Add(
		NewLayer(LayerOptions{Name: "first", Width: 50, Height: 50, Delegate: first}),
		NewLayer(LayerOptions{Name: "second", X: 100, Width: 50, Height: 50, Delegate: second}),
	)

	th.input.Down(10, 10)
	th.input.Down(110, 10) // e.g. a second touch
	if !errors.Is(second.err, ErrFollowActive) {
		t.Errorf("second Follow() = %v, want ErrFollowActive", second.err)
	}

	th.input.Move(15, 10)
	th.input.Up(15, 10)
	if len(first.steps) != 2 || len(second.steps) != 0 {
		t.Errorf("first steps=%d second steps=%d, want 2 and 0", len(first.steps), len(second.steps))
	}
}

func TestFollowDetachedTarget(t *testing.T) {
	s, th := newTestScene(t)
	f := &follower{}
	target := NewLayer(LayerOptions{X: 10, Y: 10, Width: 50, Height: 50, Delegate: f})
	s.Root().Add(target)

	th.input.Down(20, 20)
	target.Remove()
	th.input.Move(30, 25)
	th.input.Up(30, 25)

	if len(f.steps) != 2 || !f.steps[1].last {
		t.Fatalf("steps = %v, want two ending with last", f.steps)
	}
	// Without a parent the target's own position is its global offset.
	if e := f.events[0]; e.X != 20 || e.Y != 15 {
		t.Errorf("local = (%v, %v), want (20, 15)", e.X, e.Y)
	}
}

func TestFollowSchedulesRender(t *testing.T) {
	s, th := newTestScene(t)
	s.Root().Add(NewLayer(LayerOptions{Width: 50, Height: 50, Delegate: &follower{}}))
	th.input.Down(10, 10)
	th.timer.run()
	before := th.timer.requests

	th.input.Move(12, 12)
	if th.timer.requests != before+1 {
		t.Errorf("frame requests = %d, want %d", th.timer.requests, before+1)
	}
}

func TestFollowBindsLateClassesAfterSession(t *testing.T) {
	s, th := newTestScene(t)
	s.Root().Add(NewLayer(LayerOptions{Width: 50, Height: 50, Delegate: &follower{}}))
	th.input.Down(10, 10)

	// A move handler appearing mid-session must not steal the session's moves.
	var m moveRecorder
	s.Root().Add(NewLayer(LayerOptions{Width: 400, Height: 300, Delegate: &m}))
	th.input.Move(20, 20)
	if m.n != 0 {
		t.Fatalf("moves during follow = %d, want 0", m.n)
	}

	th.input.Up(20, 20)
	th.input.Move(30, 30)
	if m.n != 1 {
		t.Errorf("moves after follow = %d, want 1", m.n)
	}
}
