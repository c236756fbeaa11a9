package gscene

import (
	"fmt"
	"reflect"
	"testing"
)

// recordAll binds every class of p to a recorder.
func recordAll(p *Playback) *[]string {
	var got []string
	for class := InputClass(0); class < numInputClasses; class++ {
		p.Bind(class, func(x, y float64) {
			got = append(got, fmt.Sprintf("%s %g,%g", class, x, y))
		})
	}
	return &got
}

func TestPlaybackImmediate(t *testing.T) {
	p := NewPlayback()
	got := recordAll(p)
	p.Down(1, 2)
	p.Move(3, 4)
	p.Up(3, 4)
	want := []string{"down 1,2", "move 3,4", "up 3,4"}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("delivered %v, want %v", *got, want)
	}
}

func TestPlaybackDropsUnbound(t *testing.T) {
	p := NewPlayback()
	p.Down(1, 1) // no binding: dropped
	p.InjectUp(1, 1)
	if !p.Step() {
		t.Error("Step() should consume the queued event even if unbound")
	}
	if p.Bound(InputDown) {
		t.Error("Bound(down) = true on a fresh playback")
	}
	p.Bind(InputDown, func(x, y float64) {})
	p.Bind(InputDown, nil)
	if p.Bound(InputDown) {
		t.Error("binding nil should unbind")
	}
}

func TestInjectClick(t *testing.T) {
	p := NewPlayback()
	got := recordAll(p)
	p.InjectClick(5, 6)
	if p.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", p.Pending())
	}
	p.Step()
	if len(*got) != 1 {
		t.Fatalf("after one step delivered %v", *got)
	}
	p.Flush()
	want := []string{"down 5,6", "up 5,6"}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("delivered %v, want %v", *got, want)
	}
	if p.Step() {
		t.Error("Step() on empty queue should return false")
	}
}

func TestInjectDrag(t *testing.T) {
	p := NewPlayback()
	got := recordAll(p)
	p.InjectDrag(0, 0, 30, 60, 5)
	p.Flush()
	want := []string{"down 0,0", "move 10,20", "move 20,40", "move 30,60", "up 30,60"}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("delivered %v, want %v", *got, want)
	}
}

func TestInjectDragMinSteps(t *testing.T) {
	p := NewPlayback()
	p.InjectDrag(0, 0, 10, 10, 0)
	if p.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2 (down + up)", p.Pending())
	}
}

func TestLoadScript(t *testing.T) {
	s, err := LoadScript([]byte(`{"steps": [
		{"action": "click", "x": 1, "y": 2},
		{"action": "wait", "frames": 3},
		{"action": "drag", "fromX": 0, "fromY": 0, "toX": 10, "toY": 0, "steps": 3}
	]}`))
	if err != nil {
		t.Fatalf("LoadScript() error = %v", err)
	}
	if len(s.steps) != 3 || s.steps[2].Steps != 3 {
		t.Errorf("steps = %+v", s.steps)
	}
}

func TestLoadScriptErrors(t *testing.T) {
	for name, data := range map[string]string{
		"invalid json":   `{`,
		"empty":          `{"steps": []}`,
		"unknown action": `{"steps": [{"action": "jump"}]}`,
	} {
		if _, err := LoadScript([]byte(data)); err == nil {
			t.Errorf("%s: LoadScript() should fail", name)
		}
	}
}

func TestScriptTick(t *testing.T) {
	s, err := LoadScript([]byte(`{"steps": [
		{"action": "click", "x": 1, "y": 1},
		{"action": "wait", "frames": 2},
		{"action": "move", "x": 5, "y": 5}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	p := NewPlayback()
	got := recordAll(p)

	wantAfter := [][]string{
		{"down 1,1"},                       // click queued, down delivered
		{"down 1,1", "up 1,1"},             // queued up delivered
		{"down 1,1", "up 1,1"},             // wait, first frame
		{"down 1,1", "up 1,1"},             // wait, second frame
		{"down 1,1", "up 1,1", "move 5,5"}, // move
	}
	for i, want := range wantAfter {
		s.Tick(p)
		if !reflect.DeepEqual(*got, want) {
			t.Fatalf("tick %d: delivered %v, want %v", i, *got, want)
		}
	}
	if !s.Done() {
		t.Error("script should be done after its last step")
	}
	s.Tick(p)
	if len(*got) != 3 {
		t.Error("ticking a done script should do nothing")
	}
}

func TestScriptDrivesScene(t *testing.T) {
	s, th := newTestScene(t)
	f := &follower{}
	target := NewLayer(LayerOptions{Width: 20, Height: 20, Delegate: f})
	s.Root().Add(target)

	script, err := LoadScript([]byte(`{"steps": [
		{"action": "drag", "fromX": 5, "fromY": 5, "toX": 45, "toY": 25, "steps": 4}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10 && !script.Done(); i++ {
		script.Tick(th.input)
	}
	if !script.Done() {
		t.Fatal("script did not finish")
	}
	if len(f.steps) != 3 {
		t.Fatalf("follow steps = %v, want 3", f.steps)
	}
	if last := f.steps[2]; !last.last || last.dx != 40 || last.dy != 20 {
		t.Errorf("last step = %+v, want delta (40, 20) last", last)
	}
}
