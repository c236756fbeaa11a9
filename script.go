package gscene

import (
	"encoding/json"
	"fmt"
)

// syntheticPointerEvent is a single queued pointer notification.
type syntheticPointerEvent struct {
	class InputClass
	x, y  float64
}

// Playback is an InputSource driven by code instead of a device. Events can
// be delivered immediately (Down, Move, Up) or queued (Inject*) and released
// one per Step, which mirrors one host tick per event. Notifications for
// classes nobody is bound to are dropped, as a real host would.
type Playback struct {
	bindings [numInputClasses]InputFunc
	queue    []syntheticPointerEvent
}

// NewPlayback returns an empty playback input source.
func NewPlayback() *Playback {
	return &Playback{}
}

// Bind implements InputSource.
func (p *Playback) Bind(class InputClass, fn InputFunc) {
	p.bindings[class] = fn
}

// Bound reports whether a callback is bound for class.
func (p *Playback) Bound(class InputClass) bool {
	return p.bindings[class] != nil
}

// Down delivers a pointer-down at (x, y) now.
func (p *Playback) Down(x, y float64) { p.deliver(InputDown, x, y) }

// Move delivers a pointer move to (x, y) now.
func (p *Playback) Move(x, y float64) { p.deliver(InputMove, x, y) }

// Up delivers a pointer-up at (x, y) now.
func (p *Playback) Up(x, y float64) { p.deliver(InputUp, x, y) }

func (p *Playback) deliver(class InputClass, x, y float64) {
	if fn := p.bindings[class]; fn != nil {
		fn(x, y)
	}
}

// InjectDown queues a pointer-down.
func (p *Playback) InjectDown(x, y float64) {
	p.queue = append(p.queue, syntheticPointerEvent{class: InputDown, x: x, y: y})
}

// InjectMove queues a pointer move.
func (p *Playback) InjectMove(x, y float64) {
	p.queue = append(p.queue, syntheticPointerEvent{class: InputMove, x: x, y: y})
}

// InjectUp queues a pointer-up.
func (p *Playback) InjectUp(x, y float64) {
	p.queue = append(p.queue, syntheticPointerEvent{class: InputUp, x: x, y: y})
}

// InjectClick queues a down followed by an up at the same point.
func (p *Playback) InjectClick(x, y float64) {
	p.InjectDown(x, y)
	p.InjectUp(x, y)
}

// InjectDrag queues a full drag of steps events: a down at (fromX, fromY),
// steps-2 moves evenly spaced towards (toX, toY) with the last one landing
// on it, and an up at (toX, toY). Steps below 2 are raised to 2, which
// queues just the down and the up.
func (p *Playback) InjectDrag(fromX, fromY, toX, toY float64, steps int) {
	if steps < 2 {
		steps = 2
	}
	p.InjectDown(fromX, fromY)
	moves := steps - 2
	for i := 1; i <= moves; i++ {
		t := float64(i) / float64(moves)
		p.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	p.InjectUp(toX, toY)
}

// Pending returns the number of queued events.
func (p *Playback) Pending() int {
	return len(p.queue)
}

// Step delivers the oldest queued event. It returns false if the queue was
// empty.
func (p *Playback) Step() bool {
	if len(p.queue) == 0 {
		return false
	}
	evt := p.queue[0]
	copy(p.queue, p.queue[1:])
	p.queue = p.queue[:len(p.queue)-1]
	p.deliver(evt.class, evt.x, evt.y)
	return true
}

// Flush delivers every queued event.
func (p *Playback) Flush() {
	for p.Step() {
	}
}

// --- Scripts ---

// scriptStep represents a single action in an input script.
type scriptStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Steps  int     `json:"steps,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// inputScript is the top-level JSON structure of a script.
type inputScript struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences queued input across host ticks, for demos and automated
// interaction tests. Call Tick once per host update with the playback source
// the scene is bound to.
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON input script:
//
//	{"steps": [
//		{"action": "drag", "fromX": 10, "fromY": 10, "toX": 80, "toY": 40, "steps": 5},
//		{"action": "wait", "frames": 30},
//		{"action": "click", "x": 50, "y": 50}
//	]}
//
// Actions are down, move, up, click, drag and wait.
func LoadScript(jsonData []byte) (*Script, error) {
	var script inputScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "down", "move", "up", "click", "drag", "wait":
		default:
			return nil, fmt.Errorf("parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: script.Steps}, nil
}

// Done reports whether all steps have been executed and delivered.
func (r *Script) Done() bool {
	return r.done
}

// Tick advances the script by one host tick: it delivers one queued event,
// or counts down a wait, or queues the next step.
func (r *Script) Tick(p *Playback) {
	if r.done {
		return
	}
	if p.Step() {
		r.checkDone(p)
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		r.checkDone(p)
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "down":
		p.InjectDown(st.X, st.Y)
	case "move":
		p.InjectMove(st.X, st.Y)
	case "up":
		p.InjectUp(st.X, st.Y)
	case "click":
		p.InjectClick(st.X, st.Y)
	case "drag":
		p.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Steps)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	}
	p.Step()
	r.checkDone(p)
}

func (r *Script) checkDone(p *Playback) {
	if r.cursor >= len(r.steps) && r.waitCount == 0 && p.Pending() == 0 {
		r.done = true
	}
}
