package gscene

import (
	"errors"
	"slices"
)

// ErrFollowActive is returned by Event.Follow when a follow session is
// already running on the scene. The running session is left untouched.
var ErrFollowActive = errors.New("gscene: follow session already active")

// ErrNoScene is returned by Event.Follow for events not created by a scene.
var ErrNoScene = errors.New("gscene: event is not bound to a scene")

// FollowFunc receives every event of a follow session.
type FollowFunc func(e *Event)

// Event is a snapshot of one pointer notification as seen by a layer.
// Events are created per dispatch and should not be retained after the
// callback returns, except by a follow handler closure.
type Event struct {
	X, Y             float64 // relative to Target
	GlobalX, GlobalY float64 // relative to the scene root
	Target           *Layer

	// Following is true for events delivered to a follow handler. Delta and
	// Last are only meaningful then.
	Following bool
	Delta     Vec2 // from the follow start to the current global position
	Last      bool // true exactly once, on the pointer-up ending the session

	scene  *Scene
	passed bool
}

// Global returns the event position in root coordinates.
func (e *Event) Global() Vec2 {
	return Vec2{e.GlobalX, e.GlobalY}
}

// Pass marks the event as not handled, so dispatch continues with the
// layers below the target and then its containers.
func (e *Event) Pass() {
	e.passed = true
}

// Follow starts a follow session from a pointer-down callback: every later
// pointer move, and finally the pointer up, is delivered to fn instead of
// being hit tested. The last call has Last set. Starting a session while
// another is active returns ErrFollowActive.
func (e *Event) Follow(fn FollowFunc) error {
	if fn == nil {
		panic("gscene: nil follow handler")
	}
	if e.scene == nil {
		return ErrNoScene
	}
	return e.scene.startFollow(fn, e)
}

// fireEvent hit tests the subtree rooted at l. (x, y) are in l's local frame.
// Children are tried from last inserted to first, which is the reverse of
// insertion draw order; z-index is not considered. If no child handles the
// event and l is interactive and contains the point, l's own delegate gets it.
func (l *Layer) fireEvent(x, y, gx, gy float64, class InputClass, s *Scene) bool {
	for i := len(l.children) - 1; i >= 0; i-- {
		child := l.children[i]
		if child.parent != l {
			panic("gscene: child's parent is not this container")
		}
		if child.fireEvent(x-child.X, y-child.Y, gx, gy, class, s) {
			return true
		}
		// Handlers may add or remove children; continue below wherever
		// child ended up so no sibling is visited twice.
		if i >= len(l.children) || l.children[i] != child {
			if j := slices.Index(l.children, child); j >= 0 {
				i = j
			} else {
				i = min(i, len(l.children))
			}
		}
	}
	if !l.Interactive() || !l.ContainsLocalXY(x, y) {
		return false
	}
	return s.runEvent(l, x, y, gx, gy, class)
}

// runEvent invokes l's handler for class. It returns false when l has no
// handler for the class or the handler called Pass.
func (s *Scene) runEvent(l *Layer, x, y, gx, gy float64, class InputClass) bool {
	e := &Event{X: x, Y: y, GlobalX: gx, GlobalY: gy, Target: l, scene: s}
	switch class {
	case InputDown:
		if l.down == nil {
			return false
		}
		l.down.OnDown(e)
	case InputUp:
		if l.up == nil {
			return false
		}
		l.up.OnUp(e)
	case InputMove:
		if l.move == nil {
			return false
		}
		l.move.OnMove(e)
	default:
		return false
	}
	s.emitInteractionEvent(eventTypeFor(class), e)
	return !e.passed
}
