package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/gscene"
)

// pointerTracker turns per-tick pointer samples into down, move and up
// notifications.
type pointerTracker struct {
	x, y float64
	seen bool
	down bool
}

// update records one sample. A change of position emits a move before any
// press or release at the new position.
func (p *pointerTracker) update(pressed bool, x, y float64, emit func(gscene.InputClass, float64, float64)) {
	if p.seen && (x != p.x || y != p.y) {
		emit(gscene.InputMove, x, y)
	}
	p.x, p.y, p.seen = x, y, true
	switch {
	case pressed && !p.down:
		emit(gscene.InputDown, x, y)
	case !pressed && p.down:
		emit(gscene.InputUp, x, y)
	}
	p.down = pressed
}

// deviceInput polls the mouse and the first active touch. While a touch is
// held the mouse is ignored.
type deviceInput struct {
	bindings [gscene.InputUp + 1]gscene.InputFunc

	mouse pointerTracker

	touch    pointerTracker
	touchID  ebiten.TouchID
	touching bool
	pressed  []ebiten.TouchID
}

func (in *deviceInput) bind(class gscene.InputClass, fn gscene.InputFunc) {
	in.bindings[class] = fn
}

func (in *deviceInput) emit(class gscene.InputClass, x, y float64) {
	if fn := in.bindings[class]; fn != nil {
		fn(x, y)
	}
}

// poll samples the devices once. Called from Update.
func (in *deviceInput) poll() {
	in.pollTouch()
	if in.touching {
		return
	}
	mx, my := ebiten.CursorPosition()
	in.mouse.update(ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), float64(mx), float64(my), in.emit)
}

func (in *deviceInput) pollTouch() {
	if in.touching {
		if inpututil.IsTouchJustReleased(in.touchID) {
			x, y := inpututil.TouchPositionInPreviousTick(in.touchID)
			in.touch.update(false, float64(x), float64(y), in.emit)
			in.touching = false
			return
		}
		x, y := ebiten.TouchPosition(in.touchID)
		in.touch.update(true, float64(x), float64(y), in.emit)
		return
	}

	in.pressed = inpututil.AppendJustPressedTouchIDs(in.pressed[:0])
	if len(in.pressed) == 0 {
		return
	}
	in.touchID = in.pressed[0]
	in.touching = true
	x, y := ebiten.TouchPosition(in.touchID)
	in.touch = pointerTracker{x: float64(x), y: float64(y), seen: true}
	in.touch.update(true, float64(x), float64(y), in.emit)
}
