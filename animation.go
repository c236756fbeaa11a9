package gscene

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// maxTweenStep caps the time advanced in one frame, so a long pause between
// frames does not make animations jump to their end.
const maxTweenStep = 0.1

// TweenGroup animates up to 4 float64 fields on a Layer simultaneously.
// Create one via the convenience constructors and either call Update(dt)
// yourself or hand it to Scene.Animate, which advances it on every render
// and keeps frames coming until it is done.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Layer
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// Target returns the animated layer.
func (g *TweenGroup) Target() *Layer {
	return g.target
}

// TweenPosition animates l.X and l.Y to the given coordinates.
func TweenPosition(l *Layer, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: l}
	g.tweens[0] = gween.New(float32(l.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(l.Y), float32(toY), duration, fn)
	g.fields[0] = &l.X
	g.fields[1] = &l.Y
	return g
}

// TweenSize animates l.Width and l.Height to the given size.
func TweenSize(l *Layer, toW, toH float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: l}
	g.tweens[0] = gween.New(float32(l.Width), float32(toW), duration, fn)
	g.tweens[1] = gween.New(float32(l.Height), float32(toH), duration, fn)
	g.fields[0] = &l.Width
	g.fields[1] = &l.Height
	return g
}

// TweenRotation animates l.Rotation to the target angle in radians.
func TweenRotation(l *Layer, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: l}
	g.tweens[0] = gween.New(float32(l.Rotation), float32(to), duration, fn)
	g.fields[0] = &l.Rotation
	return g
}

// Animate registers g to be advanced by elapsed wall time on each render and
// schedules a frame. Finished groups are dropped.
func (s *Scene) Animate(g *TweenGroup) {
	if g == nil || g.Done {
		return
	}
	if len(s.tweens) == 0 {
		s.lastTick = s.now()
	}
	s.tweens = append(s.tweens, g)
	s.Schedule()
}

// advanceTweens steps every registered group and compacts out finished ones.
func (s *Scene) advanceTweens() {
	if len(s.tweens) == 0 {
		return
	}
	now := s.now()
	dt := now.Sub(s.lastTick).Seconds()
	s.lastTick = now
	if dt > maxTweenStep {
		dt = maxTweenStep
	}
	if dt < 0 {
		dt = 0
	}

	live := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(float32(dt))
		if !g.Done {
			live = append(live, g)
		}
	}
	for i := len(live); i < len(s.tweens); i++ {
		s.tweens[i] = nil
	}
	s.tweens = live
}
