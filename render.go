package gscene

import (
	"math"
	"time"
)

// rotationEpsilon is the smallest rotation, in radians, applied when drawing.
const rotationEpsilon = 0.001

// Render draws the scene. It is normally invoked by the frame timer after
// Schedule; calling it directly is allowed.
//
// Render clears the pending-frame flag first. While the resource loader has
// fetches in flight nothing is drawn and no new frame is requested: the
// loader schedules one when its last fetch completes.
func (s *Scene) Render() {
	s.scheduled = false
	if s.loader != nil && s.loader.Outstanding() > 0 {
		s.log.debugf("render deferred: %d asset(s) loading", s.loader.Outstanding())
		return
	}

	var t0 time.Time
	if s.log.debug {
		t0 = time.Now()
	}

	s.advanceTweens()
	if s.OnRender != nil {
		s.OnRender()
	}

	root := s.root
	root.X, root.Y = 0, 0
	root.Width, root.Height = s.width, s.height

	sf := s.host.Surface
	if c, ok := sf.(Clearer); ok {
		c.Clear()
	}
	drawn := 0
	sf.Save()
	s.drawLayer(root, &drawn)
	sf.Restore()
	s.frames++

	if s.log.debug {
		s.debugLog(debugStats{
			frame:      s.frames,
			drawTime:   time.Since(t0),
			layerCount: drawn,
			tweenCount: len(s.tweens),
		})
	}

	if len(s.tweens) > 0 {
		s.Schedule()
	}
}

// drawLayer draws l and its subtree inside its own saved paint state,
// translated to l's position and rotated by l's rotation.
func (s *Scene) drawLayer(l *Layer, drawn *int) {
	sf := s.host.Surface
	sf.Save()
	sf.Translate(l.X, l.Y)
	if math.Abs(l.Rotation) > rotationEpsilon {
		sf.Rotate(l.Rotation)
	}
	l.draw(sf)
	*drawn++

	if l.kind != kindLeaf {
		for _, child := range l.zsorted() {
			if child.parent != l {
				panic("gscene: child's parent is not this container")
			}
			s.drawLayer(child, drawn)
		}
	}
	sf.Restore()
}

// draw paints l's own content: background and border, background image,
// then the delegate. It changes the surface's paint state; callers save and
// restore around it.
func (l *Layer) draw(sf Surface) {
	st := &l.Style
	if st.Background != nil || st.Border != nil {
		if st.BorderRadius > 0 {
			roundedRect(sf, 0, 0, l.Width, l.Height, st.BorderRadius)
		} else {
			sf.BeginPath()
			sf.Rect(0, 0, l.Width, l.Height)
		}
		if st.Background != nil {
			sf.SetFillColor(*st.Background)
			sf.Fill()
		}
		if st.Border != nil {
			w := st.BorderWidth
			if w <= 0 {
				w = 1
			}
			sf.SetStrokeColor(*st.Border)
			sf.SetLineWidth(w)
			sf.Stroke()
		}
	}
	if img := st.BackgroundImage; img != nil && img.Complete() {
		sf.DrawImage(img, 0, 0, l.Width, l.Height)
	}
	if l.drawer != nil {
		sf.BeginPath()
		l.drawer.Draw(sf, l)
	}
}

// roundedRect builds a rounded rectangle path from line and quadratic curve
// segments.
func roundedRect(sf Surface, x, y, w, h, r float64) {
	sf.BeginPath()
	sf.MoveTo(x+r, y)
	sf.LineTo(x+w-r, y)
	sf.QuadTo(x+w, y, x+w, y+r)
	sf.LineTo(x+w, y+h-r)
	sf.QuadTo(x+w, y+h, x+w-r, y+h)
	sf.LineTo(x+r, y+h)
	sf.QuadTo(x, y+h, x, y+h-r)
	sf.LineTo(x, y+r)
	sf.QuadTo(x, y, x+r, y)
	sf.ClosePath()
}

// zsorted returns the children in draw order. When every child shares the
// same Z the insertion-ordered slice is returned as is. Otherwise children are
// copied into a reused buffer and sorted by ascending Z with a stable
// insertion sort, so equal Z values keep their insertion order.
func (l *Layer) zsorted() []*Layer {
	cs := l.children
	if len(cs) < 2 {
		return cs
	}
	uniform := true
	for _, c := range cs[1:] {
		if c.Z != cs[0].Z {
			uniform = false
			break
		}
	}
	if uniform {
		return cs
	}

	nc := len(cs)
	if cap(l.sortedChildren) < nc {
		l.sortedChildren = make([]*Layer, nc)
	}
	sorted := l.sortedChildren[:nc]
	copy(sorted, cs)
	for i := 1; i < nc; i++ {
		key := sorted[i]
		j := i - 1
		for j >= 0 && sorted[j].Z > key.Z {
			sorted[j+1] = sorted[j]
			j--
		}
		sorted[j+1] = key
	}
	l.sortedChildren = sorted
	return sorted
}
