package gscene

// --- Coordinate conversion ---
//
// Layers are only translated relative to their parent. Rotation is applied
// when drawing but not here, so hit geometry of rotated layers is their
// unrotated bounding box.

// ToGlobalXY converts a point in l's local frame to root coordinates by
// adding the offsets of l and every ancestor. O(depth).
func (l *Layer) ToGlobalXY(x, y float64) Vec2 {
	p := Vec2{x, y}
	for a := l; a != nil; a = a.parent {
		p.X += a.X
		p.Y += a.Y
	}
	return p
}

// ToGlobal returns the root coordinates of l's origin. A layer without a
// parent returns its own (X, Y).
func (l *Layer) ToGlobal() Vec2 {
	return l.ToGlobalXY(0, 0)
}

// ToLocal converts a point in root coordinates to l's local frame.
func (l *Layer) ToLocal(p Vec2) Vec2 {
	return p.Sub(l.ToGlobal())
}

// ToLocalEvent converts the global position of e to l's local frame.
func (l *Layer) ToLocalEvent(e *Event) Vec2 {
	return l.ToLocal(e.Global())
}

// Contains reports whether the root-space point p lies within l's bounds.
func (l *Layer) Contains(p Vec2) bool {
	lp := l.ToLocal(p)
	return l.ContainsLocalXY(lp.X, lp.Y)
}

// ContainsXY reports whether the root-space point (x, y) lies within l's bounds.
func (l *Layer) ContainsXY(x, y float64) bool {
	return l.Contains(Vec2{x, y})
}

// ContainsLocalXY reports whether (x, y), in l's local frame, lies within
// 0..Width by 0..Height. Edges are inside.
func (l *Layer) ContainsLocalXY(x, y float64) bool {
	return x >= 0 && x <= l.Width && y >= 0 && y <= l.Height
}
