package gscene

// --- Delegate capabilities ---

// Drawer draws a layer's content. Drawing happens in the layer's local frame,
// after the style background, border and background image.
type Drawer interface {
	Draw(s Surface, l *Layer)
}

// DrawFunc adapts a plain function into a Drawer.
type DrawFunc func(s Surface, l *Layer)

// Draw calls f(s, l).
func (f DrawFunc) Draw(s Surface, l *Layer) { f(s, l) }

// DownHandler receives pointer-down events that hit the layer.
type DownHandler interface {
	OnDown(e *Event)
}

// UpHandler receives pointer-up events that hit the layer.
type UpHandler interface {
	OnUp(e *Event)
}

// MoveHandler receives pointer-move events that hit the layer.
type MoveHandler interface {
	OnMove(e *Event)
}

// Addable is anything that resolves to a layer: a *Layer itself, or an
// application object that owns one. When an object that is not itself the
// layer is added to a container and the layer has no delegate yet, the
// object becomes the layer's delegate.
type Addable interface {
	SceneLayer() *Layer
}

// --- Layer ---

type layerKind uint8

const (
	kindLeaf layerKind = iota
	kindContainer
	kindRow
	kindColumn
)

// LayerOptions configures a new layer.
type LayerOptions struct {
	Name     string
	X, Y     float64
	Z        int
	Width    float64
	Height   float64
	Rotation float64
	Style    Style
	Delegate any
}

// Layer is a positioned, sized node of the scene tree. Containers are layers
// that also own an ordered list of children.
//
// Position, size, z-index, rotation and style are plain fields; mutate them
// directly and call Scene.Schedule to have the change drawn.
type Layer struct {
	Name string

	X, Y          float64 // relative to the parent
	Z             int     // higher draws later; does not affect hit testing
	Width, Height float64
	Rotation      float64 // radians, rendering only; hit testing ignores it
	Style         Style

	// EntityID links the layer to an ECS entity. Non-zero IDs are reported
	// to the scene's EntityStore.
	EntityID uint32
	UserData any

	kind     layerKind
	parent   *Layer
	children []*Layer
	sc       *Scene // set on scene roots only

	delegate any
	drawer   Drawer
	down     DownHandler
	up       UpHandler
	move     MoveHandler
	caps     capSet

	sortedChildren []*Layer // reused buffer for z-sorted draw order
}

// NewLayer creates a leaf layer.
func NewLayer(opts LayerOptions) *Layer {
	return newLayer(kindLeaf, opts)
}

// NewContainer creates a layer that can hold children.
func NewContainer(opts LayerOptions) *Layer {
	return newLayer(kindContainer, opts)
}

func newLayer(kind layerKind, opts LayerOptions) *Layer {
	l := &Layer{
		Name:     opts.Name,
		X:        opts.X,
		Y:        opts.Y,
		Z:        opts.Z,
		Width:    opts.Width,
		Height:   opts.Height,
		Rotation: opts.Rotation,
		Style:    opts.Style,
		kind:     kind,
	}
	if opts.Delegate != nil {
		l.SetDelegate(opts.Delegate)
	}
	return l
}

// SceneLayer returns l, making every layer Addable.
func (l *Layer) SceneLayer() *Layer {
	return l
}

// IsContainer reports whether the layer can hold children.
func (l *Layer) IsContainer() bool {
	return l.kind != kindLeaf
}

// SetPosition sets X and Y.
func (l *Layer) SetPosition(x, y float64) {
	l.X = x
	l.Y = y
}

// SetSize sets Width and Height.
func (l *Layer) SetSize(w, h float64) {
	l.Width = w
	l.Height = h
}

// --- Delegate ---

// SetDelegate replaces the delegate and re-derives which capabilities it has.
// A func(Surface, *Layer) is treated as a DrawFunc. The layer is interactive
// when the delegate handles at least one pointer class; the owning scene
// starts listening for that class the first time any layer needs it.
func (l *Layer) SetDelegate(d any) {
	l.delegate = d
	l.drawer = nil
	l.down = nil
	l.up = nil
	l.move = nil
	l.caps = 0

	switch v := d.(type) {
	case func(Surface, *Layer):
		l.drawer = DrawFunc(v)
	case Drawer:
		l.drawer = v
	}
	if h, ok := d.(DownHandler); ok {
		l.down = h
		l.caps = l.caps.with(InputDown)
	}
	if h, ok := d.(UpHandler); ok {
		l.up = h
		l.caps = l.caps.with(InputUp)
	}
	if h, ok := d.(MoveHandler); ok {
		l.move = h
		l.caps = l.caps.with(InputMove)
	}

	if s := l.Scene(); s != nil {
		s.ensureInput(l.caps)
	}
}

// Delegate returns the current delegate, or nil.
func (l *Layer) Delegate() any {
	return l.delegate
}

// Interactive reports whether the delegate handles any pointer class.
func (l *Layer) Interactive() bool {
	return l.caps != 0
}

// --- Tree manipulation ---

// Parent returns the container holding l, or nil.
func (l *Layer) Parent() *Layer {
	return l.parent
}

// Scene returns the scene whose root is an ancestor of l, or nil when l is
// not attached to a scene.
func (l *Layer) Scene() *Scene {
	root := l
	for root.parent != nil {
		root = root.parent
	}
	return root.sc
}

// Add appends items to the container. Each item resolves to a layer through
// Addable; an item that is not itself a layer becomes its layer's delegate
// unless the layer already has one.
// Panics if l is not a container, an item is nil, its layer already has a
// parent (detach it first), or adding it would create a cycle.
func (l *Layer) Add(items ...Addable) {
	if l.kind == kindLeaf {
		panic("gscene: cannot add children to a leaf layer")
	}
	for _, item := range items {
		if item == nil {
			panic("gscene: cannot add nil item")
		}
		child := item.SceneLayer()
		if child == nil {
			panic("gscene: cannot add item without a layer")
		}
		if child.parent != nil {
			panic("gscene: layer already has a parent")
		}
		if isAncestor(child, l) {
			panic("gscene: adding layer would create a cycle")
		}
		child.parent = l
		l.children = append(l.children, child)
		if _, isLayer := item.(*Layer); !isLayer && child.delegate == nil {
			child.SetDelegate(item)
		}

		if s := l.Scene(); s != nil {
			s.ensureInput(subtreeCaps(child))
			if s.log.debug {
				debugCheckTreeDepth(s.log, child)
				debugCheckChildCount(s.log, l)
			}
		}
	}
}

// RemoveChild detaches item's layer from the container.
// Panics if the layer is not a child of l.
func (l *Layer) RemoveChild(item Addable) {
	if item == nil {
		panic("gscene: cannot remove nil item")
	}
	child := item.SceneLayer()
	if child == nil || child.parent != l {
		panic("gscene: layer is not a child of this container")
	}
	if !l.removeChildByPtr(child) {
		panic("gscene: child missing from its parent's children")
	}
	child.parent = nil
}

// Remove detaches l from its parent. No-op if l has no parent.
// The layer can be added again afterwards.
func (l *Layer) Remove() {
	if l.parent == nil {
		return
	}
	l.parent.RemoveChild(l)
}

// Children returns the child list in insertion order. The returned slice MUST
// NOT be mutated by the caller.
func (l *Layer) Children() []*Layer {
	return l.children
}

// NumChildren returns the number of children.
func (l *Layer) NumChildren() int {
	return len(l.children)
}

// ChildAt returns the child at the given insertion index.
func (l *Layer) ChildAt(index int) *Layer {
	return l.children[index]
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Layer) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from l.children without clearing child.parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (l *Layer) removeChildByPtr(child *Layer) bool {
	for i, c := range l.children {
		if c == child {
			copy(l.children[i:], l.children[i+1:])
			l.children[len(l.children)-1] = nil
			l.children = l.children[:len(l.children)-1]
			return true
		}
	}
	return false
}

// subtreeCaps unions the pointer capabilities of l and its descendants.
func subtreeCaps(l *Layer) capSet {
	caps := l.caps
	for _, c := range l.children {
		caps |= subtreeCaps(c)
	}
	return caps
}
