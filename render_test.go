package gscene

import (
	"reflect"
	"testing"
)

// drawLog records the order layers are drawn in.
type drawLog struct {
	order []string
}

func (d *drawLog) layer(name string, z int) *Layer {
	return NewLayer(LayerOptions{Name: name, Z: z, Delegate: DrawFunc(func(s Surface, l *Layer) {
		d.order = append(d.order, l.Name)
	})})
}

func TestRenderZOrder(t *testing.T) {
	tests := []struct {
		name string
		z    [3]int
		want []string
	}{
		{"uniform", [3]int{0, 0, 0}, []string{"A", "B", "C"}},
		{"lower middle", [3]int{1, 0, 1}, []string{"B", "A", "C"}},
		{"descending", [3]int{2, 1, 0}, []string{"C", "B", "A"}},
		{"negative", [3]int{0, -1, -2}, []string{"C", "B", "A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestScene(t)
			d := &drawLog{}
			s.Root().Add(d.layer("A", tt.z[0]), d.layer("B", tt.z[1]), d.layer("C", tt.z[2]))
			s.Render()
			if !reflect.DeepEqual(d.order, tt.want) {
				t.Errorf("draw order = %v, want %v", d.order, tt.want)
			}
			// Sorting must not reorder the children themselves.
			if got := names(s.Root().Children()); got != "A,B,C" {
				t.Errorf("children = %s, want A,B,C", got)
			}
		})
	}
}

func TestRenderZOrderNested(t *testing.T) {
	s, _ := newTestScene(t)
	d := &drawLog{}
	box := NewContainer(LayerOptions{Name: "box", Z: -1})
	box.Add(d.layer("inner", 100))
	s.Root().Add(d.layer("top", 0), box)
	s.Render()
	// Z only orders siblings; the box subtree is drawn as a whole.
	if want := []string{"inner", "top"}; !reflect.DeepEqual(d.order, want) {
		t.Errorf("draw order = %v, want %v", d.order, want)
	}
}

func TestRenderBalancedSaveRestore(t *testing.T) {
	s, th := newTestScene(t)
	box := NewContainer(LayerOptions{X: 10, Y: 10, Rotation: 0.5})
	box.Add(NewLayer(LayerOptions{X: 1, Y: 2, Style: Style{Background: ColorBlack.Ptr()}}))
	s.Root().Add(box)
	s.Render()
	if th.surface.depth != 0 {
		t.Errorf("save/restore depth after render = %d, want 0", th.surface.depth)
	}
	if th.surface.count("save") != th.surface.count("restore") {
		t.Error("unbalanced save/restore")
	}
	if th.surface.clears != 1 {
		t.Errorf("clears = %d, want 1", th.surface.clears)
	}
}

func TestRenderResetsRoot(t *testing.T) {
	s, _ := newTestScene(t)
	root := s.Root()
	root.X, root.Y = 5, 6
	root.Width, root.Height = 1, 1
	s.Render()
	if root.X != 0 || root.Y != 0 || root.Width != 400 || root.Height != 300 {
		t.Errorf("root = (%v, %v, %v, %v), want (0, 0, 400, 300)", root.X, root.Y, root.Width, root.Height)
	}
}

func TestRenderTranslatesAndRotates(t *testing.T) {
	s, th := newTestScene(t)
	s.Root().Add(
		NewLayer(LayerOptions{X: 10, Y: 20, Rotation: 0.0005}),
		NewLayer(LayerOptions{X: 30, Y: 40, Rotation: 0.25}),
	)
	s.Render()
	if th.surface.count("translate 10 20") != 1 || th.surface.count("translate 30 40") != 1 {
		t.Errorf("missing translations in %v", th.surface.ops)
	}
	if n := th.surface.count("rotate"); n != 1 {
		t.Errorf("rotations = %d, want 1 (tiny rotations are skipped)", n)
	}
	if th.surface.count("rotate 0.25") != 1 {
		t.Errorf("missing rotate 0.25 in %v", th.surface.ops)
	}
}

func TestRenderStyle(t *testing.T) {
	tests := []struct {
		name      string
		style     Style
		wantOps   map[string]int
		wantWidth string
	}{
		{
			name:    "nothing",
			style:   Style{},
			wantOps: map[string]int{"fill": 0, "stroke": 0, "rect": 0},
		},
		{
			name:    "background",
			style:   Style{Background: ColorWhite.Ptr()},
			wantOps: map[string]int{"fill": 1, "stroke": 0, "rect 0 0 20 10": 1},
		},
		{
			name:      "border default width",
			style:     Style{Border: ColorBlack.Ptr()},
			wantOps:   map[string]int{"fill": 0, "stroke": 1},
			wantWidth: "lineWidth 1",
		},
		{
			name:      "border width",
			style:     Style{Border: ColorBlack.Ptr(), BorderWidth: 3},
			wantOps:   map[string]int{"stroke": 1},
			wantWidth: "lineWidth 3",
		},
		{
			name:    "rounded",
			style:   Style{Background: ColorWhite.Ptr(), Border: ColorBlack.Ptr(), BorderRadius: 4},
			wantOps: map[string]int{"quadTo": 4, "rect": 0, "fill": 1, "stroke": 1, "closePath": 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, th := newTestScene(t)
			s.Root().Add(NewLayer(LayerOptions{Width: 20, Height: 10, Style: tt.style}))
			s.Render()
			for op, want := range tt.wantOps {
				if got := th.surface.count(op); got != want {
					t.Errorf("%q count = %d, want %d", op, got, want)
				}
			}
			if tt.wantWidth != "" && th.surface.count(tt.wantWidth) != 1 {
				t.Errorf("missing %q in %v", tt.wantWidth, th.surface.ops)
			}
		})
	}
}

func TestRoundedRectPath(t *testing.T) {
	r := &recordingSurface{}
	roundedRect(r, 0, 0, 20, 10, 2)
	want := []string{
		"beginPath",
		"moveTo 2 0",
		"lineTo 18 0",
		"quadTo 20 0 20 2",
		"lineTo 20 8",
		"quadTo 20 10 18 10",
		"lineTo 2 10",
		"quadTo 0 10 0 8",
		"lineTo 0 2",
		"quadTo 0 0 2 0",
		"closePath",
	}
	if !reflect.DeepEqual(r.ops, want) {
		t.Errorf("ops = %v, want %v", r.ops, want)
	}
}

// stubBitmap is a Bitmap whose completeness the test controls.
type stubBitmap struct{ complete bool }

func (b *stubBitmap) Size() (int, int) { return 8, 8 }
func (b *stubBitmap) Complete() bool { return b.complete }

func TestRenderBackgroundImageOnlyWhenComplete(t *testing.T) {
	s, th := newTestScene(t)
	bmp := &stubBitmap{}
	s.Root().Add(NewLayer(LayerOptions{Width: 16, Height: 12, Style: Style{BackgroundImage: bmp}}))

	s.Render()
	if th.surface.count("drawImage") != 0 {
		t.Error("incomplete image should not be drawn")
	}
	bmp.complete = true
	s.Render()
	if th.surface.count("drawImage 0 0 16 12") != 1 {
		t.Errorf("want image scaled to layer size, got %v", th.surface.ops)
	}
}

func TestRenderDrawerAfterStyle(t *testing.T) {
	s, th := newTestScene(t)
	var opsBefore int
	s.Root().Add(NewLayer(LayerOptions{
		Width: 10, Height: 10,
		Style: Style{Background: ColorWhite.Ptr()},
		Delegate: DrawFunc(func(sf Surface, l *Layer) {
			opsBefore = len(th.surface.ops)
		}),
	}))
	s.Render()
	// The op just before the drawer must be the fresh path it starts with.
	if opsBefore == 0 || th.surface.ops[opsBefore-1] != "beginPath" {
		t.Errorf("drawer should start with a new path, ops = %v", th.surface.ops[:opsBefore])
	}
	if th.surface.count("fill") != 1 {
		t.Error("background should be filled before the drawer runs")
	}
}

func TestRenderPanicsOnCorruptParent(t *testing.T) {
	s, _ := newTestScene(t)
	child := NewLayer(LayerOptions{})
	s.Root().Add(child)
	child.parent = nil

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic")
		}
	}()
	s.Render()
}

func TestZSortedReusesBuffer(t *testing.T) {
	box := NewContainer(LayerOptions{})
	box.Add(NewLayer(LayerOptions{Z: 1}), NewLayer(LayerOptions{Z: 0}))
	first := box.zsorted()
	second := box.zsorted()
	if &first[0] != &second[0] {
		t.Error("zsorted should reuse its buffer")
	}
}
