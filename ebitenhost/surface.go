package ebitenhost

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/gscene"
)

var (
	whiteImage = ebiten.NewImage(3, 3)

	// whiteSubImage is an internal sub image of whiteImage.
	// Use whiteSubImage at DrawTriangles instead of whiteImage in order to
	// avoid bleeding edges.
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// imager is implemented by bitmaps that expose their pixels.
type imager interface {
	Image() image.Image
}

type paintState struct {
	geom      ebiten.GeoM
	fill      gscene.Color
	stroke    gscene.Color
	lineWidth float64
	clip      image.Rectangle
	clipped   bool
}

// Surface implements gscene.Surface on an *ebiten.Image.
//
// Clip is approximated by the device-space bounding box of the clip path,
// since ebiten images can only be clipped to rectangles.
type Surface struct {
	target *ebiten.Image
	state  paintState
	stack  []paintState

	path       vector.Path
	pathBounds image.Rectangle
	pathEmpty  bool

	images map[gscene.Bitmap]*ebiten.Image
	vs     []ebiten.Vertex
	is     []uint16

	// Background is the color Clear fills the target with.
	Background gscene.Color
}

// NewSurface wraps target.
func NewSurface(target *ebiten.Image) *Surface {
	return &Surface{
		target: target,
		state: paintState{
			fill:      gscene.ColorBlack,
			stroke:    gscene.ColorBlack,
			lineWidth: 1,
		},
		pathEmpty: true,
		images:    make(map[gscene.Bitmap]*ebiten.Image),
	}
}

// Target returns the image drawn onto.
func (s *Surface) Target() *ebiten.Image {
	return s.target
}

// Clear fills the target with Background.
func (s *Surface) Clear() {
	s.target.Fill(s.Background.NRGBA())
}

// Save pushes the paint state.
func (s *Surface) Save() {
	s.stack = append(s.stack, s.state)
}

// Restore pops the paint state; unmatched calls are ignored.
func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

// Translate moves the origin in the current space.
func (s *Surface) Translate(x, y float64) {
	var t ebiten.GeoM
	t.Translate(x, y)
	t.Concat(s.state.geom)
	s.state.geom = t
}

// Rotate rotates the current space clockwise by radians.
func (s *Surface) Rotate(radians float64) {
	var r ebiten.GeoM
	r.Rotate(radians)
	r.Concat(s.state.geom)
	s.state.geom = r
}

// SetFillColor sets the fill color.
func (s *Surface) SetFillColor(c gscene.Color) { s.state.fill = c }

// SetStrokeColor sets the stroke color.
func (s *Surface) SetStrokeColor(c gscene.Color) { s.state.stroke = c }

// SetLineWidth sets the stroke width in user space units.
func (s *Surface) SetLineWidth(w float64) { s.state.lineWidth = w }

// --- Path construction ---

func (s *Surface) apply(x, y float64) (float32, float32) {
	dx, dy := s.state.geom.Apply(x, y)
	p := image.Pt(int(math.Floor(dx)), int(math.Floor(dy)))
	r := image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))}
	if s.pathEmpty {
		s.pathBounds = r
		s.pathEmpty = false
	} else {
		s.pathBounds = s.pathBounds.Union(r)
	}
	return float32(dx), float32(dy)
}

// BeginPath discards the current path.
func (s *Surface) BeginPath() {
	s.path = vector.Path{}
	s.pathEmpty = true
}

// MoveTo starts a new subpath.
func (s *Surface) MoveTo(x, y float64) {
	s.path.MoveTo(s.apply(x, y))
}

// LineTo adds a straight segment.
func (s *Surface) LineTo(x, y float64) {
	s.path.LineTo(s.apply(x, y))
}

// QuadTo adds a quadratic Bézier segment.
func (s *Surface) QuadTo(cx, cy, x, y float64) {
	x1, y1 := s.apply(cx, cy)
	x2, y2 := s.apply(x, y)
	s.path.QuadTo(x1, y1, x2, y2)
}

// ClosePath closes the current subpath.
func (s *Surface) ClosePath() {
	s.path.Close()
}

// Rect adds a closed rectangle subpath.
func (s *Surface) Rect(x, y, w, h float64) {
	s.MoveTo(x, y)
	s.LineTo(x+w, y)
	s.LineTo(x+w, y+h)
	s.LineTo(x, y+h)
	s.ClosePath()
}

// --- Painting ---

// Fill fills the current path using non-zero winding.
func (s *Surface) Fill() {
	s.vs, s.is = s.path.AppendVerticesAndIndicesForFilling(s.vs[:0], s.is[:0])
	s.drawTriangles(s.state.fill, ebiten.FillRuleNonZero)
}

// Stroke outlines the current path.
func (s *Surface) Stroke() {
	op := &vector.StrokeOptions{
		Width:    float32(s.state.lineWidth * geomScale(s.state.geom)),
		LineJoin: vector.LineJoinRound,
	}
	s.vs, s.is = s.path.AppendVerticesAndIndicesForStroke(s.vs[:0], s.is[:0], op)
	s.drawTriangles(s.state.stroke, ebiten.FillRuleFillAll)
}

// Clip narrows the clip rectangle to the bounds of the current path.
func (s *Surface) Clip() {
	bounds := s.pathBounds
	if s.pathEmpty {
		bounds = image.Rectangle{}
	}
	if s.state.clipped {
		bounds = s.state.clip.Intersect(bounds)
	}
	s.state.clip = bounds
	s.state.clipped = true
}

// DrawImage draws b scaled into (x, y, w, h) of the current space.
// Bitmaps are uploaded once and cached.
func (s *Surface) DrawImage(b gscene.Bitmap, x, y, w, h float64) {
	if b == nil || !b.Complete() {
		return
	}
	img := s.ebitenImage(b)
	if img == nil {
		return
	}
	bw, bh := img.Bounds().Dx(), img.Bounds().Dy()
	if bw == 0 || bh == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w/float64(bw), h/float64(bh))
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(s.state.geom)
	op.Filter = ebiten.FilterLinear
	if dst := s.dst(); dst != nil {
		dst.DrawImage(img, op)
	}
}

func (s *Surface) ebitenImage(b gscene.Bitmap) *ebiten.Image {
	if img, ok := s.images[b]; ok {
		return img
	}
	im, ok := b.(imager)
	if !ok || im.Image() == nil {
		return nil
	}
	img := ebiten.NewImageFromImage(im.Image())
	s.images[b] = img
	return img
}

// dst returns the target narrowed to the clip rectangle, or nil when the
// clip is empty.
func (s *Surface) dst() *ebiten.Image {
	if !s.state.clipped {
		return s.target
	}
	if s.state.clip.Empty() {
		return nil
	}
	return s.target.SubImage(s.state.clip).(*ebiten.Image)
}

func (s *Surface) drawTriangles(c gscene.Color, rule ebiten.FillRule) {
	if len(s.is) == 0 {
		return
	}
	r, g, b, a := float32(c.R), float32(c.G), float32(c.B), float32(c.A)
	for i := range s.vs {
		s.vs[i].SrcX = 1
		s.vs[i].SrcY = 1
		s.vs[i].ColorR = r
		s.vs[i].ColorG = g
		s.vs[i].ColorB = b
		s.vs[i].ColorA = a
	}
	dst := s.dst()
	if dst == nil {
		return
	}
	op := &ebiten.DrawTrianglesOptions{
		FillRule:  rule,
		AntiAlias: true,
	}
	dst.DrawTriangles(s.vs, s.is, whiteSubImage, op)
}

// geomScale approximates the uniform scale factor of g.
func geomScale(g ebiten.GeoM) float64 {
	a, b, c, d := g.Element(0, 0), g.Element(0, 1), g.Element(1, 0), g.Element(1, 1)
	return math.Sqrt(math.Abs(a*d - b*c))
}
