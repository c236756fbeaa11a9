// Package raster implements gscene.Surface in memory on an *image.RGBA,
// using golang.org/x/image/vector for path coverage and golang.org/x/image/draw
// for compositing and scaled image blits.
//
// A Canvas is useful for tests, headless rendering and snapshots. It is not
// safe for concurrent use.
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/phanxgames/gscene"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
)

// quadSegments is the number of line segments a quadratic curve is flattened
// into when stroking.
const quadSegments = 8

// Imager is implemented by bitmaps that expose their pixels, such as
// *gscene.Image. Bitmaps without pixels are ignored by DrawImage.
type Imager interface {
	Image() image.Image
}

type paintState struct {
	m         f64.Aff3 // current transform, row-major [a b c; d e f]
	fill      gscene.Color
	stroke    gscene.Color
	lineWidth float64
	clip      *image.Alpha // nil means unclipped
}

type segOp uint8

const (
	opMove segOp = iota
	opLine
	opQuad
	opClose
)

// segment is one path command in device coordinates.
type segment struct {
	op             segOp
	cx, cy, px, py float64
}

// Canvas is an in-memory drawing surface.
type Canvas struct {
	img   *image.RGBA
	state paintState
	stack []paintState
	path  []segment

	// Background is painted by Clear. The zero value clears to transparent.
	Background gscene.Color
}

var identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// New returns a transparent canvas of the given size.
func New(width, height int) *Canvas {
	return &Canvas{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
		state: paintState{
			m:         identity,
			fill:      gscene.ColorBlack,
			stroke:    gscene.ColorBlack,
			lineWidth: 1,
		},
	}
}

// Image returns the canvas pixels.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// At returns the color of the pixel at (x, y).
func (c *Canvas) At(x, y int) color.RGBA {
	return c.img.RGBAAt(x, y)
}

// Clear paints the whole canvas with Background, ignoring the clip.
func (c *Canvas) Clear() {
	xdraw.Draw(c.img, c.img.Bounds(), image.NewUniform(c.Background.NRGBA()), image.Point{}, xdraw.Src)
}

// --- Paint state ---

// Save pushes the paint state.
func (c *Canvas) Save() {
	c.stack = append(c.stack, c.state)
}

// Restore pops the paint state. Restore without a matching Save is ignored,
// as on an HTML canvas.
func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

// Depth returns the number of saved states.
func (c *Canvas) Depth() int {
	return len(c.stack)
}

// Translate moves the origin by (x, y) in the current space.
func (c *Canvas) Translate(x, y float64) {
	m := &c.state.m
	m[2] += m[0]*x + m[1]*y
	m[5] += m[3]*x + m[4]*y
}

// Rotate rotates the current space clockwise by radians.
func (c *Canvas) Rotate(radians float64) {
	sin, cos := math.Sincos(radians)
	m := c.state.m
	c.state.m = f64.Aff3{
		m[0]*cos + m[1]*sin, -m[0]*sin + m[1]*cos, m[2],
		m[3]*cos + m[4]*sin, -m[3]*sin + m[4]*cos, m[5],
	}
}

// SetFillColor sets the fill color.
func (c *Canvas) SetFillColor(col gscene.Color) { c.state.fill = col }

// SetStrokeColor sets the stroke color.
func (c *Canvas) SetStrokeColor(col gscene.Color) { c.state.stroke = col }

// SetLineWidth sets the stroke width in user space units.
func (c *Canvas) SetLineWidth(w float64) { c.state.lineWidth = w }

// --- Path construction ---

func (c *Canvas) apply(x, y float64) (float64, float64) {
	m := c.state.m
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// BeginPath discards the current path.
func (c *Canvas) BeginPath() {
	c.path = c.path[:0]
}

// MoveTo starts a new subpath at (x, y).
func (c *Canvas) MoveTo(x, y float64) {
	px, py := c.apply(x, y)
	c.path = append(c.path, segment{op: opMove, px: px, py: py})
}

// LineTo adds a straight segment to (x, y).
func (c *Canvas) LineTo(x, y float64) {
	px, py := c.apply(x, y)
	c.path = append(c.path, segment{op: opLine, px: px, py: py})
}

// QuadTo adds a quadratic Bézier segment with control point (cx, cy).
func (c *Canvas) QuadTo(cx, cy, x, y float64) {
	dcx, dcy := c.apply(cx, cy)
	px, py := c.apply(x, y)
	c.path = append(c.path, segment{op: opQuad, cx: dcx, cy: dcy, px: px, py: py})
}

// ClosePath closes the current subpath.
func (c *Canvas) ClosePath() {
	c.path = append(c.path, segment{op: opClose})
}

// Rect adds a closed rectangular subpath.
func (c *Canvas) Rect(x, y, w, h float64) {
	c.MoveTo(x, y)
	c.LineTo(x+w, y)
	c.LineTo(x+w, y+h)
	c.LineTo(x, y+h)
	c.ClosePath()
}

// --- Painting ---

// Fill fills the current path with the fill color, using non-zero winding.
func (c *Canvas) Fill() {
	mask := c.coverage(c.rasterizeFill)
	c.paint(mask, c.state.fill)
}

// Stroke outlines the current path with the stroke color and line width.
func (c *Canvas) Stroke() {
	mask := c.coverage(c.rasterizeStroke)
	c.paint(mask, c.state.stroke)
}

// Clip intersects the clip region with the current path.
func (c *Canvas) Clip() {
	mask := c.coverage(c.rasterizeFill)
	if prev := c.state.clip; prev != nil {
		for i := range mask.Pix {
			mask.Pix[i] = uint8(uint16(mask.Pix[i]) * uint16(prev.Pix[i]) / 255)
		}
	}
	c.state.clip = mask
}

// DrawImage draws b scaled into the rectangle (x, y, w, h) of the current
// space. Bitmaps that are not complete or do not expose pixels are skipped.
func (c *Canvas) DrawImage(b gscene.Bitmap, x, y, w, h float64) {
	if b == nil || !b.Complete() {
		return
	}
	im, ok := b.(Imager)
	if !ok || im.Image() == nil {
		return
	}
	src := im.Image()
	sr := src.Bounds()
	if sr.Empty() || w == 0 || h == 0 {
		return
	}
	sx := w / float64(sr.Dx())
	sy := h / float64(sr.Dy())
	m := c.state.m
	// s2d = m * translate(x, y) * scale(sx, sy) * translate(-sr.Min)
	ox := x - float64(sr.Min.X)*sx
	oy := y - float64(sr.Min.Y)*sy
	s2d := f64.Aff3{
		m[0] * sx, m[1] * sy, m[0]*ox + m[1]*oy + m[2],
		m[3] * sx, m[4] * sy, m[3]*ox + m[4]*oy + m[5],
	}
	var opts *xdraw.Options
	if c.state.clip != nil {
		opts = &xdraw.Options{DstMask: c.state.clip}
	}
	xdraw.ApproxBiLinear.Transform(c.img, s2d, src, sr, xdraw.Over, opts)
}

// paint composites col through mask and the clip onto the canvas.
func (c *Canvas) paint(mask *image.Alpha, col gscene.Color) {
	if clip := c.state.clip; clip != nil {
		for i := range mask.Pix {
			mask.Pix[i] = uint8(uint16(mask.Pix[i]) * uint16(clip.Pix[i]) / 255)
		}
	}
	xdraw.DrawMask(c.img, c.img.Bounds(), image.NewUniform(col.NRGBA()), image.Point{}, mask, image.Point{}, xdraw.Over)
}

// coverage rasterizes the current path with fn into a canvas-sized mask.
func (c *Canvas) coverage(fn func(z *vector.Rasterizer)) *image.Alpha {
	b := c.img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	fn(z)
	mask := image.NewAlpha(b)
	z.Draw(mask, b, image.Opaque, image.Point{})
	return mask
}

// rasterizeFill adds every subpath, implicitly closed.
func (c *Canvas) rasterizeFill(z *vector.Rasterizer) {
	open := false
	for _, s := range c.path {
		switch s.op {
		case opMove:
			if open {
				z.ClosePath()
			}
			z.MoveTo(float32(s.px), float32(s.py))
			open = true
		case opLine:
			z.LineTo(float32(s.px), float32(s.py))
		case opQuad:
			z.QuadTo(float32(s.cx), float32(s.cy), float32(s.px), float32(s.py))
		case opClose:
			if open {
				z.ClosePath()
				open = false
			}
		}
	}
	if open {
		z.ClosePath()
	}
}

// rasterizeStroke flattens the path into polylines and adds one quad per
// segment. Every quad is wound the same way so overlaps accumulate instead
// of cancelling.
func (c *Canvas) rasterizeStroke(z *vector.Rasterizer) {
	half := c.state.lineWidth * c.scale() / 2
	if half <= 0 {
		return
	}
	for _, line := range c.polylines() {
		for i := 1; i < len(line); i++ {
			strokeSegment(z, line[i-1], line[i], half)
		}
	}
}

// scale approximates the uniform scale factor of the current transform.
func (c *Canvas) scale() float64 {
	m := c.state.m
	return math.Sqrt(math.Abs(m[0]*m[4] - m[1]*m[3]))
}

// polylines flattens the path into point lists, one per subpath. Closed
// subpaths end with their first point.
func (c *Canvas) polylines() [][]gscene.Vec2 {
	var (
		lines [][]gscene.Vec2
		cur   []gscene.Vec2
	)
	flush := func() {
		if len(cur) > 1 {
			lines = append(lines, cur)
		}
		cur = nil
	}
	for _, s := range c.path {
		switch s.op {
		case opMove:
			flush()
			cur = []gscene.Vec2{{X: s.px, Y: s.py}}
		case opLine:
			cur = append(cur, gscene.Vec2{X: s.px, Y: s.py})
		case opQuad:
			if len(cur) == 0 {
				cur = append(cur, gscene.Vec2{X: s.cx, Y: s.cy})
			}
			p0 := cur[len(cur)-1]
			for i := 1; i <= quadSegments; i++ {
				t := float64(i) / quadSegments
				u := 1 - t
				cur = append(cur, gscene.Vec2{
					X: u*u*p0.X + 2*u*t*s.cx + t*t*s.px,
					Y: u*u*p0.Y + 2*u*t*s.cy + t*t*s.py,
				})
			}
		case opClose:
			if len(cur) > 1 {
				cur = append(cur, cur[0])
			}
			flush()
		}
	}
	flush()
	return lines
}

func strokeSegment(z *vector.Rasterizer, a, b gscene.Vec2, half float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	// Extend each end by half the width to approximate square caps and
	// close the gaps at joins.
	ux, uy := dx/length*half, dy/length*half
	nx, ny := -uy, ux
	pts := [4]gscene.Vec2{
		{X: a.X - ux + nx, Y: a.Y - uy + ny},
		{X: b.X + ux + nx, Y: b.Y + uy + ny},
		{X: b.X + ux - nx, Y: b.Y + uy - ny},
		{X: a.X - ux - nx, Y: a.Y - uy - ny},
	}
	if signedArea(pts[:]) < 0 {
		pts[1], pts[3] = pts[3], pts[1]
	}
	z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
}

func signedArea(pts []gscene.Vec2) float64 {
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum / 2
}
