package gscene

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Vec2 is a 2D vector used for positions, offsets and deltas throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorTransparent = Color{}
)

// NRGBA converts c to a non-premultiplied 8-bit color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: unit8(c.R),
		G: unit8(c.G),
		B: unit8(c.B),
		A: unit8(c.A),
	}
}

// Ptr returns a pointer to a copy of c, for use in Style fields.
func (c Color) Ptr() *Color {
	return &c
}

func unit8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// ParseColor parses a CSS-style color: a named color ("lightblue"),
// "transparent", or a hex form "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Color{}, fmt.Errorf("parse color: empty string")
	}
	if s == "transparent" {
		return ColorTransparent, nil
	}
	if !strings.HasPrefix(s, "#") {
		named, ok := colornames.Map[s]
		if !ok {
			return Color{}, fmt.Errorf("parse color %q: unknown color name", s)
		}
		return Color{
			R: float64(named.R) / 255,
			G: float64(named.G) / 255,
			B: float64(named.B) / 255,
			A: float64(named.A) / 255,
		}, nil
	}

	hex := s[1:]
	alpha := 1.0
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	case 8:
		var a uint8
		if _, err := fmt.Sscanf(hex[6:], "%02x", &a); err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		alpha = float64(a) / 255
		hex = hex[:6]
	default:
		return Color{}, fmt.Errorf("parse color %q: bad hex length", s)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

// MustParseColor is like ParseColor but panics on malformed input.
// Intended for literals in program setup.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic("gscene: " + err.Error())
	}
	return c
}

// Style is the visual style of a layer. Nil colors are not drawn.
type Style struct {
	Background      *Color
	Border          *Color
	BorderWidth     float64 // 0 draws a 1 pixel border
	BorderRadius    float64 // > 0 draws a rounded rectangle
	BackgroundImage Bitmap  // drawn scaled to the layer size once loaded
}

// InputClass identifies a class of host pointer notification.
type InputClass uint8

const (
	InputDown InputClass = iota // pointer pressed
	InputMove                   // pointer moved
	InputUp                     // pointer released

	numInputClasses
)

// String returns the lower-case name of the input class.
func (c InputClass) String() string {
	switch c {
	case InputDown:
		return "down"
	case InputMove:
		return "move"
	case InputUp:
		return "up"
	}
	return fmt.Sprintf("InputClass(%d)", uint8(c))
}

// capSet is a bitmask of pointer capabilities, one bit per InputClass.
type capSet uint8

func (c capSet) has(class InputClass) bool { return c&(1<<class) != 0 }

func (c capSet) with(class InputClass) capSet { return c | 1<<class }

// EventType identifies the kind of interaction event reported to an EntityStore.
type EventType uint8

const (
	EventDown   EventType = iota // OnDown delivered to a layer delegate
	EventUp                      // OnUp delivered to a layer delegate
	EventMove                    // OnMove delivered to a layer delegate
	EventFollow                  // follow handler invoked during a drag
)

func eventTypeFor(class InputClass) EventType {
	switch class {
	case InputUp:
		return EventUp
	case InputMove:
		return EventMove
	}
	return EventDown
}
