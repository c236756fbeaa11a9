package gscene

// Surface is an immediate-mode 2D drawing context, modeled on the HTML canvas.
// Paint state (transform, colors, line width, clip) is saved and restored as a
// stack. Path coordinates are in the current transformed space.
type Surface interface {
	Save()
	Restore()
	Translate(x, y float64)
	Rotate(radians float64)

	BeginPath()
	Rect(x, y, width, height float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(cx, cy, x, y float64)
	ClosePath()

	SetFillColor(c Color)
	SetStrokeColor(c Color)
	SetLineWidth(w float64)
	Fill()
	Stroke()
	Clip()

	// DrawImage blits b scaled to the destination rectangle. Bitmaps that are
	// not Complete are skipped by the caller.
	DrawImage(b Bitmap, x, y, width, height float64)
}

// Clearer is implemented by surfaces that can be wiped before a full redraw.
// The scene clears once per drawn frame, after the asset gate has passed.
type Clearer interface {
	Clear()
}

// Bitmap is a drawable image resource.
type Bitmap interface {
	// Size returns the natural pixel dimensions, or zero before loading.
	Size() (width, height int)
	// Complete reports whether the bitmap finished loading successfully.
	Complete() bool
}

// InputFunc receives pointer coordinates relative to the drawing surface.
type InputFunc func(x, y float64)

// InputSource delivers host pointer notifications. Binding a class replaces
// any previous callback for it; binding nil unbinds it.
type InputSource interface {
	Bind(class InputClass, fn InputFunc)
}

// FrameTimer invokes fn once before the next repaint.
type FrameTimer interface {
	RequestFrame(fn func())
}

// Poster runs fn later on the event thread. It must be safe to call from any
// goroutine; the resource loader uses it to deliver load completions.
type Poster interface {
	Post(fn func())
}

// Host bundles the collaborators a Scene drives.
type Host struct {
	Surface Surface
	Input   InputSource
	Timer   FrameTimer
	Poster  Poster // required only when images are loaded
}
