// Package ebitenhost runs a gscene.Scene inside an Ebitengine game.
//
// The scene is drawn into an offscreen canvas that persists between ticks, so
// frames the scene does not re-render keep showing the last picture. Pointer
// input comes from the left mouse button or the first active touch, or from
// a scripted gscene.Playback for demos and automated runs.
package ebitenhost

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/gscene"
)

// callQueue is a FIFO of callbacks. Push is safe from any goroutine.
type callQueue struct {
	mu      sync.Mutex
	pending []func()
	running []func()
}

func (q *callQueue) push(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// drain runs the callbacks queued before the call. Callbacks queued while
// draining run on the next drain.
func (q *callQueue) drain() int {
	q.mu.Lock()
	q.running, q.pending = q.pending, q.running[:0]
	q.mu.Unlock()
	n := len(q.running)
	for i, fn := range q.running {
		q.running[i] = nil
		fn()
	}
	return n
}

// Host implements ebiten.Game for a single scene and provides the scene's
// surface, input source, frame timer and poster.
type Host struct {
	cfg     gscene.Config
	canvas  *ebiten.Image
	surface *Surface
	scene   *gscene.Scene

	input    deviceInput
	playback *gscene.Playback
	script   *gscene.Script

	posted callQueue
	frames callQueue
	fps    *fpsOverlay
}

// New creates a host and its scene. Panics if cfg is invalid.
func New(cfg gscene.Config) *Host {
	if err := cfg.Validate(); err != nil {
		panic("ebitenhost: " + err.Error())
	}
	h := &Host{
		cfg:      cfg,
		canvas:   ebiten.NewImage(int(cfg.Width), int(cfg.Height)),
		playback: gscene.NewPlayback(),
	}
	if cfg.ShowFPS {
		h.fps = &fpsOverlay{}
	}
	h.surface = NewSurface(h.canvas)
	h.scene = gscene.NewScene(cfg, gscene.Host{
		Surface: h.surface,
		Input:   h,
		Timer:   h,
		Poster:  h,
	})
	return h
}

// Scene returns the hosted scene.
func (h *Host) Scene() *gscene.Scene { return h.scene }

// Surface returns the drawing surface of the offscreen canvas.
func (h *Host) Surface() *Surface { return h.surface }

// Playback returns the synthetic input source that feeds the scene alongside
// the devices. Queued events are released one per tick.
func (h *Host) Playback() *gscene.Playback { return h.playback }

// SetScript plays s through Playback, one step per tick.
func (h *Host) SetScript(s *gscene.Script) { h.script = s }

// Bind implements gscene.InputSource for both device and scripted input.
func (h *Host) Bind(class gscene.InputClass, fn gscene.InputFunc) {
	h.input.bind(class, fn)
	h.playback.Bind(class, fn)
}

// RequestFrame implements gscene.FrameTimer. fn runs before the next Draw
// presents the canvas.
func (h *Host) RequestFrame(fn func()) { h.frames.push(fn) }

// Post implements gscene.Poster. fn runs at the start of the next Update.
func (h *Host) Post(fn func()) { h.posted.push(fn) }

// Run opens the window and blocks until it is closed.
func (h *Host) Run() error {
	defer h.scene.Close()
	ebiten.SetWindowSize(int(h.cfg.Width), int(h.cfg.Height))
	ebiten.SetWindowTitle(h.cfg.Title)
	return ebiten.RunGame(h)
}

// Update implements ebiten.Game.
func (h *Host) Update() error {
	h.posted.drain()
	if h.script != nil && !h.script.Done() {
		h.script.Tick(h.playback)
	} else {
		h.playback.Step()
	}
	h.input.poll()
	if h.fps != nil {
		h.fps.update()
	}
	return nil
}

// Draw implements ebiten.Game.
func (h *Host) Draw(screen *ebiten.Image) {
	h.frames.drain()
	screen.DrawImage(h.canvas, nil)
	if h.fps != nil {
		h.fps.draw(screen)
	}
}

// Layout implements ebiten.Game. The scene has a fixed logical size.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(h.cfg.Width), int(h.cfg.Height)
}
