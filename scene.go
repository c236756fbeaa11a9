package gscene

import (
	"io"
	"os"
	"time"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, interaction events of layers with a non-zero EntityID
// are forwarded to it.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type     EventType
	EntityID uint32
	GlobalX  float64
	GlobalY  float64
	LocalX   float64
	LocalY   float64
	// Follow fields (valid for EventFollow)
	DeltaX float64
	DeltaY float64
	Last   bool
}

// Scene is the root of a layer tree bound to one drawing surface. It routes
// host pointer input into the tree, runs follow sessions, loads images and
// coalesces redraw requests into at most one render per frame.
//
// A Scene is not safe for concurrent use; all calls happen on the host's
// event thread.
type Scene struct {
	// OnReady is called each time all pending image loads have finished.
	OnReady func()
	// OnRender is called before each drawn frame, after the asset gate.
	OnRender func()

	width, height float64
	root          *Layer
	host          Host

	loader     *Loader
	fetcher    Fetcher
	maxFetches int

	follow    *followSession
	bound     capSet // input classes routed to hit testing
	scheduled bool
	frames    int

	tweens   []*TweenGroup
	lastTick time.Time
	now      func() time.Time

	store EntityStore
	log   *logger
}

// NewScene creates a scene drawing onto host.Surface with cfg's dimensions,
// and requests its first frame. Panics if cfg is invalid or the host lacks a
// surface, input source or frame timer.
func NewScene(cfg Config, host Host) *Scene {
	if err := cfg.Validate(); err != nil {
		panic("gscene: " + err.Error())
	}
	if host.Surface == nil || host.Input == nil || host.Timer == nil {
		panic("gscene: host needs a Surface, an InputSource and a FrameTimer")
	}

	s := &Scene{
		width:      cfg.Width,
		height:     cfg.Height,
		host:       host,
		maxFetches: cfg.MaxConcurrentFetches,
		now:        time.Now,
		log:        newLogger(cfg.Debug),
	}
	if cfg.AssetRoot != "" {
		s.fetcher = FSFetcher{FS: os.DirFS(cfg.AssetRoot)}
	}

	s.root = NewContainer(LayerOptions{Name: "root", Width: cfg.Width, Height: cfg.Height})
	s.root.sc = s
	if cfg.Background != "" {
		bg, err := ParseColor(cfg.Background)
		if err != nil {
			panic("gscene: " + err.Error())
		}
		s.root.Style.Background = &bg
	}

	s.Schedule()
	return s
}

// Root returns the scene's root container. Its position and size are reset
// to the scene origin and dimensions on every render.
func (s *Scene) Root() *Layer {
	return s.root
}

// Width returns the scene width.
func (s *Scene) Width() float64 { return s.width }

// Height returns the scene height.
func (s *Scene) Height() float64 { return s.height }

// Frames returns the number of frames drawn so far.
func (s *Scene) Frames() int { return s.frames }

// Schedule requests a render on the next frame. Multiple calls before the
// frame is rendered result in a single render.
func (s *Scene) Schedule() {
	if s.scheduled {
		return
	}
	s.scheduled = true
	s.host.Timer.RequestFrame(s.Render)
}

// Scheduled reports whether a frame request is pending.
func (s *Scene) Scheduled() bool {
	return s.scheduled
}

// Image returns the bitmap handle for url, starting its load if needed.
// Rendering is held back until every requested image has finished loading.
func (s *Scene) Image(url string) *Image {
	return s.Loader().Fetch(url)
}

// Loader returns the scene's resource loader, creating it on first use.
func (s *Scene) Loader() *Loader {
	if s.loader == nil {
		fetcher := s.fetcher
		if fetcher == nil {
			fetcher = FSFetcher{FS: os.DirFS(".")}
		}
		s.loader = newLoader(fetcher, s.host.Poster, s.maxFetches, s.log, s.assetsLoaded)
	}
	return s.loader
}

// SetFetcher sets the fetcher used for images. It must be called before the
// first image is requested.
func (s *Scene) SetFetcher(f Fetcher) {
	if s.loader != nil {
		panic("gscene: SetFetcher after the loader was created")
	}
	s.fetcher = f
}

func (s *Scene) assetsLoaded() {
	s.Schedule()
	if s.OnReady != nil {
		s.OnReady()
	}
}

// Close cancels in-flight image loads.
func (s *Scene) Close() {
	if s.loader != nil {
		s.loader.Close()
	}
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, per-frame stats,
// asset loading and follow transitions are logged, and tree depth and child
// count warnings are checked on Add.
func (s *Scene) SetDebugMode(enabled bool) {
	s.log.debug = enabled
}

// SetLogOutput redirects diagnostic output, which defaults to os.Stderr.
func (s *Scene) SetLogOutput(w io.Writer) {
	s.log.out = w
}

// --- Input routing ---

// ensureInput starts hit-test routing for every class in caps that is not
// routed yet. While a follow session holds move and up, those classes are
// only recorded and get bound when the session ends.
func (s *Scene) ensureInput(caps capSet) {
	for class := InputClass(0); class < numInputClasses; class++ {
		if !caps.has(class) || s.bound.has(class) {
			continue
		}
		s.bound = s.bound.with(class)
		s.log.debugf("listening for %s events", class)
		if s.follow != nil && class != InputDown {
			continue
		}
		s.host.Input.Bind(class, s.route(class))
	}
}

// route returns the host callback that hit tests the tree for class.
func (s *Scene) route(class InputClass) InputFunc {
	return func(x, y float64) {
		s.Schedule()
		s.root.fireEvent(x, y, x, y, class, s)
	}
}

// --- ECS bridge ---

func (s *Scene) emitInteractionEvent(typ EventType, e *Event) {
	if s.store == nil || e.Target == nil || e.Target.EntityID == 0 {
		return
	}
	s.store.EmitEvent(InteractionEvent{
		Type:     typ,
		EntityID: e.Target.EntityID,
		GlobalX:  e.GlobalX,
		GlobalY:  e.GlobalY,
		LocalX:   e.X,
		LocalY:   e.Y,
		DeltaX:   e.Delta.X,
		DeltaY:   e.Delta.Y,
		Last:     e.Last,
	})
}
