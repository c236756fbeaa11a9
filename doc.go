// Package gscene is a minimal retained-mode scene graph for 2D canvas-style
// rendering.
//
// A [Scene] keeps a tree of [Layer] values, draws it in a deterministic order
// onto a [Surface], routes pointer input to the topmost layer under the
// pointer, and runs drag-style follow sessions. Images are loaded
// asynchronously and hold back rendering until they are ready, and any
// number of change notifications between two frames produce a single redraw.
//
// gscene does not open windows or read devices itself. A [Host] supplies the
// drawing surface, the pointer input source, the frame timer and an
// event-thread poster. Package ebitenhost provides one for [Ebitengine];
// package raster provides an in-memory surface for tests and snapshots.
//
// # Quick start
//
//	host := ebitenhost.New(cfg)
//	scene := host.Scene()
//	sun := &Sun{layer: gscene.NewLayer(gscene.LayerOptions{
//		X: 100, Y: 100, Width: 32, Height: 32,
//		Style: gscene.Style{BackgroundImage: scene.Image("sun.png")},
//	})}
//	scene.Root().Add(sun) // sun becomes the layer's delegate
//	log.Fatal(host.Run())
//
// # Layers and delegates
//
// Containers ([NewContainer]) hold children in insertion order. Children are
// drawn in ascending [Layer.Z] order, ties in insertion order. Hit testing
// walks children from last inserted to first and ignores Z and rotation.
//
// A layer's delegate provides its behavior through optional capabilities:
// [Drawer] (or a bare [DrawFunc]), [DownHandler], [UpHandler] and
// [MoveHandler]. The scene only listens for the pointer classes that some
// layer in its tree handles.
//
// # Follow sessions
//
// A down handler can call [Event.Follow] to capture the rest of the gesture:
// every move, and finally the up, is delivered to the follow function with
// [Event.Delta] measured from the down position. The final call has
// [Event.Last] set. Only one session runs at a time.
//
// # Errors
//
// Tree invariant violations (adding an attached layer, removing a non-child)
// panic. Image load failures are reported as warnings and the image is
// simply never drawn.
//
// [Ebitengine]: https://ebitengine.org
package gscene
