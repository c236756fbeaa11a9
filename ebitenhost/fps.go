package ebitenhost

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// fpsRefreshTicks is how often the overlay text is refreshed, ~0.5s at 60 TPS.
const fpsRefreshTicks = 30

// fpsOverlay draws the current FPS and TPS in the top-left corner.
type fpsOverlay struct {
	text  string
	ticks int
}

func (o *fpsOverlay) update() {
	if o.ticks%fpsRefreshTicks == 0 {
		o.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
	}
	o.ticks++
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	vector.DrawFilledRect(screen, 0, 0, 100, 32, color.RGBA{0, 0, 0, 128}, false)
	ebitenutil.DebugPrint(screen, o.text)
}
