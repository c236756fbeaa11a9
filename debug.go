package gscene

import (
	"fmt"
	"io"
	"os"
	"time"
)

// logger writes "[gscene]" diagnostic lines. Debug lines are dropped unless
// debug mode is on; warnings are always written.
type logger struct {
	out   io.Writer
	debug bool
}

func newLogger(debug bool) *logger {
	return &logger{out: os.Stderr, debug: debug}
}

func (lg *logger) debugf(format string, args ...any) {
	if !lg.debug {
		return
	}
	_, _ = fmt.Fprintf(lg.out, "[gscene] "+format+"\n", args...)
}

func (lg *logger) warnf(format string, args ...any) {
	_, _ = fmt.Fprintf(lg.out, "[gscene] warning: "+format+"\n", args...)
}

// debugStats holds per-frame timing and tree metrics.
// Only populated when debug mode is on.
type debugStats struct {
	frame      int
	drawTime   time.Duration
	layerCount int
	tweenCount int
}

// debugLog prints render stats.
func (s *Scene) debugLog(stats debugStats) {
	s.log.debugf("frame %d: draw: %v | layers: %d | tweens: %d",
		stats.frame, stats.drawTime, stats.layerCount, stats.tweenCount)
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(lg *logger, l *Layer) {
	depth := 0
	for p := l; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		lg.warnf("tree depth %d exceeds %d (layer %q)", depth, debugMaxTreeDepth, l.Name)
	}
}

// debugCheckChildCount warns if a container has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(lg *logger, l *Layer) {
	if len(l.children) > debugMaxChildCount {
		lg.warnf("layer %q has %d children (threshold %d)",
			l.Name, len(l.children), debugMaxChildCount)
	}
}
