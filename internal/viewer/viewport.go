package viewer

import (
	"fmt"
	"math"
	"sync"
)

const (
	// MinScale and MaxScale bound the zoom factor.
	MinScale = 1.0
	MaxScale = 20.0

	// zoomStep is the exponent applied per wheel notch.
	zoomStep = 0.1
)

// Direction is the direction of a zoom gesture.
type Direction int

const (
	In Direction = iota
	Out
)

// State is the affine transform of the focused media: a uniform scale
// followed by a translation in pixels.
type State struct {
	Scale float64
	X     float64
	Y     float64
}

// Transform renders the state as a CSS-style transform string.
func (s State) Transform() string {
	return fmt.Sprintf("translate(%gpx, %gpx) scale(%g)", s.X, s.Y, s.Scale)
}

// Matrix returns the state as a 2D affine matrix [a b c d e f].
func (s State) Matrix() [6]float64 {
	return [6]float64{s.Scale, 0, 0, s.Scale, s.X, s.Y}
}

// Viewport holds the zoom and pan state of the focused viewer.
type Viewport struct {
	mu       sync.Mutex
	state    State
	baseline State
	enabled  bool
	dragging bool
	dragX    float64
	dragY    float64
}

// New creates a viewport whose reset baseline translates to (x, y).
func New(x, y float64) *Viewport {
	base := State{Scale: MinScale, X: x, Y: y}
	return &Viewport{state: base, baseline: base}
}

// State returns the current transform.
func (v *Viewport) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Baseline returns the state Reset restores.
func (v *Viewport) Baseline() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.baseline
}

// Enabled reports whether zoom and pan gestures currently apply.
func (v *Viewport) Enabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.enabled
}

// SetEnabled turns gestures on while an item is focused. Disabling also
// resets the transform and drops any drag in progress.
func (v *Viewport) SetEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.enabled = enabled
	if !enabled {
		v.resetLocked()
	}
}

// Zoom scales by e^0.1 (in) or e^-0.1 (out) and clamps the scale into
// [MinScale, MaxScale]. It is a no-op while disabled.
func (v *Viewport) Zoom(dir Direction) State {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.enabled {
		return v.state
	}
	delta := zoomStep
	if dir == Out {
		delta = -zoomStep
	}
	v.state.Scale = clamp(v.state.Scale * math.Exp(delta))
	return v.state
}

// StartDrag begins a pan gesture at pointer position (x, y).
func (v *Viewport) StartDrag(x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dragging = true
	v.dragX, v.dragY = x, y
}

// DragTo pans by the pointer movement since the last drag position.
func (v *Viewport) DragTo(x, y float64) State {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.dragging {
		return v.state
	}
	dx, dy := x-v.dragX, y-v.dragY
	v.dragX, v.dragY = x, y
	v.panLocked(dx, dy)
	return v.state
}

// EndDrag ends the pan gesture.
func (v *Viewport) EndDrag() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dragging = false
}

// Dragging reports whether a pan gesture is held.
func (v *Viewport) Dragging() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dragging
}

// Pan adds (dx, dy) to the translation. It only applies while enabled and a
// pan gesture is held.
func (v *Viewport) Pan(dx, dy float64) State {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.dragging {
		v.panLocked(dx, dy)
	}
	return v.state
}

// Reset restores the baseline transform.
func (v *Viewport) Reset() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resetLocked()
	return v.state
}

func (v *Viewport) panLocked(dx, dy float64) {
	if !v.enabled {
		return
	}
	v.state.X += dx
	v.state.Y += dy
}

func (v *Viewport) resetLocked() {
	v.state = v.baseline
	v.dragging = false
}

func clamp(scale float64) float64 {
	return math.Min(math.Max(MinScale, scale), MaxScale)
}
