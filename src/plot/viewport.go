package plot

import "math"

// minSpan keeps zoomed axes from collapsing to a single value.
const minSpan = 1e-9

// Viewport is the visible window over a frame. Zoom factors above 1 zoom in,
// below 1 zoom out; pan fractions are relative to the current span.
type Viewport struct {
	XMin, XMax float64
	YMin, YMax float64
}

// FitFrame returns the viewport covering the frame's axis limits.
func FitFrame(f Frame) Viewport {
	return Viewport{XMin: f.XMin, XMax: f.XMax, YMin: f.YMin, YMax: f.YMax}
}

// Fit resets v to the frame's axis limits.
func (v *Viewport) Fit(f Frame) { *v = FitFrame(f) }

// Valid reports whether both spans are positive and finite.
func (v Viewport) Valid() bool {
	return finite(v.XMin, v.XMax, v.YMin, v.YMax) && v.XMax > v.XMin && v.YMax > v.YMin
}

func (v *Viewport) ZoomX(factor float64) { v.XMin, v.XMax = zoom(v.XMin, v.XMax, factor) }
func (v *Viewport) ZoomY(factor float64) { v.YMin, v.YMax = zoom(v.YMin, v.YMax, factor) }

func (v *Viewport) PanX(frac float64) {
	d := (v.XMax - v.XMin) * frac
	v.XMin += d
	v.XMax += d
}

func (v *Viewport) PanY(frac float64) {
	d := (v.YMax - v.YMin) * frac
	v.YMin += d
	v.YMax += d
}

func zoom(lo, hi, factor float64) (float64, float64) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return lo, hi
	}
	c := (lo + hi) / 2
	half := (hi - lo) / 2 / factor
	if half < minSpan/2 {
		half = minSpan / 2
	}
	return c - half, c + half
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
