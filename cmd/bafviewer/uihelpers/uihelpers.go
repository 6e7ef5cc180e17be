package uihelpers

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ComputeChartDimensions applies width/height clamp rules used for the page chart.
// Input: desired raw width (e.g., canvas width). Returns clamped width & height.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 800 {
		w = 800
	}
	h := int(float32(w) * 0.4)
	if h < 280 {
		h = 280
	}
	if h > 620 {
		h = 620
	}
	return w, h
}

// TruncatePath shortens p to about n characters, always keeping the base name.
func TruncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if left <= 0 {
		return "..." + base
	}
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}

// ContainRect returns where an imgW x imgH image lands inside a viewW x viewH
// area when scaled to fit (ImageFillContain): offset, drawn size and scale.
func ContainRect(imgW, imgH, viewW, viewH float32) (x, y, w, h, scale float32) {
	if imgW <= 0 || imgH <= 0 {
		return 0, 0, viewW, viewH, 1
	}
	sx := viewW / imgW
	sy := viewH / imgH
	scale = sx
	if sy < sx {
		scale = sy
	}
	w = imgW * scale
	h = imgH * scale
	x = (viewW - w) / 2
	y = (viewH - h) / 2
	return
}

// Chart paddings in image pixels; the axis gutters are an estimate of what
// go-chart reserves for tick labels and axis names.
const (
	PadLeft   = 16 + 56
	PadRight  = 12
	PadTop    = 20 + 24
	PadBottom = 28 + 40
)

// PixelToData maps a position inside the view to data coordinates of the
// chart drawn with the given axis limits. ok is false outside the plot area.
func PixelToData(mx, my, imgW, imgH, viewW, viewH float32, xmin, xmax, ymin, ymax float64) (x, y float64, ok bool) {
	dx, dy, _, _, scale := ContainRect(imgW, imgH, viewW, viewH)
	if scale <= 0 {
		return 0, 0, false
	}
	ix := (mx - dx) / scale
	iy := (my - dy) / scale
	plotW := imgW - PadLeft - PadRight
	plotH := imgH - PadTop - PadBottom
	if plotW < 1 || plotH < 1 {
		return 0, 0, false
	}
	fx := float64((ix - PadLeft) / plotW)
	fy := float64((iy - PadTop) / plotH)
	if fx < 0 || fx > 1 || fy < 0 || fy > 1 {
		return 0, 0, false
	}
	return xmin + fx*(xmax-xmin), ymax - fy*(ymax-ymin), true
}

// ParsePageTime accepts plain seconds ("10", "0.5") or a Go duration ("500ms", "2m").
func ParsePageTime(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty page time")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		d, derr := time.ParseDuration(s)
		if derr != nil {
			return 0, fmt.Errorf("invalid page time %q", s)
		}
		v = d.Seconds()
	}
	if !(v > 0) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("page time must be positive, got %q", s)
	}
	return v, nil
}

// FormatSeconds renders a page time for the entry field.
func FormatSeconds(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
