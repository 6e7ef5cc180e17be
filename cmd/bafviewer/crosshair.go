package main

import (
	"fmt"
	"image/color"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/BinaryAcquisitionViewer/cmd/bafviewer/uihelpers"
	"github.com/iafilius/BinaryAcquisitionViewer/src/plot"
)

// crosshairOverlay sits on top of the page image. When enabled it draws a
// crosshair and the time/amplitude under the cursor; the mouse wheel zooms
// the time axis.
type crosshairOverlay struct {
	widget.BaseWidget
	state    *uiState
	enabled  bool
	mouse    fyne.Position
	hovering bool
}

func newCrosshairOverlay(state *uiState) *crosshairOverlay {
	c := &crosshairOverlay{state: state, enabled: state != nil && state.crosshairEnabled}
	c.ExtendBaseWidget(c)
	return c
}

// readout maps the cursor to data coordinates of the displayed page.
func (c *crosshairOverlay) readout(size fyne.Size) (string, bool) {
	if c.state == nil || c.state.img == nil || c.state.img.Image == nil || !c.state.sess.IsOpen() {
		return "", false
	}
	b := c.state.img.Image.Bounds()
	v := c.state.view
	t, y, ok := uihelpers.PixelToData(c.mouse.X, c.mouse.Y, float32(b.Dx()), float32(b.Dy()),
		size.Width, size.Height, v.XMin, v.XMax, v.YMin, v.YMax)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("t=%s s  y=%s", plot.FormatTick(t), plot.FormatTick(y)), true
}

func (c *crosshairOverlay) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 0, G: 0, B: 0, A: 0})
	lineV := canvas.NewLine(color.RGBA{R: 200, G: 200, B: 200, A: 220})
	lineV.StrokeWidth = 1.0
	lineH := canvas.NewLine(color.RGBA{R: 200, G: 200, B: 200, A: 220})
	lineH.StrokeWidth = 1.0
	label := canvas.NewText("", color.RGBA{R: 240, G: 240, B: 240, A: 255})
	label.TextSize = theme.TextSize() * 0.9
	labelBG := canvas.NewRectangle(color.RGBA{R: 0, G: 0, B: 0, A: 170})
	objs := []fyne.CanvasObject{bg, lineV, lineH, labelBG, label}
	return &crosshairRenderer{c: c, bg: bg, lineV: lineV, lineH: lineH, labelBG: labelBG, label: label, objs: objs}
}

type crosshairRenderer struct {
	c       *crosshairOverlay
	bg      *canvas.Rectangle
	lineV   *canvas.Line
	lineH   *canvas.Line
	labelBG *canvas.Rectangle
	label   *canvas.Text
	objs    []fyne.CanvasObject
}

func (r *crosshairRenderer) hide() {
	off := fyne.NewPos(-10, -10)
	r.lineV.Position1, r.lineV.Position2 = off, off
	r.lineH.Position1, r.lineH.Position2 = off, off
	r.labelBG.Resize(fyne.NewSize(0, 0))
	r.labelBG.Move(fyne.NewPos(-1000, -1000))
	r.label.Move(fyne.NewPos(-1000, -1000))
}

func (r *crosshairRenderer) Destroy() {}
func (r *crosshairRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	if !r.c.enabled || !r.c.hovering {
		r.hide()
		return
	}
	text, ok := r.c.readout(size)
	if !ok {
		r.hide()
		return
	}
	x, y := r.c.mouse.X, r.c.mouse.Y
	r.lineV.Position1 = fyne.NewPos(x, 0)
	r.lineV.Position2 = fyne.NewPos(x, size.Height)
	r.lineH.Position1 = fyne.NewPos(0, y)
	r.lineH.Position2 = fyne.NewPos(size.Width, y)

	r.label.Text = text
	ts := r.label.MinSize()
	const pad = float32(4)
	bgW, bgH := ts.Width+2*pad, ts.Height+2*pad
	tx, ty := x+12, y+12
	if tx+bgW > size.Width {
		tx = x - 12 - bgW
	}
	if ty+bgH > size.Height {
		ty = size.Height - bgH
	}
	if tx < 0 {
		tx = 0
	}
	r.labelBG.Resize(fyne.NewSize(bgW, bgH))
	r.labelBG.Move(fyne.NewPos(tx, ty))
	r.label.Move(fyne.NewPos(tx+pad, ty+pad))
}
func (r *crosshairRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *crosshairRenderer) Objects() []fyne.CanvasObject { return r.objs }
func (r *crosshairRenderer) Refresh() {
	r.Layout(r.c.Size())
	r.lineV.StrokeColor = theme.Color(theme.ColorNameDisabled)
	r.lineH.StrokeColor = theme.Color(theme.ColorNameDisabled)
	r.bg.Refresh()
	r.lineV.Refresh()
	r.lineH.Refresh()
	r.labelBG.Refresh()
	r.label.Refresh()
}

func (c *crosshairOverlay) setEnabled(b bool) {
	c.enabled = b
	c.Refresh()
}

func (c *crosshairOverlay) MouseMoved(ev *desktop.MouseEvent) {
	if !c.enabled {
		return
	}
	c.hovering = true
	c.mouse = ev.Position
	c.Refresh()
}
func (c *crosshairOverlay) MouseIn(ev *desktop.MouseEvent) { c.hovering = true; c.Refresh() }
func (c *crosshairOverlay) MouseOut()                      { c.hovering = false; c.Refresh() }

// Scrolled zooms the time axis: wheel up zooms in.
func (c *crosshairOverlay) Scrolled(ev *fyne.ScrollEvent) {
	if c.state == nil || !c.state.sess.IsOpen() || ev.Scrolled.DY == 0 {
		return
	}
	if ev.Scrolled.DY > 0 {
		c.state.zoom(zoomStep, 1)
	} else {
		c.state.zoom(1/zoomStep, 1)
	}
}

var (
	_ desktop.Hoverable = (*crosshairOverlay)(nil)
	_ fyne.Scrollable   = (*crosshairOverlay)(nil)
)
