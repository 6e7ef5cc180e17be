package plot

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoData is returned when a frame has nothing to draw.
var ErrNoData = errors.New("plot: frame has no data")

// Options control how a frame is drawn.
type Options struct {
	Width, Height int       // pixels
	Title         string    // chart title, empty for none
	Label         string    // stamped in the lower-left corner (chart renderer only)
	View          *Viewport // nil draws the frame's own axis limits
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1100
	}
	if o.Height <= 0 {
		o.Height = 340
	}
	return o
}

// limits resolves the axis limits for f under o.
func (o Options) limits(f Frame) Viewport {
	if o.View != nil && o.View.Valid() {
		return *o.View
	}
	v := FitFrame(f)
	if v.XMax <= v.XMin {
		v.XMax = v.XMin + minSpan
	}
	return v
}

// Renderer draws a frame to w.
type Renderer interface {
	Render(w io.Writer, f Frame, o Options) error
}

// NewRenderer picks a renderer by name ("chart" or "gonum") and output
// extension. Vector formats always go through gonum/plot.
func NewRenderer(name, ext string) (Renderer, error) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	switch ext {
	case "svg", "pdf", "eps":
		return GonumRenderer{Format: ext}, nil
	case "", "png":
	default:
		return nil, fmt.Errorf("plot: unsupported output format %q", ext)
	}
	switch strings.ToLower(name) {
	case "", "chart":
		return ChartRenderer{}, nil
	case "gonum":
		return GonumRenderer{Format: "png"}, nil
	}
	return nil, fmt.Errorf("plot: unknown renderer %q", name)
}

// SaveFile renders f into path, choosing the format from its extension.
func SaveFile(path, renderer string, f Frame, o Options) error {
	r, err := NewRenderer(renderer, filepath.Ext(path))
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	err = r.Render(out, f, o)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// palette is shared by both renderers so a channel keeps its color across outputs.
var palette = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
	{R: 0xbc, G: 0xbd, B: 0x22, A: 0xff},
	{R: 0x17, G: 0xbe, B: 0xcf, A: 0xff},
}

// ChannelColor returns the line color of channel c.
func ChannelColor(c int) color.RGBA { return palette[c%len(palette)] }
