package plot

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ChartRenderer draws frames as PNG with go-chart. It is the on-screen renderer.
type ChartRenderer struct{}

// Render writes f as a PNG image.
func (r ChartRenderer) Render(w io.Writer, f Frame, o Options) error {
	img, err := r.Image(f, o)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Image draws f and returns the decoded image, with o.Label stamped on it.
func (ChartRenderer) Image(f Frame, o Options) (image.Image, error) {
	if f.Empty() || f.Filled == 0 {
		return nil, ErrNoData
	}
	o = o.withDefaults()
	lim := o.limits(f)

	series := make([]chart.Series, 0, f.Channels())
	for c := 0; c < f.Channels(); c++ {
		xs, ys := f.Series(c)
		if len(xs) == 1 {
			// go-chart needs two distinct x values
			xs = []float64{xs[0], xs[0] + minSpan}
			ys = []float64{ys[0], ys[0]}
		}
		col := ChannelColor(c)
		series = append(series, chart.ContinuousSeries{
			Name:    ChannelName(c),
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: drawing.Color{R: col.R, G: col.G, B: col.B, A: col.A},
				StrokeWidth: 1.5,
			},
		})
	}

	ch := chart.Chart{
		Title:      o.Title,
		Width:      o.Width,
		Height:     o.Height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 12, Bottom: 28}},
		XAxis: chart.XAxis{
			Name:  "Time (s)",
			Range: &chart.ContinuousRange{Min: lim.XMin, Max: lim.XMax},
			Ticks: chartTicks(lim.XMin, lim.XMax, 8),
		},
		YAxis: chart.YAxis{
			Name:  "Amplitude",
			Range: &chart.ContinuousRange{Min: lim.YMin, Max: lim.YMax},
			Ticks: chartTicks(lim.YMin, lim.YMax, 6),
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, err
	}
	return stampLabel(img, o.Label), nil
}

func chartTicks(min, max float64, n int) []chart.Tick {
	vs := NumericTicks(min, max, n)
	ticks := make([]chart.Tick, 0, len(vs))
	for _, v := range vs {
		ticks = append(ticks, chart.Tick{Value: v, Label: FormatTick(v)})
	}
	return ticks
}

// stampLabel draws text near the bottom-left corner over a dark band.
func stampLabel(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: rgba, Src: image.NewUniform(color.White), Face: face}
	tw := dr.MeasureString(text).Ceil()
	pad := 4
	x := b.Min.X + 8
	y := b.Max.Y - 6
	bg := image.NewUniform(color.RGBA{A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}

// Blank returns a flat dark image, shown when there is nothing to draw.
func Blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 18, G: 18, B: 18, A: 255}), image.Point{}, draw.Src)
	return img
}
