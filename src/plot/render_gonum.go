package plot

import (
	"io"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// GonumRenderer draws frames with gonum/plot. Format is one of the formats
// understood by gonum/plot ("png", "svg", "pdf", "eps").
type GonumRenderer struct {
	Format string
}

// Render writes f to w in r.Format.
func (r GonumRenderer) Render(w io.Writer, f Frame, o Options) error {
	p, err := r.Plot(f, o)
	if err != nil {
		return err
	}
	o = o.withDefaults()
	format := r.Format
	if format == "" {
		format = "png"
	}
	// one pixel per point keeps raster output the requested size
	wt, err := p.WriterTo(vg.Points(float64(o.Width)), vg.Points(float64(o.Height)), format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// Plot builds the gonum plot for f without drawing it.
func (GonumRenderer) Plot(f Frame, o Options) (*gplot.Plot, error) {
	if f.Empty() || f.Filled == 0 {
		return nil, ErrNoData
	}
	p := gplot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Amplitude"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for c := 0; c < f.Channels(); c++ {
		xs, ys := f.Series(c)
		pts := make(plotter.XYs, len(xs))
		for i := range xs {
			pts[i].X = xs[i]
			pts[i].Y = ys[i]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.Color = ChannelColor(c)
		p.Add(line)
		p.Legend.Add(ChannelName(c), line)
	}

	// Add widens the axes to the data, so the limits go last.
	lim := o.limits(f)
	p.X.Min, p.X.Max = lim.XMin, lim.XMax
	p.Y.Min, p.Y.Max = lim.YMin, lim.YMax
	return p, nil
}
