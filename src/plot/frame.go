package plot

import "fmt"

// Frame is a finalized page ready to be drawn: one line series per channel
// over a shared time axis plus the axis limits.
//
// Time and Data alias the buffer's display grid; they stay valid until the
// next Finalize, Setup or Clear.
type Frame struct {
	Page   int
	Time   []float64
	Data   [][]float64
	Filled int // number of leading samples that were loaded for this page

	XMin, XMax float64
	YMin, YMax float64
}

// Empty reports whether the frame holds no page.
func (f Frame) Empty() bool { return f.Page == 0 || len(f.Data) == 0 }

// Channels returns the number of series in the frame.
func (f Frame) Channels() int { return len(f.Data) }

// Series returns the loaded part of channel c as x/y vectors.
func (f Frame) Series(c int) (xs, ys []float64) {
	n := f.Filled
	if n > len(f.Time) {
		n = len(f.Time)
	}
	return f.Time[:n], f.Data[c][:n]
}

// ChannelName is the legend label used for channel c.
func ChannelName(c int) string { return fmt.Sprintf("ch%d", c) }
