// Package plot holds the paginated sample buffer behind the page view and the
// renderers that turn a finalized page into an image.
package plot

// MaxChannels bounds the number of channels a Buffer keeps. Larger counts are
// truncated silently.
const MaxChannels = 256

// grid is one fixed-shape channels x samples block plus its time axis.
type grid struct {
	data [][]float64
	time []float64
}

func newGrid(channels, samples int) grid {
	g := grid{
		data: make([][]float64, channels),
		time: make([]float64, samples),
	}
	for i := range g.data {
		g.data[i] = make([]float64, samples)
	}
	return g
}

// copyFrom overwrites g with src. Both grids must share the same shape.
func (g *grid) copyFrom(src *grid) {
	for i := range g.data {
		copy(g.data[i], src.data[i])
	}
	copy(g.time, src.time)
}

// Buffer is a double buffer of per-channel sample arrays. Slices are pushed
// into the staging grid while the display grid keeps the last finalized page,
// so a load in progress never touches what is on screen.
//
// The zero value is an empty, unconfigured buffer.
type Buffer struct {
	channels int
	samples  int
	period   float64

	staging grid
	display grid

	next   int // slices pushed into staging since the last finalize
	filled int // slices that were pushed for the displayed page
	page   int // displayed page, 0 when nothing was finalized yet

	min, max float64
}

// Setup discards any existing buffers and allocates zero-filled grids for
// channels x samplesPerPage values. channels is clamped to [1, MaxChannels]
// and samplesPerPage to at least 1.
func (b *Buffer) Setup(samplesPerPage int, period float64, channels int) {
	b.Clear()
	if samplesPerPage < 1 {
		samplesPerPage = 1
	}
	switch {
	case channels < 1:
		channels = 1
	case channels > MaxChannels:
		channels = MaxChannels
	}
	b.channels = channels
	b.samples = samplesPerPage
	b.period = period
	b.staging = newGrid(channels, samplesPerPage)
	b.display = newGrid(channels, samplesPerPage)
}

// Clear releases all buffers and returns to the unconfigured state. It is idempotent.
func (b *Buffer) Clear() {
	*b = Buffer{}
}

// Configured reports whether Setup was called since the last Clear.
func (b *Buffer) Configured() bool { return b.samples > 0 }

// Push writes one slice into the next staging slot and widens the running
// extents. It is a no-op once samplesPerPage slices were pushed since the last
// Finalize or Setup; callers must not push more than a page. Values beyond the
// configured channel count are ignored and missing ones leave their slot untouched.
func (b *Buffer) Push(slice []float64) {
	if b.next >= b.samples {
		return
	}
	n := len(slice)
	if n > b.channels {
		n = b.channels
	}
	for i := 0; i < n; i++ {
		v := slice[i]
		b.staging.data[i][b.next] = v
		if v < b.min {
			b.min = v
		}
		if v > b.max {
			b.max = v
		}
	}
	b.next++
}

// Finalize builds the time axis for page (1-based), copies staging into
// display and returns the frame to draw. The staging cursor is reset; the
// running extents are not, they only reset on Setup or Clear.
func (b *Buffer) Finalize(page int) Frame {
	if page < 1 {
		page = 1
	}
	if !b.Configured() {
		return Frame{}
	}
	t0 := float64(page-1) * float64(b.samples) * b.period
	for k := range b.staging.time {
		b.staging.time[k] = t0 + float64(k)*b.period
	}
	b.display.copyFrom(&b.staging)
	b.filled = b.next
	b.page = page
	b.next = 0
	return b.Frame()
}

// Frame returns a read view of the display grid. It is empty before the
// first Finalize.
func (b *Buffer) Frame() Frame {
	if b.page == 0 {
		return Frame{}
	}
	last := len(b.display.time) - 1
	return Frame{
		Page:   b.page,
		Time:   b.display.time,
		Data:   b.display.data,
		Filled: b.filled,
		XMin:   b.display.time[0],
		XMax:   b.display.time[last],
		YMin:   b.min - 0.5,
		YMax:   b.max + 0.5,
	}
}

func (b *Buffer) Channels() int       { return b.channels }
func (b *Buffer) SamplesPerPage() int { return b.samples }
func (b *Buffer) Period() float64     { return b.period }

// Display returns the display grid, one row per channel. It aliases the buffer.
func (b *Buffer) Display() [][]float64 { return b.display.data }

// TimeAxis returns the time axis of the displayed page.
func (b *Buffer) TimeAxis() []float64 { return b.display.time }

// Next is the number of slices pushed into staging since the last finalize.
func (b *Buffer) Next() int { return b.next }

// Extents returns the running minimum and maximum of every pushed value.
func (b *Buffer) Extents() (min, max float64) { return b.min, b.max }
