package pager

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/iafilius/BinaryAcquisitionViewer/src/baf"
	"github.com/iafilius/BinaryAcquisitionViewer/src/logging"
	"github.com/iafilius/BinaryAcquisitionViewer/src/plot"
)

// DefaultPageTime is the page duration in seconds used when none is configured.
const DefaultPageTime = 10.0

var (
	ErrClosed    = errors.New("pager: no file open")
	ErrPageRange = errors.New("pager: page out of range")
	ErrPageTime  = errors.New("pager: page time must be positive")

	// ErrPageTooLarge is returned when the page time would need more than
	// MaxPageValues buffered values per page.
	ErrPageTooLarge = errors.New("pager: page too large")
)

// Source yields the slices of a sample range. *baf.File implements it.
type Source interface {
	Iterate(start, end int64, fn func(slice []float64)) error
}

// Controller tracks the current page of one open source and loads pages into
// a plot buffer. It is either Closed or Open; a successful Open loads page 1.
//
// A Controller is not safe for concurrent use; it runs on the UI goroutine.
type Controller struct {
	log *logging.Logger
	buf *plot.Buffer

	pageTime float64
	src      Source
	hdr      baf.Header
	written  uint64
	layout   Layout
	current  int

	frame   plot.Frame
	onFrame func(plot.Frame)
}

// New returns a closed controller that loads pages into buf.
func New(log *logging.Logger, buf *plot.Buffer, pageTime float64) *Controller {
	if log == nil {
		log = logging.Discard()
	}
	if !(pageTime > 0) || math.IsInf(pageTime, 0) {
		pageTime = DefaultPageTime
	}
	return &Controller{log: log, buf: buf, pageTime: pageTime}
}

// OnFrame registers fn to receive every finalized page.
func (c *Controller) OnFrame(fn func(plot.Frame)) { c.onFrame = fn }

// Open switches to src. The header must already be validated by the file
// layer; an invalid one, or a page that would exceed MaxPageValues, is
// rejected and the controller stays as it was.
func (c *Controller) Open(src Source, hdr baf.Header, written uint64) error {
	if err := hdr.Validate(); err != nil {
		return err
	}
	layout := ComputeLayout(c.pageTime, hdr.Period, written)
	if err := layout.Check(hdr.Channels); err != nil {
		return err
	}
	c.src = src
	c.hdr = hdr
	c.written = written
	c.layout = layout
	c.buf.Setup(c.layout.SamplesPerPage, hdr.Period, hdr.Channels)
	c.current = 0
	c.log.Infof("layout: %d samples/page, %d pages (page time %gs, period %gs, %d written)",
		c.layout.SamplesPerPage, c.layout.TotalPages, c.pageTime, hdr.Period, written)
	c.load(1)
	return nil
}

// Close drops the source and clears the buffer. It is idempotent.
func (c *Controller) Close() {
	if c.src == nil {
		return
	}
	c.src = nil
	c.hdr = baf.Header{}
	c.written = 0
	c.layout = Layout{}
	c.current = 0
	c.frame = plot.Frame{}
	c.buf.Clear()
}

func (c *Controller) IsOpen() bool { return c.src != nil }

// RequestPage shows page p. Asking for the page already shown does nothing.
func (c *Controller) RequestPage(p int) error {
	if c.src == nil {
		return ErrClosed
	}
	if p < 1 || p > c.layout.TotalPages {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrPageRange, p, c.layout.TotalPages)
	}
	if p == c.current {
		return nil
	}
	c.load(p)
	return nil
}

// Reload loads the current page again, even though it is already shown.
func (c *Controller) Reload() error {
	if c.src == nil {
		return ErrClosed
	}
	c.load(c.current)
	return nil
}

// load streams page p into the buffer and finalizes it. An iteration error
// is logged and whatever was pushed before it is shown.
func (c *Controller) load(p int) {
	defer c.log.TimeTrack(time.Now(), fmt.Sprintf("load page %d", p))
	c.current = p
	start, end := c.layout.Range(p)
	if err := c.src.Iterate(start, end, c.buf.Push); err != nil {
		c.log.Errorf("page %d: %v (showing %d of %d samples)", p, err, c.buf.Next(), c.layout.SamplesPerPage)
	}
	c.frame = c.buf.Finalize(p)
	if c.onFrame != nil {
		c.onFrame(c.frame)
	}
}

// SetPageTime changes the page duration. With a file open the layout is
// recomputed and the page holding the first sample of the old page is shown;
// a page that would exceed MaxPageValues is refused and nothing changes.
func (c *Controller) SetPageTime(seconds float64) error {
	if !(seconds > 0) || math.IsInf(seconds, 0) {
		return fmt.Errorf("%w: %v", ErrPageTime, seconds)
	}
	if c.src == nil {
		c.pageTime = seconds
		return nil
	}
	layout := ComputeLayout(seconds, c.hdr.Period, c.written)
	if err := layout.Check(c.hdr.Channels); err != nil {
		return err
	}
	c.pageTime = seconds
	first, _ := c.layout.Range(c.current)
	c.layout = layout
	c.buf.Setup(c.layout.SamplesPerPage, c.hdr.Period, c.hdr.Channels)
	c.log.Infof("page time %gs: %d samples/page, %d pages", seconds, c.layout.SamplesPerPage, c.layout.TotalPages)
	c.load(c.layout.PageOf(first))
	return nil
}

func (c *Controller) First() error { return c.RequestPage(1) }
func (c *Controller) Prev() error  { return c.RequestPage(c.current - 1) }
func (c *Controller) Next() error  { return c.RequestPage(c.current + 1) }
func (c *Controller) Last() error  { return c.RequestPage(c.layout.TotalPages) }

func (c *Controller) CanFirst() bool { return c.src != nil && c.current > 1 }
func (c *Controller) CanPrev() bool  { return c.src != nil && c.current > 1 }
func (c *Controller) CanNext() bool  { return c.src != nil && c.current < c.layout.TotalPages }
func (c *Controller) CanLast() bool  { return c.src != nil && c.current < c.layout.TotalPages }

// CurrentPage is the page shown, 0 when closed.
func (c *Controller) CurrentPage() int { return c.current }

// TotalPages is 1 when closed.
func (c *Controller) TotalPages() int {
	if c.src == nil {
		return 1
	}
	return c.layout.TotalPages
}

func (c *Controller) SamplesPerPage() int { return c.layout.SamplesPerPage }
func (c *Controller) Layout() Layout      { return c.layout }
func (c *Controller) PageTime() float64   { return c.pageTime }
func (c *Controller) Header() baf.Header  { return c.hdr }
func (c *Controller) Written() uint64     { return c.written }

// Frame returns the last finalized page, empty when closed.
func (c *Controller) Frame() plot.Frame { return c.frame }
