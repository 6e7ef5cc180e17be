// Package session is the widget-free view controller shared by the viewer and
// the CLI. A Session owns at most one open file, its page controller and the
// plot buffer the controller fills.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/iafilius/BinaryAcquisitionViewer/src/analysis"
	"github.com/iafilius/BinaryAcquisitionViewer/src/baf"
	"github.com/iafilius/BinaryAcquisitionViewer/src/logging"
	"github.com/iafilius/BinaryAcquisitionViewer/src/pager"
	"github.com/iafilius/BinaryAcquisitionViewer/src/plot"
	"github.com/iafilius/BinaryAcquisitionViewer/src/spectrum"
)

var (
	ErrNotBAF  = errors.New("not a binary acquisition file")
	ErrNotOpen = errors.New("no file open")
)

// Session is not safe for concurrent use.
type Session struct {
	log *logging.Logger
	buf plot.Buffer
	ctl *pager.Controller

	file *baf.File
	path string
	hdr  baf.Header
	tail baf.Tail
}

// New returns a closed session with the given page duration in seconds.
func New(log *logging.Logger, pageTime float64) *Session {
	if log == nil {
		log = logging.Discard()
	}
	s := &Session{log: log}
	s.ctl = pager.New(log, &s.buf, pageTime)
	return s
}

// Open verifies and opens path, then shows its first page. On failure the
// session keeps whatever it had open before.
func (s *Session) Open(path string) error {
	defer s.log.TimeTrack(time.Now(), "open "+path)
	if !baf.Verify(path) {
		return fmt.Errorf("%s: %w", path, ErrNotBAF)
	}
	f, err := baf.Open(path)
	if err != nil {
		return err
	}
	hdr, err := f.ReadHeader()
	if err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	tail, err := f.ReadTail()
	if err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	// the controller refuses before touching its state, so the old file stays usable
	if err := s.ctl.Open(f, hdr, tail.Written); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if s.file != nil {
		if err := s.file.Close(); err != nil {
			s.log.Warnf("close %s: %v", s.path, err)
		}
	}
	s.file, s.path, s.hdr, s.tail = f, path, hdr, tail
	s.log.Infof("opened %s: %d channels, period %gs, %d samples", path, hdr.Channels, hdr.Period, tail.Written)
	return nil
}

// Close closes the open file, if any.
func (s *Session) Close() error {
	if s.file == nil {
		return nil
	}
	s.log.Infof("closed %s", s.path)
	return s.closeFile()
}

func (s *Session) closeFile() error {
	s.ctl.Close()
	err := s.file.Close()
	s.file = nil
	s.path = ""
	s.hdr = baf.Header{}
	s.tail = baf.Tail{}
	return err
}

func (s *Session) IsOpen() bool                  { return s.file != nil }
func (s *Session) Path() string                  { return s.path }
func (s *Session) Header() baf.Header            { return s.hdr }
func (s *Session) Tail() baf.Tail                { return s.tail }
func (s *Session) Controller() *pager.Controller { return s.ctl }
func (s *Session) Frame() plot.Frame             { return s.ctl.Frame() }

// File returns the open file, nil when closed.
func (s *Session) File() *baf.File { return s.file }

// Export writes the open file as a text table to dst.
func (s *Session) Export(dst string) error {
	if s.file == nil {
		return ErrNotOpen
	}
	defer s.log.TimeTrack(time.Now(), "export "+dst)
	if err := baf.ToHumanReadable(s.path, dst); err != nil {
		s.log.Errorf("export %s: %v", dst, err)
		return err
	}
	s.log.Infof("exported %s to %s", s.path, dst)
	return nil
}

// Stats analyzes the whole open file.
func (s *Session) Stats(opts analysis.Options) (analysis.Summary, error) {
	if s.file == nil {
		return analysis.Summary{}, ErrNotOpen
	}
	sum, err := analysis.Analyze(s.file, s.hdr, s.tail.Written, opts)
	if opts.VerifyChecksum {
		ok := s.file.VerifyChecksum() == nil
		sum.ChecksumOK = &ok
	}
	return sum, err
}

// Spectrum transforms the displayed page.
func (s *Session) Spectrum(w spectrum.Window) ([]spectrum.Spectrum, error) {
	if s.file == nil {
		return nil, ErrNotOpen
	}
	return spectrum.FromFrame(s.ctl.Frame(), s.hdr.Period, w)
}

// PageLabel describes the current position, e.g. "Page 3/10".
func (s *Session) PageLabel() string {
	if s.file == nil {
		return "No file"
	}
	return fmt.Sprintf("Page %d/%d", s.ctl.CurrentPage(), s.ctl.TotalPages())
}

// SaveImage renders the displayed page to path; the format follows the extension.
func (s *Session) SaveImage(path, renderer string, o plot.Options) error {
	if s.file == nil {
		return ErrNotOpen
	}
	if o.Label == "" {
		o.Label = s.PageLabel()
	}
	return plot.SaveFile(path, renderer, s.ctl.Frame(), o)
}
