package session

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iafilius/BinaryAcquisitionViewer/src/analysis"
	"github.com/iafilius/BinaryAcquisitionViewer/src/baf"
	"github.com/iafilius/BinaryAcquisitionViewer/src/pager"
	"github.com/iafilius/BinaryAcquisitionViewer/src/plot"
	"github.com/iafilius/BinaryAcquisitionViewer/src/spectrum"
)

func makeFile(t *testing.T, name string, channels, n int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	err := baf.Generate(path, baf.Header{Period: 0.1, Channels: channels}, n, func(i int, s []float64) {
		for c := range s {
			s[c] = math.Sin(float64(i)/5) + float64(c)
		}
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return path
}

func TestOpen_ShowsFirstPage(t *testing.T) {
	s := New(nil, 10)
	path := makeFile(t, "a.baf", 2, 1000)
	if err := s.Open(path); err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	if !s.IsOpen() || s.Path() != path || s.Header().Channels != 2 || s.Tail().Written != 1000 {
		t.Fatalf("unexpected session state")
	}
	if f := s.Frame(); f.Page != 1 || f.Filled != 100 {
		t.Fatalf("first page not loaded: page=%d filled=%d", f.Page, f.Filled)
	}
	if got := s.PageLabel(); got != "Page 1/10" {
		t.Fatalf("label %q", got)
	}
}

func TestOpen_FailureKeepsPreviousFile(t *testing.T) {
	s := New(nil, 10)
	good := makeFile(t, "good.baf", 1, 500)
	if err := s.Open(good); err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Controller().RequestPage(3); err != nil {
		t.Fatal(err)
	}

	notBAF := filepath.Join(t.TempDir(), "notes.txt")
	os.WriteFile(notBAF, []byte(strings.Repeat("hello ", 40)), 0o644)
	if err := s.Open(notBAF); !errors.Is(err, ErrNotBAF) {
		t.Fatalf("expected ErrNotBAF, got %v", err)
	}

	// valid header, tail chopped off
	trunc := makeFile(t, "trunc.baf", 1, 500)
	st, _ := os.Stat(trunc)
	if err := os.Truncate(trunc, st.Size()-10); err != nil {
		t.Fatal(err)
	}
	if err := s.Open(trunc); err == nil {
		t.Fatalf("truncated file accepted")
	}
	if err := s.Open(filepath.Join(t.TempDir(), "missing.baf")); err == nil {
		t.Fatalf("missing file accepted")
	}

	// valid file whose 10 s page would not fit in memory
	fast := filepath.Join(t.TempDir(), "fast.baf")
	if err := baf.Generate(fast, baf.Header{Period: 1e-9, Channels: 1}, 1000, func(i int, s []float64) { s[0] = float64(i) }); err != nil {
		t.Fatal(err)
	}
	if err := s.Open(fast); !errors.Is(err, pager.ErrPageTooLarge) {
		t.Fatalf("expected ErrPageTooLarge, got %v", err)
	}
	if s.Frame().Page != 3 || s.Frame().Filled != 100 {
		t.Fatalf("previous page lost after refused open")
	}

	if s.Path() != good || s.Controller().CurrentPage() != 3 {
		t.Fatalf("previous state lost: path=%q page=%d", s.Path(), s.Controller().CurrentPage())
	}
}

func TestOpen_ReplacesAndClose(t *testing.T) {
	s := New(nil, 10)
	a := makeFile(t, "a.baf", 1, 100)
	b := makeFile(t, "b.baf", 3, 2000)
	if err := s.Open(a); err != nil {
		t.Fatal(err)
	}
	first := s.File()
	if err := s.Open(b); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); !errors.Is(err, baf.ErrClosed) {
		t.Fatalf("previous file left open: %v", err)
	}
	if s.Frame().Channels() != 3 || s.Controller().TotalPages() != 20 {
		t.Fatalf("second file not shown")
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if s.IsOpen() || s.Controller().TotalPages() != 1 || !s.Frame().Empty() || s.PageLabel() != "No file" {
		t.Fatalf("close did not reset")
	}
}

func TestClosedOperations(t *testing.T) {
	s := New(nil, 10)
	dir := t.TempDir()
	if err := s.Export(filepath.Join(dir, "x.txt")); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("export: %v", err)
	}
	if _, err := s.Stats(analysis.Options{}); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("stats: %v", err)
	}
	if _, err := s.Spectrum(spectrum.Hann); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("spectrum: %v", err)
	}
	if err := s.SaveImage(filepath.Join(dir, "x.png"), "chart", plot.Options{}); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("save image: %v", err)
	}
}

func TestExportStatsSpectrumImage(t *testing.T) {
	s := New(nil, 10)
	if err := s.Open(makeFile(t, "a.baf", 2, 250)); err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	dir := t.TempDir()

	txt := filepath.Join(dir, "a.txt")
	if err := s.Export(txt); err != nil {
		t.Fatalf("export: %v", err)
	}
	b, _ := os.ReadFile(txt)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	data := 0
	for _, l := range lines {
		if !strings.HasPrefix(l, "#") {
			data++
		}
	}
	if data != 250 {
		t.Fatalf("exported %d rows", data)
	}

	sum, err := s.Stats(analysis.Options{VerifyChecksum: true})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if sum.ChecksumOK == nil || !*sum.ChecksumOK || len(sum.Channels) != 2 || sum.Channels[1].Samples != 250 {
		t.Fatalf("unexpected stats %+v", sum)
	}

	specs, err := s.Spectrum(spectrum.Hann)
	if err != nil || len(specs) != 2 {
		t.Fatalf("spectrum: %v (%d)", err, len(specs))
	}

	png := filepath.Join(dir, "page.png")
	if err := s.SaveImage(png, "chart", plot.Options{Width: 400, Height: 200}); err != nil {
		t.Fatalf("save image: %v", err)
	}
	if st, err := os.Stat(png); err != nil || st.Size() == 0 {
		t.Fatalf("image not written: %v", err)
	}
}
