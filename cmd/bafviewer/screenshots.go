package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iafilius/BinaryAcquisitionViewer/src/config"
	"github.com/iafilius/BinaryAcquisitionViewer/src/logging"
	"github.com/iafilius/BinaryAcquisitionViewer/src/plot"
	"github.com/iafilius/BinaryAcquisitionViewer/src/session"
	"github.com/iafilius/BinaryAcquisitionViewer/src/spectrum"
)

// RunScreenshotsMode renders the first pages of filePath and the spectrum of
// the first page as PNGs under outDir. It runs headlessly without creating a
// UI window.
func RunScreenshotsMode(filePath, outDir string, pages int, cfg config.Config, log *logging.Logger) error {
	if filePath == "" {
		return errors.New("screenshots mode needs a file")
	}
	if pages < 1 {
		pages = 1
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	s := session.New(log, cfg.PageTimeSeconds)
	if err := s.Open(filePath); err != nil {
		return err
	}
	defer s.Close()

	base := filepath.Base(filePath)
	opts := func() plot.Options {
		return plot.Options{Width: cfg.ChartWidth, Height: cfg.ChartHeight, Title: base}
	}
	ctl := s.Controller()
	for p := 1; p <= pages && p <= ctl.TotalPages(); p++ {
		if err := ctl.RequestPage(p); err != nil {
			return err
		}
		out := filepath.Join(outDir, fmt.Sprintf("page_%03d.png", p))
		if err := s.SaveImage(out, "chart", opts()); err != nil {
			return fmt.Errorf("page %d: %w", p, err)
		}
		log.Infof("wrote %s", out)
	}

	if err := ctl.First(); err != nil {
		return err
	}
	specs, err := s.Spectrum(spectrum.ParseWindow(cfg.Window))
	if err != nil {
		return fmt.Errorf("spectrum: %w", err)
	}
	o := opts()
	o.Title = base + " spectrum"
	o.Label = s.PageLabel()
	out := filepath.Join(outDir, "spectrum.png")
	if err := plot.SaveFile(out, "chart", spectrum.AsFrame(specs), o); err != nil {
		return fmt.Errorf("spectrum: %w", err)
	}
	log.Infof("wrote %s", out)
	return nil
}
