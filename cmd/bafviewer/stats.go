package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/iafilius/BinaryAcquisitionViewer/src/analysis"
	"github.com/iafilius/BinaryAcquisitionViewer/src/baf"
	"github.com/iafilius/BinaryAcquisitionViewer/src/plot"
	"github.com/iafilius/BinaryAcquisitionViewer/src/spectrum"
)

// formatFileInfo is the one-line summary shown under the toolbar.
func formatFileInfo(path string, hdr baf.Header, written uint64, size int64) string {
	if path == "" {
		return "No file"
	}
	return fmt.Sprintf("%s  |  %d ch  |  %s samples  |  %s Hz  |  %s",
		filepath.Base(path), hdr.Channels, humanize.Comma(int64(written)),
		humanize.Ftoa(1/hdr.Period), humanize.IBytes(uint64(size)))
}

// formatStats renders a whole-file summary for the statistics dialog.
func formatStats(sum analysis.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Samples: %s per channel\n", humanize.Comma(int64(sum.Written)))
	fmt.Fprintf(&b, "Duration: %s\n", sum.Duration)
	if sum.ChecksumOK != nil {
		if *sum.ChecksumOK {
			b.WriteString("Checksum: OK\n")
		} else {
			b.WriteString("Checksum: MISMATCH\n")
		}
	}
	b.WriteString("\n")
	for _, c := range sum.Channels {
		fmt.Fprintf(&b, "%s  min %.4g  max %.4g  mean %.4g  std %.4g  rms %.4g  p95 p-p %.4g\n",
			plot.ChannelName(c.Channel), c.Min, c.Max, c.Mean, c.StdDev, c.RMS, c.P95PeakToPeak)
	}
	return b.String()
}

// formatPeaks lists the strongest non-DC bin of every channel.
func formatPeaks(specs []spectrum.Spectrum) string {
	var b strings.Builder
	for _, s := range specs {
		f, a := s.Peak()
		fmt.Fprintf(&b, "%s peak %.4g Hz (%.4g)\n", plot.ChannelName(s.Channel), f, a)
	}
	return strings.TrimRight(b.String(), "\n")
}
