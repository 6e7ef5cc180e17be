package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/iafilius/BinaryAcquisitionViewer/src/plot"
	"github.com/iafilius/BinaryAcquisitionViewer/src/spectrum"
)

func bafMakeCmdSpectrum() *commander.Command {
	cmd := &commander.Command{
		Run:       cmdSpectrum,
		UsageLine: "spectrum [options] file.baf",
		Short:     "print the amplitude spectrum peaks of one page",
		Long: `
spectrum transforms one page of every channel and prints the strongest
frequency bins. With -o the spectra are also drawn to an image.

ex:
 $ bafctl spectrum -page 2 -top 3 run42.baf
 $ bafctl spectrum -window blackman -o spec.svg run42.baf
`,
		Flag: *flag.NewFlagSet("bafctl-spectrum", flag.ExitOnError),
	}
	cmd.Flag.Int("page", 1, "page to transform (0 for the last page)")
	cmd.Flag.Int("top", 3, "number of peaks to print per channel")
	cmd.Flag.String("window", "", "rect, hann, hamming or blackman (empty uses the config)")
	cmd.Flag.String("o", "", "optional output image")
	return cmd
}

func cmdSpectrum(cmdr *commander.Command, args []string) error {
	if err := wantArgs(args, 1); err != nil {
		return err
	}
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()
	s, err := e.open(args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	if err := gotoPage(s, cmdr.Flag.Lookup("page").Value.Get().(int)); err != nil {
		return err
	}
	win := cmdr.Flag.Lookup("window").Value.Get().(string)
	if win == "" {
		win = e.cfg.Window
	}
	specs, err := s.Spectrum(spectrum.ParseWindow(win))
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", s.Path(), s.PageLabel())
	writePeaks(os.Stdout, specs, cmdr.Flag.Lookup("top").Value.Get().(int))

	if out := cmdr.Flag.Lookup("o").Value.Get().(string); out != "" {
		o := plot.Options{
			Width:  e.cfg.ChartWidth,
			Height: e.cfg.ChartHeight,
			Title:  filepath.Base(s.Path()) + " spectrum",
			Label:  s.PageLabel(),
		}
		if err := plot.SaveFile(out, e.cfg.Renderer, spectrum.AsFrame(specs), o); err != nil {
			return err
		}
	}
	return nil
}

type bin struct{ freq, amp float64 }

// topBins returns the n strongest non-DC bins, strongest first.
func topBins(s spectrum.Spectrum, n int) []bin {
	bins := make([]bin, 0, len(s.Freq))
	for i := 1; i < len(s.Freq); i++ {
		bins = append(bins, bin{s.Freq[i], s.Amplitude[i]})
	}
	sort.SliceStable(bins, func(i, j int) bool { return bins[i].amp > bins[j].amp })
	if n < len(bins) {
		bins = bins[:n]
	}
	return bins
}

func writePeaks(w io.Writer, specs []spectrum.Spectrum, top int) {
	for _, s := range specs {
		fmt.Fprintf(w, "%s:", plot.ChannelName(s.Channel))
		for _, b := range topBins(s, top) {
			fmt.Fprintf(w, "  %.4g Hz (%.4g)", b.freq, b.amp)
		}
		fmt.Fprintln(w)
	}
}
