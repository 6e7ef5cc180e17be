package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/iafilius/BinaryAcquisitionViewer/src/analysis"
	"github.com/iafilius/BinaryAcquisitionViewer/src/session"
)

func bafMakeCmdInfo() *commander.Command {
	cmd := &commander.Command{
		Run:       cmdInfo,
		UsageLine: "info [options] file.baf",
		Short:     "print header, tail and page layout of a file",
		Long: `
info prints the stream description of a binary acquisition file, the number
of written samples and the page layout for the configured page time.

ex:
 $ bafctl info run42.baf
 $ bafctl info -verify -stats run42.baf
`,
		Flag: *flag.NewFlagSet("bafctl-info", flag.ExitOnError),
	}
	cmd.Flag.Bool("verify", false, "check the data checksum against the tail")
	cmd.Flag.Bool("stats", false, "print per-channel statistics of the whole file")
	cmd.Flag.Float64("page-time", 0, "page time in seconds (0 uses the config)")
	return cmd
}

func cmdInfo(cmdr *commander.Command, args []string) error {
	if err := wantArgs(args, 1); err != nil {
		return err
	}
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()
	if pt := cmdr.Flag.Lookup("page-time").Value.Get().(float64); pt > 0 {
		e.cfg.PageTimeSeconds = pt
	}
	s, err := e.open(args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	verify := cmdr.Flag.Lookup("verify").Value.Get().(bool)
	stats := cmdr.Flag.Lookup("stats").Value.Get().(bool)
	return writeInfo(os.Stdout, s, verify, stats)
}

func writeInfo(w io.Writer, s *session.Session, verify, stats bool) error {
	hdr, tail := s.Header(), s.Tail()
	ctl := s.Controller()
	dur := time.Duration(float64(tail.Written) * hdr.Period * float64(time.Second))
	fmt.Fprintf(w, "file:      %s (%s)\n", s.Path(), humanize.IBytes(uint64(s.File().Size())))
	fmt.Fprintf(w, "channels:  %d\n", hdr.Channels)
	fmt.Fprintf(w, "period:    %g s (%s Hz)\n", hdr.Period, humanize.Ftoa(1/hdr.Period))
	fmt.Fprintf(w, "samples:   %s per channel (%s)\n", humanize.Comma(int64(tail.Written)), dur)
	fmt.Fprintf(w, "pages:     %d x %s samples (%g s)\n", ctl.TotalPages(), humanize.Comma(int64(ctl.SamplesPerPage())), ctl.PageTime())
	fmt.Fprintf(w, "digest:    %x\n", tail.Digest)

	if !verify && !stats {
		return nil
	}
	sum, err := s.Stats(analysis.Options{VerifyChecksum: verify})
	if verify {
		state := "OK"
		if sum.ChecksumOK == nil || !*sum.ChecksumOK {
			state = "MISMATCH"
		}
		fmt.Fprintf(w, "checksum:  %s\n", state)
	}
	if stats {
		fmt.Fprintf(w, "\n%-6s %14s %14s %14s %14s %14s\n", "chan", "min", "max", "mean", "stddev", "rms")
		for _, c := range sum.Channels {
			fmt.Fprintf(w, "ch%-4d %14.6g %14.6g %14.6g %14.6g %14.6g\n", c.Channel, c.Min, c.Max, c.Mean, c.StdDev, c.RMS)
		}
	}
	if verify && (sum.ChecksumOK == nil || !*sum.ChecksumOK) && err == nil {
		return fmt.Errorf("%s: checksum mismatch", s.Path())
	}
	return err
}
