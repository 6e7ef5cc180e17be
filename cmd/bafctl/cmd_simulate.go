package main

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/iafilius/BinaryAcquisitionViewer/src/baf"
)

func bafMakeCmdSimulate() *commander.Command {
	cmd := &commander.Command{
		Run:       cmdSimulate,
		UsageLine: "simulate [options] out.baf",
		Short:     "write a synthetic acquisition file",
		Long: `
simulate writes a binary acquisition file filled with a test signal. Channel c
runs at (c+1) times the base frequency so channels are easy to tell apart.

ex:
 $ bafctl simulate -channels 4 -period 0.001 -samples 100000 demo.baf
 $ bafctl simulate -wave noise -seed 7 noise.baf
`,
		Flag: *flag.NewFlagSet("bafctl-simulate", flag.ExitOnError),
	}
	cmd.Flag.Int("channels", 2, "number of channels (1..256)")
	cmd.Flag.Float64("period", 0.001, "sample period in seconds")
	cmd.Flag.Int("samples", 10000, "samples per channel")
	cmd.Flag.String("wave", "sine", "sine, square, ramp or noise")
	cmd.Flag.Float64("freq", 5, "base frequency in Hz")
	cmd.Flag.Float64("amp", 1, "amplitude")
	cmd.Flag.Int("seed", 1, "random seed for noise")
	return cmd
}

func cmdSimulate(cmdr *commander.Command, args []string) error {
	if err := wantArgs(args, 1); err != nil {
		return err
	}
	hdr := baf.Header{
		Period:   cmdr.Flag.Lookup("period").Value.Get().(float64),
		Channels: cmdr.Flag.Lookup("channels").Value.Get().(int),
	}
	n := cmdr.Flag.Lookup("samples").Value.Get().(int)
	if n < 0 {
		return fmt.Errorf("samples must not be negative, got %d", n)
	}
	fill, err := waveform(
		cmdr.Flag.Lookup("wave").Value.Get().(string),
		hdr.Period,
		cmdr.Flag.Lookup("freq").Value.Get().(float64),
		cmdr.Flag.Lookup("amp").Value.Get().(float64),
		int64(cmdr.Flag.Lookup("seed").Value.Get().(int)),
	)
	if err != nil {
		return err
	}
	if err := baf.Generate(args[0], hdr, n, fill); err != nil {
		return err
	}
	fmt.Printf("wrote %s: %d channels x %s samples\n", args[0], hdr.Channels, humanize.Comma(int64(n)))
	return nil
}

// waveform returns a slice filler for kind. Channel c uses (c+1)*freq.
func waveform(kind string, period, freq, amp float64, seed int64) (func(i int, s []float64), error) {
	phase := func(i, c int) float64 { return float64(c+1) * freq * float64(i) * period }
	switch strings.ToLower(kind) {
	case "sine":
		return func(i int, s []float64) {
			for c := range s {
				s[c] = amp * math.Sin(2*math.Pi*phase(i, c))
			}
		}, nil
	case "square":
		return func(i int, s []float64) {
			for c := range s {
				_, frac := math.Modf(phase(i, c))
				if frac < 0.5 {
					s[c] = amp
				} else {
					s[c] = -amp
				}
			}
		}, nil
	case "ramp":
		return func(i int, s []float64) {
			for c := range s {
				_, frac := math.Modf(phase(i, c))
				s[c] = amp * (2*frac - 1)
			}
		}, nil
	case "noise":
		rnd := rand.New(rand.NewSource(seed))
		return func(i int, s []float64) {
			for c := range s {
				s[c] = amp * rnd.NormFloat64()
			}
		}, nil
	}
	return nil, fmt.Errorf("unknown waveform %q", kind)
}
