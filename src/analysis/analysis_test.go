package analysis

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/iafilius/BinaryAcquisitionViewer/src/baf"
)

type failingSource struct {
	inner Source
	after int64
}

func (f failingSource) Iterate(start, end int64, fn func([]float64)) error {
	if start >= f.after {
		return errors.New("read error")
	}
	return f.inner.Iterate(start, end, fn)
}

func writeFile(t *testing.T, n int, fill func(i int, s []float64)) (string, []float64, []float64) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.baf")
	var ch0, ch1 []float64
	err := baf.Generate(path, baf.Header{Period: 0.001, Channels: 2}, n, func(i int, s []float64) {
		fill(i, s)
		ch0 = append(ch0, s[0])
		ch1 = append(ch1, s[1])
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return path, ch0, ch1
}

func TestAnalyzeFile_MatchesDirectStats(t *testing.T) {
	path, ch0, ch1 := writeFile(t, 10_000, func(i int, s []float64) {
		s[0] = math.Sin(float64(i) / 7)
		s[1] = float64(i%13) - 3
	})
	sum, err := AnalyzeFile(path, Options{BlockSamples: 1000, VerifyChecksum: true})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if sum.ChecksumOK == nil || !*sum.ChecksumOK {
		t.Fatalf("checksum not verified")
	}
	if len(sum.Blocks) != 10 || sum.Written != 10_000 {
		t.Fatalf("blocks=%d written=%d", len(sum.Blocks), sum.Written)
	}
	if sum.Duration.Seconds() != 10 {
		t.Fatalf("duration %v", sum.Duration)
	}
	for c, col := range [][]float64{ch0, ch1} {
		cs := sum.Channels[c]
		mean, sd := stat.PopMeanStdDev(col, nil)
		if math.Abs(cs.Mean-mean) > 1e-9 || math.Abs(cs.StdDev-sd) > 1e-9 {
			t.Fatalf("ch%d mean/sd %v/%v want %v/%v", c, cs.Mean, cs.StdDev, mean, sd)
		}
		rms := math.Sqrt(mean*mean + sd*sd)
		if math.Abs(cs.RMS-rms) > 1e-9 {
			t.Fatalf("ch%d rms %v want %v", c, cs.RMS, rms)
		}
		if cs.Samples != 10_000 {
			t.Fatalf("ch%d samples %d", c, cs.Samples)
		}
	}
	if sum.Channels[1].Min != -3 || sum.Channels[1].Max != 9 {
		t.Fatalf("ch1 extents [%v,%v]", sum.Channels[1].Min, sum.Channels[1].Max)
	}
	if sum.Channels[1].P95PeakToPeak != 12 {
		t.Fatalf("ch1 p95 p2p %v", sum.Channels[1].P95PeakToPeak)
	}
}

func TestAnalyze_PartialLastBlock(t *testing.T) {
	path, _, _ := writeFile(t, 2500, func(i int, s []float64) { s[0], s[1] = float64(i), 1 })
	f, err := baf.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	hdr, _ := f.ReadHeader()
	sum, err := Analyze(f, hdr, 2500, Options{BlockSamples: 1000})
	if err != nil {
		t.Fatal(err)
	}
	if len(sum.Blocks) != 3 || sum.Blocks[2].Start != 2000 || sum.Blocks[2].Max[0] != 2499 {
		t.Fatalf("unexpected blocks %+v", sum.Blocks)
	}
	if sum.Channels[0].Mean != 1249.5 {
		t.Fatalf("mean %v", sum.Channels[0].Mean)
	}
}

func TestAnalyze_IterationErrorKeepsPartial(t *testing.T) {
	path, _, _ := writeFile(t, 3000, func(i int, s []float64) { s[0], s[1] = 1, 2 })
	f, err := baf.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	hdr, _ := f.ReadHeader()
	sum, err := Analyze(failingSource{inner: f, after: 2000}, hdr, 3000, Options{BlockSamples: 1000})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(sum.Blocks) != 2 || sum.Channels[0].Samples != 2000 {
		t.Fatalf("partial summary blocks=%d samples=%d", len(sum.Blocks), sum.Channels[0].Samples)
	}
}

func TestAnalyzeFile_Errors(t *testing.T) {
	if _, err := AnalyzeFile(filepath.Join(t.TempDir(), "missing.baf"), Options{}); err == nil {
		t.Fatalf("expected error for missing file")
	}
	junk := filepath.Join(t.TempDir(), "junk.baf")
	if err := os.WriteFile(junk, make([]byte, 100), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := AnalyzeFile(junk, Options{}); !errors.Is(err, baf.ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestPercentile(t *testing.T) {
	a := []float64{5, 1, 4, 2, 3}
	cases := map[float64]float64{0: 1, 20: 1, 50: 3, 95: 5, 100: 5}
	for p, want := range cases {
		if got := Percentile(a, p); got != want {
			t.Fatalf("p%v=%v want %v", p, got, want)
		}
	}
	if a[0] != 5 {
		t.Fatalf("input modified")
	}
	if Percentile(nil, 50) != 0 {
		t.Fatalf("empty input")
	}
}
