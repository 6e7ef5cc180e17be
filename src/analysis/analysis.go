// Package analysis summarizes whole acquisition files: per-channel statistics
// and a per-block envelope, streamed through the file's chunk iterator so the
// file is never loaded in full.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/iafilius/BinaryAcquisitionViewer/src/baf"
)

// DefaultBlockSamples is the number of slices summarized per envelope block.
const DefaultBlockSamples = 4096

// Source yields the slices of a sample range.
type Source interface {
	Iterate(start, end int64, fn func(slice []float64)) error
}

// Options controls the analysis.
type Options struct {
	// BlockSamples is the envelope resolution; 0 or negative uses DefaultBlockSamples.
	BlockSamples int
	// If true, AnalyzeFile checks the data digest against the tail first.
	VerifyChecksum bool
}

// ChannelSummary holds whole-file statistics of one channel.
type ChannelSummary struct {
	Channel int     `json:"channel"`
	Samples uint64  `json:"samples"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"stddev"` // population
	RMS     float64 `json:"rms"`
	// P95PeakToPeak is the 95th percentile of the per-block peak-to-peak swing.
	P95PeakToPeak float64 `json:"p95_peak_to_peak"`

	m2    float64
	sumSq float64
}

// Block is the envelope of one run of BlockSamples slices.
type Block struct {
	Start int64     `json:"start"` // first slice index
	Min   []float64 `json:"min"`
	Max   []float64 `json:"max"`
	Mean  []float64 `json:"mean"`
}

// Summary is the result of Analyze.
type Summary struct {
	Period     float64          `json:"period_s"`
	Written    uint64           `json:"written"`
	Duration   time.Duration    `json:"duration"`
	Channels   []ChannelSummary `json:"channels"`
	Blocks     []Block          `json:"blocks"`
	ChecksumOK *bool            `json:"checksum_ok,omitempty"`
}

// Analyze streams [0, written) of src in blocks and returns the summary.
// On an iteration error the blocks read so far are summarized and the error
// is returned alongside.
func Analyze(src Source, hdr baf.Header, written uint64, opts Options) (Summary, error) {
	if err := hdr.Validate(); err != nil {
		return Summary{}, err
	}
	bs := opts.BlockSamples
	if bs <= 0 {
		bs = DefaultBlockSamples
	}
	sum := Summary{
		Period:   hdr.Period,
		Written:  written,
		Duration: time.Duration(float64(written) * hdr.Period * float64(time.Second)),
		Channels: make([]ChannelSummary, hdr.Channels),
	}
	for c := range sum.Channels {
		sum.Channels[c].Channel = c
	}

	cols := make([][]float64, hdr.Channels)
	for c := range cols {
		cols[c] = make([]float64, 0, bs)
	}
	var runErr error
	for start := int64(0); start < int64(written); start += int64(bs) {
		for c := range cols {
			cols[c] = cols[c][:0]
		}
		err := src.Iterate(start, start+int64(bs), func(slice []float64) {
			for c := range cols {
				cols[c] = append(cols[c], slice[c])
			}
		})
		if len(cols[0]) > 0 {
			sum.Blocks = append(sum.Blocks, summarizeBlock(start, cols, sum.Channels))
		}
		if err != nil {
			runErr = fmt.Errorf("analyze block at %d: %w", start, err)
			break
		}
	}
	finish(&sum)
	return sum, runErr
}

// summarizeBlock computes the envelope of one block and merges it into the
// running per-channel statistics.
func summarizeBlock(start int64, cols [][]float64, chans []ChannelSummary) Block {
	b := Block{
		Start: start,
		Min:   make([]float64, len(cols)),
		Max:   make([]float64, len(cols)),
		Mean:  make([]float64, len(cols)),
	}
	for c, col := range cols {
		mean, sd := stat.PopMeanStdDev(col, nil)
		b.Min[c] = floats.Min(col)
		b.Max[c] = floats.Max(col)
		b.Mean[c] = mean
		merge(&chans[c], uint64(len(col)), mean, sd*sd*float64(len(col)), floats.Dot(col, col), b.Min[c], b.Max[c])
	}
	return b
}

// merge folds a block's moments into cs using the pairwise update of Chan et al.
func merge(cs *ChannelSummary, n uint64, mean, m2, sumSq, min, max float64) {
	if n == 0 {
		return
	}
	if cs.Samples == 0 {
		cs.Samples, cs.Mean, cs.m2, cs.sumSq, cs.Min, cs.Max = n, mean, m2, sumSq, min, max
		return
	}
	na, nb := float64(cs.Samples), float64(n)
	total := na + nb
	delta := mean - cs.Mean
	cs.Mean += delta * nb / total
	cs.m2 += m2 + delta*delta*na*nb/total
	cs.sumSq += sumSq
	cs.Samples += n
	cs.Min = math.Min(cs.Min, min)
	cs.Max = math.Max(cs.Max, max)
}

func finish(sum *Summary) {
	for c := range sum.Channels {
		cs := &sum.Channels[c]
		if cs.Samples == 0 {
			continue
		}
		n := float64(cs.Samples)
		cs.StdDev = math.Sqrt(cs.m2 / n)
		cs.RMS = math.Sqrt(cs.sumSq / n)
		p2p := make([]float64, len(sum.Blocks))
		for i, b := range sum.Blocks {
			p2p[i] = b.Max[c] - b.Min[c]
		}
		cs.P95PeakToPeak = Percentile(p2p, 95)
	}
}

// AnalyzeFile opens path and analyzes all written samples.
func AnalyzeFile(path string, opts Options) (Summary, error) {
	f, err := baf.Open(path)
	if err != nil {
		return Summary{}, err
	}
	defer f.Close()
	hdr, err := f.ReadHeader()
	if err != nil {
		return Summary{}, err
	}
	tail, err := f.ReadTail()
	if err != nil {
		return Summary{}, err
	}
	var ok *bool
	if opts.VerifyChecksum {
		v := f.VerifyChecksum() == nil
		ok = &v
	}
	sum, err := Analyze(f, hdr, tail.Written, opts)
	sum.ChecksumOK = ok
	return sum, err
}

// Percentile returns the p-th percentile of a using the nearest-rank method.
// a is not modified.
func Percentile(a []float64, p float64) float64 {
	if len(a) == 0 {
		return 0
	}
	cp := append([]float64(nil), a...)
	sort.Float64s(cp)
	if p <= 0 {
		return cp[0]
	}
	if p >= 100 {
		return cp[len(cp)-1]
	}
	idx := int(math.Ceil(p/100*float64(len(cp)))) - 1
	if idx < 0 {
		idx = 0
	}
	return cp[idx]
}
