// Package spectrum computes one-sided amplitude spectra of the displayed page.
package spectrum

import (
	"errors"
	"math"
	"math/cmplx"
	"strings"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"

	"github.com/iafilius/BinaryAcquisitionViewer/src/plot"
)

var (
	ErrTooShort  = errors.New("spectrum: need at least 2 samples")
	ErrBadPeriod = errors.New("spectrum: period must be positive")
)

// Window selects the taper applied before the transform.
type Window int

const (
	Rectangular Window = iota
	Hann
	Hamming
	Blackman
)

// ParseWindow maps a window name to a Window; unknown names give Hann.
func ParseWindow(s string) Window {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rect", "rectangular", "none":
		return Rectangular
	case "hamming":
		return Hamming
	case "blackman":
		return Blackman
	}
	return Hann
}

func (w Window) apply(seq []float64) {
	switch w {
	case Hann:
		window.Hann(seq)
	case Hamming:
		window.Hamming(seq)
	case Blackman:
		window.Blackman(seq)
	}
}

// Spectrum is the amplitude spectrum of one channel. Freq is in Hz.
type Spectrum struct {
	Channel   int
	Freq      []float64
	Amplitude []float64
}

// Compute returns the one-sided amplitude spectrum of xs sampled every period
// seconds. The mean is removed before windowing so DC does not swamp the plot.
func Compute(xs []float64, period float64, w Window) (Spectrum, error) {
	if len(xs) < 2 {
		return Spectrum{}, ErrTooShort
	}
	if !(period > 0) || math.IsInf(period, 0) {
		return Spectrum{}, ErrBadPeriod
	}
	n := len(xs)
	seq := make([]float64, n)
	var mean float64
	for _, v := range xs {
		mean += v
	}
	mean /= float64(n)
	for i, v := range xs {
		seq[i] = v - mean
	}
	w.apply(seq)

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, seq)
	rate := 1 / period
	s := Spectrum{
		Freq:      make([]float64, len(coeff)),
		Amplitude: make([]float64, len(coeff)),
	}
	for i, c := range coeff {
		s.Freq[i] = fft.Freq(i) * rate
		a := cmplx.Abs(c) / float64(n)
		// fold the negative frequencies in, except DC and Nyquist
		if i != 0 && !(n%2 == 0 && i == len(coeff)-1) {
			a *= 2
		}
		s.Amplitude[i] = a
	}
	return s, nil
}

// Peak returns the strongest non-DC bin.
func (s Spectrum) Peak() (freq, amp float64) {
	for i := 1; i < len(s.Amplitude); i++ {
		if s.Amplitude[i] > amp {
			freq, amp = s.Freq[i], s.Amplitude[i]
		}
	}
	return freq, amp
}

// FromFrame computes the spectrum of every channel of the loaded part of f.
func FromFrame(f plot.Frame, period float64, w Window) ([]Spectrum, error) {
	if f.Empty() {
		return nil, plot.ErrNoData
	}
	out := make([]Spectrum, 0, f.Channels())
	for c := 0; c < f.Channels(); c++ {
		_, ys := f.Series(c)
		s, err := Compute(ys, period, w)
		if err != nil {
			return nil, err
		}
		s.Channel = c
		out = append(out, s)
	}
	return out, nil
}

// AsFrame lays spectra out as a plot frame (frequency on the x axis) so the
// page renderers can draw them.
func AsFrame(specs []Spectrum) plot.Frame {
	if len(specs) == 0 || len(specs[0].Freq) == 0 {
		return plot.Frame{}
	}
	freq := specs[0].Freq
	f := plot.Frame{
		Page:   1,
		Time:   freq,
		Data:   make([][]float64, len(specs)),
		Filled: len(freq),
		XMin:   freq[0],
		XMax:   freq[len(freq)-1],
	}
	for i, s := range specs {
		f.Data[i] = s.Amplitude
		for _, a := range s.Amplitude {
			if a > f.YMax {
				f.YMax = a
			}
		}
	}
	f.YMax *= 1.05
	if f.YMax == 0 {
		f.YMax = 1
	}
	return f
}
