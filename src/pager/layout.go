// Package pager splits an acquisition file into fixed-duration pages and
// drives page loads into a plot buffer.
package pager

import (
	"fmt"
	"math"
)

// MaxPageValues bounds the values one page grid may hold, time axis
// included: samplesPerPage*(channels+1). The buffer keeps two such grids of
// float64, so the limit is 256 MiB of page memory.
const MaxPageValues = 1 << 24

// Layout is the page geometry derived from the page duration, the sample
// period and the number of samples written per channel.
type Layout struct {
	SamplesPerPage int
	TotalPages     int
}

// ComputeLayout derives the page geometry. Both fields are always at least 1.
//
// samplesPerPage is floor(pageTime/period). totalPages is
// floor(written/samplesPerPage), plus one when that floor leaves a remainder.
func ComputeLayout(pageTime, period float64, written uint64) Layout {
	spp := 1
	if pageTime > 0 && period > 0 && !math.IsInf(pageTime, 0) && !math.IsInf(period, 0) {
		// 0.3/0.1 is 2.9999999999999996 in binary
		n := math.Floor(pageTime/period + 1e-9)
		if n > float64(math.MaxInt32) {
			n = math.MaxInt32
		}
		if n >= 1 {
			spp = int(n)
		}
	}
	full := written / uint64(spp)
	total := full
	if written-full*uint64(spp) != 0 {
		total++
	}
	if total < 1 {
		total = 1
	}
	return Layout{SamplesPerPage: spp, TotalPages: int(total)}
}

// Range returns the half-open sample range [start, end) covered by page p.
func (l Layout) Range(p int) (start, end int64) {
	start = int64(p-1) * int64(l.SamplesPerPage)
	return start, start + int64(l.SamplesPerPage)
}

// PageOf returns the page that holds sample index s, clamped to [1, TotalPages].
func (l Layout) PageOf(s int64) int {
	if l.SamplesPerPage < 1 || s < 0 {
		return 1
	}
	p := int(s/int64(l.SamplesPerPage)) + 1
	if p > l.TotalPages {
		p = l.TotalPages
	}
	return p
}

// Check reports ErrPageTooLarge when a page of l over channels would exceed
// MaxPageValues.
func (l Layout) Check(channels int) error {
	if channels < 1 {
		channels = 1
	}
	if int64(l.SamplesPerPage)*int64(channels+1) > MaxPageValues {
		return fmt.Errorf("%w: %d samples x %d channels (limit %d values)",
			ErrPageTooLarge, l.SamplesPerPage, channels, MaxPageValues)
	}
	return nil
}
