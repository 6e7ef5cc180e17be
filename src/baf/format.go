// Package baf reads and writes Binary Acquisition Files.
//
// Layout (all values big-endian):
//
//	header  "BAF1" | version u32 | period f64 | channels u32 | reserved u32
//	data    interleaved slices of channels x f64 (channel 0 first)
//	tail    "TAIL" | reserved u32 | written samples per channel u64 | sha256(data)
//
// The tail is written when a Writer is closed, so a file that was never closed
// cleanly fails ReadTail.
package baf

import (
	"errors"
	"math"
)

const (
	// Version is the only format version understood by this package.
	Version = 1
	// MaxChannels is the largest channel count a file may declare.
	MaxChannels = 256

	HeaderSize = 24
	TailSize   = 48
	SampleSize = 8
)

var (
	headerMagic = [4]byte{'B', 'A', 'F', '1'}
	tailMagic   = [4]byte{'T', 'A', 'I', 'L'}
)

var (
	ErrBadMagic    = errors.New("baf: not a binary acquisition file")
	ErrBadVersion  = errors.New("baf: unsupported format version")
	ErrBadPeriod   = errors.New("baf: invalid sampling period")
	ErrBadChannels = errors.New("baf: invalid channel count")
	ErrBadTail     = errors.New("baf: missing or corrupt tail")
	ErrTruncated   = errors.New("baf: data section shorter than tail claims")
	ErrChecksum    = errors.New("baf: data checksum mismatch")
	ErrRange       = errors.New("baf: invalid sample range")
	ErrSliceLen    = errors.New("baf: slice length does not match channel count")
	ErrClosed      = errors.New("baf: file already closed")
)

// Header describes the stream stored in a file. It is immutable once the file is open.
type Header struct {
	Period   float64 // seconds between two slices
	Channels int
}

// Validate reports whether h can be stored or was read from a well-formed file.
func (h Header) Validate() error {
	if !(h.Period > 0) || math.IsInf(h.Period, 0) {
		return ErrBadPeriod
	}
	if h.Channels < 1 || h.Channels > MaxChannels {
		return ErrBadChannels
	}
	return nil
}

// SliceSize is the byte size of one slice (one sample per channel).
func (h Header) SliceSize() int64 { return int64(h.Channels) * SampleSize }

// Tail is the trailer written on close.
type Tail struct {
	Written uint64   // samples per channel
	Digest  [32]byte // sha256 of the data section
}
