package baf

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"
	"io"
	"math"
	"os"
)

// Writer appends slices to a new file. Close must be called to write the tail.
type Writer struct {
	f       *os.File
	w       *bufio.Writer
	sum     hash.Hash
	hdr     Header
	written uint64
	buf     []byte
	closed  bool
}

// Create creates (or truncates) path and writes the header.
func Create(path string, hdr Header) (*Writer, error) {
	if err := hdr.Validate(); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := &Writer{
		f:   f,
		w:   bufio.NewWriterSize(f, 64*1024),
		sum: sha256.New(),
		hdr: hdr,
		buf: make([]byte, hdr.SliceSize()),
	}
	var raw [HeaderSize]byte
	copy(raw[0:4], headerMagic[:])
	binary.BigEndian.PutUint32(raw[4:8], Version)
	binary.BigEndian.PutUint64(raw[8:16], math.Float64bits(hdr.Period))
	binary.BigEndian.PutUint32(raw[16:20], uint32(hdr.Channels))
	if _, err := w.w.Write(raw[:]); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return w, nil
}

// Header returns the header the writer was created with.
func (w *Writer) Header() Header { return w.hdr }

// Written returns the number of slices written so far.
func (w *Writer) Written() uint64 { return w.written }

// WriteSlice appends one sample per channel.
func (w *Writer) WriteSlice(slice []float64) error {
	if w.closed {
		return ErrClosed
	}
	if len(slice) != w.hdr.Channels {
		return ErrSliceLen
	}
	for i, v := range slice {
		binary.BigEndian.PutUint64(w.buf[i*SampleSize:], math.Float64bits(v))
	}
	if _, err := io.MultiWriter(w.w, w.sum).Write(w.buf); err != nil {
		return err
	}
	w.written++
	return nil
}

// Close writes the tail and closes the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	var raw [TailSize]byte
	copy(raw[0:4], tailMagic[:])
	binary.BigEndian.PutUint64(raw[8:16], w.written)
	copy(raw[16:48], w.sum.Sum(nil))
	if _, err := w.w.Write(raw[:]); err != nil {
		w.f.Close()
		return fmt.Errorf("write tail: %w", err)
	}
	if err := w.w.Flush(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
