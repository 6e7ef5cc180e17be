package baf

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// File is an open binary acquisition file.
type File struct {
	f    *os.File
	name string
	size int64

	hdr    *Header
	tail   *Tail
	closed bool
}

// Verify is a cheap format sniff: the file exists, can hold a header and a tail,
// and starts with the header magic. It does not validate the header fields.
func Verify(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil || st.IsDir() || st.Size() < HeaderSize+TailSize {
		return false
	}
	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return false
	}
	return magic == headerMagic
}

// Open opens path for reading.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{f: f, name: path, size: st.Size()}, nil
}

// Name returns the path the file was opened with.
func (bf *File) Name() string { return bf.name }

// Size returns the file size in bytes.
func (bf *File) Size() int64 { return bf.size }

// Close closes the file. Calling it twice returns ErrClosed.
func (bf *File) Close() error {
	if bf.closed {
		return ErrClosed
	}
	bf.closed = true
	return bf.f.Close()
}

// ReadHeader decodes and validates the header.
func (bf *File) ReadHeader() (Header, error) {
	if bf.hdr != nil {
		return *bf.hdr, nil
	}
	if bf.closed {
		return Header{}, ErrClosed
	}
	var raw [HeaderSize]byte
	if _, err := bf.f.ReadAt(raw[:], 0); err != nil {
		if err == io.EOF {
			return Header{}, ErrBadMagic
		}
		return Header{}, fmt.Errorf("read header: %w", err)
	}
	if !bytes.Equal(raw[0:4], headerMagic[:]) {
		return Header{}, ErrBadMagic
	}
	if v := binary.BigEndian.Uint32(raw[4:8]); v != Version {
		return Header{}, fmt.Errorf("%w: %d", ErrBadVersion, v)
	}
	hdr := Header{
		Period:   math.Float64frombits(binary.BigEndian.Uint64(raw[8:16])),
		Channels: int(binary.BigEndian.Uint32(raw[16:20])),
	}
	if err := hdr.Validate(); err != nil {
		return Header{}, err
	}
	bf.hdr = &hdr
	return hdr, nil
}

// ReadTail decodes the tail and checks that the data section can hold the
// number of samples it declares. The header is read first if needed.
func (bf *File) ReadTail() (Tail, error) {
	if bf.tail != nil {
		return *bf.tail, nil
	}
	hdr, err := bf.ReadHeader()
	if err != nil {
		return Tail{}, err
	}
	if bf.size < HeaderSize+TailSize {
		return Tail{}, ErrBadTail
	}
	var raw [TailSize]byte
	if _, err := bf.f.ReadAt(raw[:], bf.size-TailSize); err != nil {
		return Tail{}, fmt.Errorf("read tail: %w", err)
	}
	if !bytes.Equal(raw[0:4], tailMagic[:]) {
		return Tail{}, ErrBadTail
	}
	var tail Tail
	tail.Written = binary.BigEndian.Uint64(raw[8:16])
	copy(tail.Digest[:], raw[16:48])

	data := bf.size - HeaderSize - TailSize
	if data%hdr.SliceSize() != 0 || uint64(data/hdr.SliceSize()) < tail.Written {
		return Tail{}, ErrTruncated
	}
	bf.tail = &tail
	return tail, nil
}

// Checksum computes the sha256 digest of the data section covered by the tail.
func (bf *File) Checksum() ([32]byte, error) {
	var sum [32]byte
	hdr, err := bf.ReadHeader()
	if err != nil {
		return sum, err
	}
	tail, err := bf.ReadTail()
	if err != nil {
		return sum, err
	}
	h := sha256.New()
	n := int64(tail.Written) * hdr.SliceSize()
	if _, err := io.Copy(h, io.NewSectionReader(bf.f, HeaderSize, n)); err != nil {
		return sum, fmt.Errorf("checksum: %w", err)
	}
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// VerifyChecksum compares the data section against the digest stored in the tail.
func (bf *File) VerifyChecksum() error {
	tail, err := bf.ReadTail()
	if err != nil {
		return err
	}
	sum, err := bf.Checksum()
	if err != nil {
		return err
	}
	if sum != tail.Digest {
		return ErrChecksum
	}
	return nil
}

// Iterate calls fn once per slice index in [start, end), in increasing order.
// end is clamped to the number of written samples, so a range running past the
// end of the file yields a short run. The slice handed to fn is reused between
// calls and must not be retained.
func (bf *File) Iterate(start, end int64, fn func(slice []float64)) error {
	hdr, err := bf.ReadHeader()
	if err != nil {
		return err
	}
	tail, err := bf.ReadTail()
	if err != nil {
		return err
	}
	if start < 0 || start > end {
		return fmt.Errorf("%w: [%d, %d)", ErrRange, start, end)
	}
	if w := int64(tail.Written); end > w {
		end = w
	}
	if start >= end {
		return nil
	}

	sz := hdr.SliceSize()
	sec := io.NewSectionReader(bf.f, HeaderSize+start*sz, (end-start)*sz)
	r := bufio.NewReaderSize(sec, 64*1024)
	raw := make([]byte, sz)
	slice := make([]float64, hdr.Channels)
	for i := start; i < end; i++ {
		if _, err := io.ReadFull(r, raw); err != nil {
			return fmt.Errorf("read slice %d: %w", i, err)
		}
		for c := range slice {
			slice[c] = math.Float64frombits(binary.BigEndian.Uint64(raw[c*SampleSize:]))
		}
		fn(slice)
	}
	return nil
}
