package baf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ramp fills channel c of slice i with i*10+c so every value is traceable.
func ramp(i int, slice []float64) {
	for c := range slice {
		slice[c] = float64(i*10 + c)
	}
}

func writeRamp(t *testing.T, channels, n int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ramp.baf")
	if err := Generate(path, Header{Period: 0.1, Channels: channels}, n, ramp); err != nil {
		t.Fatalf("generate: %v", err)
	}
	return path
}

func TestRoundTrip_HeaderTailAndData(t *testing.T) {
	path := writeRamp(t, 3, 25)
	if !Verify(path) {
		t.Fatalf("Verify rejected a freshly written file")
	}
	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	hdr, err := f.ReadHeader()
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	if hdr.Period != 0.1 || hdr.Channels != 3 {
		t.Fatalf("unexpected header %+v", hdr)
	}
	tail, err := f.ReadTail()
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if tail.Written != 25 {
		t.Fatalf("written=%d want 25", tail.Written)
	}
	if err := f.VerifyChecksum(); err != nil {
		t.Fatalf("checksum: %v", err)
	}
	if want := int64(HeaderSize + TailSize + 25*3*SampleSize); f.Size() != want {
		t.Fatalf("size=%d want %d", f.Size(), want)
	}
}

func TestIterate_RangeOrderAndClamp(t *testing.T) {
	path := writeRamp(t, 2, 50)
	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var got []float64
	if err := f.Iterate(10, 15, func(s []float64) { got = append(got, s[0], s[1]) }); err != nil {
		t.Fatalf("iterate: %v", err)
	}
	want := []float64{100, 101, 110, 111, 120, 121, 130, 131, 140, 141}
	if len(got) != len(want) {
		t.Fatalf("got %d values want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("value %d: got %v want %v", i, got[i], want[i])
		}
	}

	// past the end: only the written samples are visited
	calls := 0
	if err := f.Iterate(40, 100, func([]float64) { calls++ }); err != nil {
		t.Fatalf("iterate tail: %v", err)
	}
	if calls != 10 {
		t.Fatalf("expected 10 calls at end of file, got %d", calls)
	}

	if err := f.Iterate(5, 2, func([]float64) {}); !errors.Is(err, ErrRange) {
		t.Fatalf("expected ErrRange for inverted range, got %v", err)
	}
	if err := f.Iterate(-1, 2, func([]float64) {}); !errors.Is(err, ErrRange) {
		t.Fatalf("expected ErrRange for negative start, got %v", err)
	}
}

func TestReadHeader_Rejections(t *testing.T) {
	dir := t.TempDir()
	if _, err := Create(filepath.Join(dir, "x.baf"), Header{Period: 0, Channels: 1}); !errors.Is(err, ErrBadPeriod) {
		t.Fatalf("expected ErrBadPeriod, got %v", err)
	}
	if _, err := Create(filepath.Join(dir, "y.baf"), Header{Period: 1, Channels: MaxChannels + 1}); !errors.Is(err, ErrBadChannels) {
		t.Fatalf("expected ErrBadChannels, got %v", err)
	}

	junk := filepath.Join(dir, "junk.baf")
	if err := os.WriteFile(junk, []byte(strings.Repeat("x", 200)), 0o644); err != nil {
		t.Fatal(err)
	}
	if Verify(junk) {
		t.Fatalf("Verify accepted junk")
	}
	f, err := Open(junk)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.ReadHeader(); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
	if Verify(filepath.Join(dir, "missing.baf")) {
		t.Fatalf("Verify accepted a missing file")
	}
}

func TestReadTail_UnclosedWriterAndCorruption(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "open.baf")
	w, err := Create(path, Header{Period: 1, Channels: 1})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		if err := w.WriteSlice([]float64{float64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.WriteSlice([]float64{1, 2}); !errors.Is(err, ErrSliceLen) {
		t.Fatalf("expected ErrSliceLen, got %v", err)
	}
	// flush without a tail
	if err := w.w.Flush(); err != nil {
		t.Fatal(err)
	}
	f, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.ReadTail(); !errors.Is(err, ErrBadTail) {
		t.Fatalf("expected ErrBadTail, got %v", err)
	}
	f.Close()
	w.Close()

	// flip one data byte: tail still parses, checksum does not match
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	raw[HeaderSize+3] ^= 0xff
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	f, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := f.VerifyChecksum(); !errors.Is(err, ErrChecksum) {
		t.Fatalf("expected ErrChecksum, got %v", err)
	}
}

func TestToHumanReadable(t *testing.T) {
	src := writeRamp(t, 2, 3)
	dst := filepath.Join(t.TempDir(), "out.txt")
	if err := ToHumanReadable(src, dst); err != nil {
		t.Fatalf("export: %v", err)
	}
	b, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	var rows []string
	for _, l := range lines {
		if strings.HasPrefix(l, "#") {
			continue
		}
		rows = append(rows, l)
	}
	want := []string{"0\t1", "10\t11", "20\t21"}
	if len(rows) != len(want) {
		t.Fatalf("rows=%v", rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d: got %q want %q", i, rows[i], want[i])
		}
	}
	if !strings.Contains(string(b), "# channels: 2") {
		t.Fatalf("missing channel comment: %s", b)
	}
}
