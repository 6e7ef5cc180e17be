package uihelpers

import (
	"math"
	"strings"
	"testing"
)

func TestComputeChartDimensions(t *testing.T) {
	cases := []struct {
		in    int
		wantW int
	}{
		{100, 800},
		{799, 800},
		{800, 800},
		{1600, 1600},
	}
	for _, c := range cases {
		w, h := ComputeChartDimensions(c.in)
		if w != c.wantW {
			t.Fatalf("input %d => width %d want %d", c.in, w, c.wantW)
		}
		if h < 280 || h > 620 {
			t.Fatalf("height clamp violated for input %d => h=%d", c.in, h)
		}
	}
}

func TestTruncatePath(t *testing.T) {
	if got := TruncatePath("/a/b.baf", 60); got != "/a/b.baf" {
		t.Fatalf("short path changed: %q", got)
	}
	long := "/very/long/directory/name/that/goes/on/and/on/and/on/forever/run42.baf"
	got := TruncatePath(long, 30)
	if len(got) > 30 || got[len(got)-9:] != "run42.baf" {
		t.Fatalf("truncated %q", got)
	}
	if got := TruncatePath("/x/"+strings.Repeat("x", 40)+".baf", 10); got[:3] != "..." {
		t.Fatalf("long base should keep only base: %q", got)
	}
}

func TestContainRect(t *testing.T) {
	x, y, w, h, s := ContainRect(1000, 400, 500, 400)
	if s != 0.5 || w != 500 || h != 200 || x != 0 || y != 100 {
		t.Fatalf("got x=%v y=%v w=%v h=%v s=%v", x, y, w, h, s)
	}
	_, _, w, h, s = ContainRect(0, 0, 300, 200)
	if s != 1 || w != 300 || h != 200 {
		t.Fatalf("zero image should fill view")
	}
}

func TestPixelToData(t *testing.T) {
	const imgW, imgH = 1000, 500
	// image shown at native size
	midX := float32(PadLeft) + float32(imgW-PadLeft-PadRight)/2
	midY := float32(PadTop) + float32(imgH-PadTop-PadBottom)/2
	x, y, ok := PixelToData(midX, midY, imgW, imgH, imgW, imgH, 0, 10, -1, 1)
	if !ok || math.Abs(x-5) > 1e-3 || math.Abs(y) > 1e-3 {
		t.Fatalf("center maps to (%v,%v,%v)", x, y, ok)
	}
	if _, _, ok := PixelToData(1, 1, imgW, imgH, imgW, imgH, 0, 10, -1, 1); ok {
		t.Fatalf("corner is outside the plot area")
	}
	// top-left of plot area at half scale
	x, y, ok = PixelToData(float32(PadLeft)/2, float32(PadTop)/2, imgW, imgH, imgW/2, imgH/2, 0, 10, -1, 1)
	if !ok || math.Abs(x) > 1e-3 || math.Abs(y-1) > 1e-3 {
		t.Fatalf("plot origin maps to (%v,%v,%v)", x, y, ok)
	}
}

func TestParsePageTime(t *testing.T) {
	good := map[string]float64{"10": 10, " 0.5 ": 0.5, "500ms": 0.5, "2m": 120, "1e-3": 0.001}
	for in, want := range good {
		got, err := ParsePageTime(in)
		if err != nil || math.Abs(got-want) > 1e-12 {
			t.Fatalf("ParsePageTime(%q)=%v,%v want %v", in, got, err, want)
		}
	}
	for _, in := range []string{"", "abc", "0", "-3", "-1s", "Inf"} {
		if _, err := ParsePageTime(in); err == nil {
			t.Fatalf("ParsePageTime(%q) accepted", in)
		}
	}
	if FormatSeconds(0.25) != "0.25" || FormatSeconds(10) != "10" {
		t.Fatalf("FormatSeconds")
	}
}
