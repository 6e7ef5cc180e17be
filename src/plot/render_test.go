package plot

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sineFrame(t *testing.T, channels, spp int) Frame {
	t.Helper()
	var b Buffer
	b.Setup(spp, 0.01, channels)
	pushN(&b, spp, func(i, c int) float64 { return math.Sin(float64(i)/10 + float64(c)) })
	return b.Finalize(2)
}

func TestChartRenderer_PNGSize(t *testing.T) {
	f := sineFrame(t, 3, 200)
	var buf bytes.Buffer
	err := ChartRenderer{}.Render(&buf, f, Options{Width: 640, Height: 300, Title: "page 2", Label: "Page 2/5"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 300 {
		t.Fatalf("unexpected size %v", b)
	}
}

func TestChartRenderer_SinglePointAndEmpty(t *testing.T) {
	var b Buffer
	b.Setup(10, 1, 1)
	b.Push([]float64{2})
	if _, err := (ChartRenderer{}).Image(b.Finalize(1), Options{}); err != nil {
		t.Fatalf("single point page should render: %v", err)
	}
	if _, err := (ChartRenderer{}).Image(b.Finalize(2), Options{}); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData for a page with no samples, got %v", err)
	}
	if _, err := (ChartRenderer{}).Image(Frame{}, Options{}); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData for empty frame, got %v", err)
	}
}

func TestGonumRenderer_SVGAndLimits(t *testing.T) {
	f := sineFrame(t, 2, 50)
	view := FitFrame(f)
	view.ZoomX(2)
	p, err := GonumRenderer{}.Plot(f, Options{View: &view})
	if err != nil {
		t.Fatalf("plot: %v", err)
	}
	if p.X.Min != view.XMin || p.X.Max != view.XMax {
		t.Fatalf("x limits not applied: [%v,%v] want [%v,%v]", p.X.Min, p.X.Max, view.XMin, view.XMax)
	}
	var buf bytes.Buffer
	if err := (GonumRenderer{Format: "svg"}).Render(&buf, f, Options{Width: 400, Height: 200}); err != nil {
		t.Fatalf("render svg: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Fatalf("output is not svg")
	}
}

func TestSaveFile_PicksRendererByExtension(t *testing.T) {
	f := sineFrame(t, 1, 20)
	dir := t.TempDir()
	for _, name := range []string{"page.png", "page.svg", "page.pdf"} {
		path := filepath.Join(dir, name)
		if err := SaveFile(path, "chart", f, Options{Width: 320, Height: 200}); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if st, err := os.Stat(path); err != nil || st.Size() == 0 {
			t.Fatalf("%s not written: %v", name, err)
		}
	}
	if err := SaveFile(filepath.Join(dir, "page.gif"), "chart", f, Options{}); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
	if _, err := NewRenderer("matplotlib", ".png"); err == nil {
		t.Fatalf("expected error for unknown renderer")
	}
	if r, _ := NewRenderer("gonum", ".png"); r != (GonumRenderer{Format: "png"}) {
		t.Fatalf("expected gonum png renderer, got %#v", r)
	}
}

func TestViewport_ZoomPan(t *testing.T) {
	v := Viewport{XMin: 0, XMax: 10, YMin: -1, YMax: 1}
	v.ZoomX(2)
	if v.XMin != 2.5 || v.XMax != 7.5 {
		t.Fatalf("zoom in: [%v,%v]", v.XMin, v.XMax)
	}
	v.PanX(0.5)
	if v.XMin != 5 || v.XMax != 10 {
		t.Fatalf("pan: [%v,%v]", v.XMin, v.XMax)
	}
	v.ZoomY(0.5)
	if v.YMin != -2 || v.YMax != 2 {
		t.Fatalf("zoom out y: [%v,%v]", v.YMin, v.YMax)
	}
	v.PanY(-0.25)
	if v.YMin != -3 || v.YMax != 1 {
		t.Fatalf("pan y: [%v,%v]", v.YMin, v.YMax)
	}
	before := v
	v.ZoomX(0)
	v.ZoomX(math.Inf(1))
	if v != before {
		t.Fatalf("invalid zoom factors must be ignored")
	}
	for i := 0; i < 200; i++ {
		v.ZoomX(10)
	}
	if !v.Valid() {
		t.Fatalf("repeated zoom collapsed the viewport: %+v", v)
	}
	if (Viewport{XMin: 1, XMax: 1, YMin: 0, YMax: 1}).Valid() {
		t.Fatalf("empty span must be invalid")
	}
}

func TestNumericTicks(t *testing.T) {
	ticks := NumericTicks(0, 10, 6)
	if len(ticks) < 2 {
		t.Fatalf("too few ticks: %v", ticks)
	}
	for i := 1; i < len(ticks); i++ {
		if ticks[i] <= ticks[i-1] {
			t.Fatalf("ticks not increasing: %v", ticks)
		}
	}
	for _, v := range ticks {
		if v < -1e-6 || v > 10+1e-6 {
			t.Fatalf("tick %v outside range: %v", v, ticks)
		}
	}
	if NumericTicks(0, 1, 1) != nil {
		t.Fatalf("n<2 must return nil")
	}
	if got := NumericTicks(5, 5, 4); len(got) < 2 {
		t.Fatalf("degenerate range should still give ticks: %v", got)
	}
}

func TestFormatTick(t *testing.T) {
	cases := map[float64]string{0: "0", 250: "250", 12.34: "12.3", 1.5: "1.50", 0.125: "0.125"}
	for in, want := range cases {
		if got := FormatTick(in); got != want {
			t.Fatalf("FormatTick(%v)=%q want %q", in, got, want)
		}
	}
}
