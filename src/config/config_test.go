package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_JSONCOverDefaults(t *testing.T) {
	in := `
// viewer settings
{
  // five second pages
  "page_time_seconds": 5,
  "log_file": "/var/log/baf/{host}.log",
  "renderer": "gonum"
}
`
	c, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.PageTimeSeconds != 5 || c.Renderer != "gonum" || c.LogFile != "/var/log/baf/{host}.log" {
		t.Fatalf("file values not applied: %+v", c)
	}
	if c.LogLevel != "info" || c.ChartWidth != 1100 || c.ChartHeight != 340 {
		t.Fatalf("defaults lost: %+v", c)
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := []struct {
		name, in string
		want     error
	}{
		{"zero page time", `{"page_time_seconds": 0}`, ErrInvalid},
		{"bad level", `{"log_level": "loud"}`, ErrInvalid},
		{"bad renderer", `{"renderer": "ascii"}`, ErrInvalid},
		{"tiny chart", `{"chart_width": 10}`, ErrInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tc.in)); !errors.Is(err, tc.want) {
				t.Fatalf("got %v want %v", err, tc.want)
			}
		})
	}
	if _, err := Parse(strings.NewReader(`{"page_time": 3}`)); err == nil {
		t.Fatalf("unknown field accepted")
	}
	if _, err := Parse(strings.NewReader(`{`)); err == nil {
		t.Fatalf("broken json accepted")
	}
}

func TestParse_ExplicitZeroIsNotDefaulted(t *testing.T) {
	if _, err := Parse(strings.NewReader(`{"chart_height": 0}`)); !errors.Is(err, ErrInvalid) {
		t.Fatalf("explicit zero height: got %v", err)
	}
	c, err := Parse(strings.NewReader(`{"log_file": ""}`))
	if err != nil {
		t.Fatalf("empty string field: %v", err)
	}
	if c != Default() {
		t.Fatalf("omitted fields should keep defaults: %+v", c)
	}
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	if err != nil || c != Default() {
		t.Fatalf("empty path should give defaults: %+v %v", c, err)
	}
	path := filepath.Join(t.TempDir(), "bafviewer.jsonc")
	if err := os.WriteFile(path, []byte("// only comments\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if c, err := Load(path); err != nil || c != Default() {
		t.Fatalf("comment-only file: %+v %v", c, err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.jsonc")); err == nil {
		t.Fatalf("missing file accepted")
	}
}

func TestExpandHost(t *testing.T) {
	if got := ExpandHost("plain.log"); got != "plain.log" {
		t.Fatalf("unexpected rewrite %q", got)
	}
	got := ExpandHost("baf_{host}.log")
	if strings.Contains(got, "{host}") || !strings.HasPrefix(got, "baf_") {
		t.Fatalf("placeholder not expanded: %q", got)
	}
	if s := SanitizeHost("My.Host_01"); s != "my-host_01" {
		t.Fatalf("sanitize: %q", s)
	}
}
