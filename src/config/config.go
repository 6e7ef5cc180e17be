// Package config loads the viewer configuration from a JSONC file.
package config

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/iafilius/BinaryAcquisitionViewer/src/logging"
)

// Config is shared by bafviewer and bafctl. Load decodes over Default, so
// omitted fields keep their defaults; an explicit zero is decoded as given and
// then rejected by Validate where zero is out of range.
type Config struct {
	PageTimeSeconds float64 `json:"page_time_seconds"`
	LogLevel        string  `json:"log_level"`
	LogFile         string  `json:"log_file"` // may contain {host}
	ChartWidth      int     `json:"chart_width"`
	ChartHeight     int     `json:"chart_height"`
	Renderer        string  `json:"renderer"` // chart | gonum
	Window          string  `json:"spectrum_window"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PageTimeSeconds: 10,
		LogLevel:        "info",
		ChartWidth:      1100,
		ChartHeight:     340,
		Renderer:        "chart",
		Window:          "hann",
	}
}

var ErrInvalid = errors.New("config: invalid value")

// Validate checks ranges and names.
func (c Config) Validate() error {
	if !(c.PageTimeSeconds > 0) || math.IsInf(c.PageTimeSeconds, 0) {
		return fmt.Errorf("%w: page_time_seconds=%v", ErrInvalid, c.PageTimeSeconds)
	}
	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("%w: log_level=%q", ErrInvalid, c.LogLevel)
	}
	if c.ChartWidth < 100 || c.ChartHeight < 100 {
		return fmt.Errorf("%w: chart size %dx%d", ErrInvalid, c.ChartWidth, c.ChartHeight)
	}
	switch strings.ToLower(c.Renderer) {
	case "chart", "gonum":
	default:
		return fmt.Errorf("%w: renderer=%q", ErrInvalid, c.Renderer)
	}
	return nil
}

// StripJSONC drops blank lines and full-line // comments from r. Inline //
// is kept so paths and URLs survive.
func StripJSONC(r io.Reader) ([]byte, error) {
	var out []byte
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out, scanner.Err()
}

// Parse decodes JSONC from r over the defaults and validates the result.
func Parse(r io.Reader) (Config, error) {
	b, err := StripJSONC(r)
	if err != nil {
		return Config{}, err
	}
	c := Default()
	if len(bytes.TrimSpace(b)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads path. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ExpandHost substitutes the sanitized hostname for {host}, %HOST% and $HOST in p.
func ExpandHost(p string) string {
	if !strings.Contains(p, "{host}") && !strings.Contains(p, "%HOST%") && !strings.Contains(p, "$HOST") {
		return p
	}
	hn, err := os.Hostname()
	if err != nil || hn == "" {
		hn = "localhost"
	}
	h := SanitizeHost(hn)
	p = strings.ReplaceAll(p, "{host}", h)
	p = strings.ReplaceAll(p, "%HOST%", h)
	p = strings.ReplaceAll(p, "$HOST", h)
	return p
}

// SanitizeHost lowercases hn and replaces anything but [a-z0-9_-] with '-'.
func SanitizeHost(hn string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(hn) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}
