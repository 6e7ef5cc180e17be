// Package logging provides the leveled logger handed to the viewer components.
// There is no package-level logger: construct one at startup, pass it down,
// and Close it on exit.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Level represents severity.
type Level = logrus.Level

const (
	LevelDebug = logrus.DebugLevel
	LevelInfo  = logrus.InfoLevel
	LevelWarn  = logrus.WarnLevel
	LevelError = logrus.ErrorLevel
)

var levelNames = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

// ParseLevel maps a level name to a Level. ok is false for unknown names.
func ParseLevel(s string) (Level, bool) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	return l, ok
}

// Logger wraps a logrus logger with an optional session log file.
type Logger struct {
	log *logrus.Logger

	mu   sync.Mutex
	out  io.Writer
	file *os.File
}

// New returns a logger writing to w at info level.
func New(w io.Writer) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(LevelInfo)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000000",
	})
	return &Logger{log: l, out: w}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger { return New(io.Discard) }

// SetLevel parses and sets the level; unknown names are ignored.
func (l *Logger) SetLevel(s string) {
	if lvl, ok := ParseLevel(s); ok {
		l.log.SetLevel(lvl)
	}
}

// Level returns the current level.
func (l *Logger) Level() Level { return l.log.GetLevel() }

// OpenFile tees the log into path (appending). A previously opened file is closed.
func (l *Logger) OpenFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
	}
	l.file = f
	l.log.SetOutput(io.MultiWriter(l.out, f))
	return nil
}

// Close detaches and closes the session log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	l.log.SetOutput(l.out)
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Logger) logf(lvl Level, format string, args ...interface{}) {
	if !l.log.IsLevelEnabled(lvl) {
		return
	}
	// Only format when there are args, so literal '%' in pre-formatted
	// messages does not turn into %!x(MISSING).
	if len(args) == 0 {
		l.log.Log(lvl, format)
		return
	}
	l.log.Log(lvl, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, a ...interface{}) { l.logf(LevelDebug, format, a...) }
func (l *Logger) Infof(format string, a ...interface{})  { l.logf(LevelInfo, format, a...) }
func (l *Logger) Warnf(format string, a ...interface{})  { l.logf(LevelWarn, format, a...) }
func (l *Logger) Errorf(format string, a ...interface{}) { l.logf(LevelError, format, a...) }

// TimeTrack logs the time elapsed since start at debug level.
func (l *Logger) TimeTrack(start time.Time, label string) {
	l.Debugf("%s took %s", label, time.Since(start))
}
