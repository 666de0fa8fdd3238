package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"
)

// Level orders log severities. LevelNone disables output.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "NONE"
	}
}

// ParseLevel accepts debug, info, warn|warning, error and none.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "none", "off":
		return LevelNone, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Sink receives leveled log lines. Implementations must be safe for
// concurrent use.
type Sink interface {
	Log(level Level, msg string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(level Level, msg string)

func (f SinkFunc) Log(level Level, msg string) { f(level, msg) }

// Sinks fans a log line out to every registered sink at or above min.
// The zero value and a nil *Sinks discard everything.
type Sinks struct {
	min   Level
	sinks []Sink
}

// NewSinks builds a fan-out, skipping nil sinks.
func NewSinks(minLevel Level, sinks ...Sink) *Sinks {
	cp := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s == nil {
			continue
		}
		cp = append(cp, s)
	}
	return &Sinks{min: minLevel, sinks: cp}
}

// Enabled reports whether a line at level would reach any sink.
func (s *Sinks) Enabled(level Level) bool {
	return s != nil && len(s.sinks) > 0 && level != LevelNone && s.min != LevelNone && level >= s.min
}

// Log forwards msg to every sink.
func (s *Sinks) Log(level Level, msg string) {
	if !s.Enabled(level) || msg == "" {
		return
	}
	for _, sink := range s.sinks {
		sink.Log(level, msg)
	}
}

// Logf formats and forwards a line.
func (s *Sinks) Logf(level Level, format string, args ...any) {
	if !s.Enabled(level) {
		return
	}
	s.Log(level, fmt.Sprintf(format, args...))
}

// Size returns the number of registered sinks.
func (s *Sinks) Size() int {
	if s == nil {
		return 0
	}
	return len(s.sinks)
}

// Formatter renders a log line for a WriterSink.
type Formatter interface {
	Format(level Level, msg string) string
}

// SimpleFormatter renders "2006-01-02 15:04:05 LEVEL: msg".
type SimpleFormatter struct {
	Now func() time.Time
}

func (f SimpleFormatter) Format(level Level, msg string) string {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	return fmt.Sprintf("%s %s: %s", now().Format(time.DateTime), level, msg)
}

// IdentityFormatter renders the message unchanged.
type IdentityFormatter struct{}

func (IdentityFormatter) Format(_ Level, msg string) string { return msg }

// WriterSink writes formatted lines to an io.Writer.
type WriterSink struct {
	mu        sync.Mutex
	w         io.Writer
	level     Level
	formatter Formatter
}

// NewWriterSink builds a sink writing lines at or above level to w.
// A nil formatter selects SimpleFormatter.
func NewWriterSink(w io.Writer, level Level, formatter Formatter) *WriterSink {
	if formatter == nil {
		formatter = SimpleFormatter{}
	}
	return &WriterSink{w: w, level: level, formatter: formatter}
}

func (s *WriterSink) Log(level Level, msg string) {
	if level < s.level || level == LevelNone || s.level == LevelNone {
		return
	}
	line := s.formatter.Format(level, msg)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, line+"\n")
}

// previewBody renders a body for debug logs: pretty JSON, text when printable,
// otherwise a size placeholder. Binary media types are never rendered.
func previewBody(ct ContentType, body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if ct.IsBinary() {
		return sizePlaceholder(body)
	}
	if ct == ContentTypeJSON {
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err == nil {
			return buf.String()
		}
	}
	if printable(body) {
		return string(body)
	}
	return sizePlaceholder(body)
}

func sizePlaceholder(body []byte) string {
	return fmt.Sprintf("<body of size: %d>", len(body))
}

func printable(body []byte) bool {
	if !utf8.Valid(body) {
		return false
	}
	for _, r := range string(body) {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
