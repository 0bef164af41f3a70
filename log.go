package toxml

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity level for logs.
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a level name. Unknown names yield LevelWarn and ok
// is false.
func ParseLogLevel(s string) (level LogLevel, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "INFO":
		return LevelInfo, true
	case "DEBUG":
		return LevelDebug, true
	default:
		return LevelWarn, false
	}
}

// Logger is the interface used by Convert for logging.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	// With returns a child logger augmented with the provided fields.
	With(fields map[string]any) Logger
}

// LoggerOptions tunes the text output of NewLogger.
type LoggerOptions struct {
	// OmitTimestamp drops the RFC 3339 timestamp from every line.
	OmitTimestamp bool
}

// textFormatter emits single-line text logs.
// Format: [LEVEL] ts msg key1=val1 key2=val2 ...
type textFormatter struct {
	includeTimestamp bool
}

func (f *textFormatter) format(ts time.Time, level LogLevel, msg string, fields map[string]any) []byte {
	var b strings.Builder
	b.Grow(96)

	b.WriteByte('[')
	b.WriteString(level.String())
	b.WriteString("] ")

	if f.includeTimestamp {
		b.WriteString(ts.UTC().Format(time.RFC3339Nano))
		b.WriteByte(' ')
	}

	b.WriteString(msg)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fieldString(fields[k]))
	}

	b.WriteByte('\n')
	return []byte(b.String())
}

func fieldString(v any) string {
	switch t := v.(type) {
	case string:
		if strings.IndexFunc(t, func(r rune) bool { return r <= ' ' || r == '"' }) >= 0 {
			return fmt.Sprintf("%q", t)
		}
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// defaultLogger is safe for concurrent use; children created by With share
// the parent's writer and lock.
type defaultLogger struct {
	out       io.Writer
	level     LogLevel
	formatter *textFormatter
	fields    map[string]any
	mu        *sync.Mutex
}

// NewLogger creates a text logger writing lines at or above level to w.
// If w is nil, os.Stderr is used.
func NewLogger(level LogLevel, w io.Writer, opts ...LoggerOptions) Logger {
	if w == nil {
		w = os.Stderr
	}
	var opt LoggerOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	return &defaultLogger{
		out:       w,
		level:     level,
		formatter: &textFormatter{includeTimestamp: !opt.OmitTimestamp},
		fields:    map[string]any{},
		mu:        &sync.Mutex{},
	}
}

func (l *defaultLogger) enabled(level LogLevel) bool {
	return level <= l.level
}

func (l *defaultLogger) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &defaultLogger{
		out:       l.out,
		level:     l.level,
		formatter: l.formatter,
		fields:    merged,
		mu:        l.mu,
	}
}

func (l *defaultLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *defaultLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *defaultLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *defaultLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *defaultLogger) logf(level LogLevel, format string, args ...any) {
	if !l.enabled(level) {
		return
	}
	line := l.formatter.format(time.Now(), level, fmt.Sprintf(format, args...), l.fields)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(line)
}

// noopLogger discards all output.
type noopLogger struct{}

func (*noopLogger) Debugf(string, ...any)        {}
func (*noopLogger) Infof(string, ...any)         {}
func (*noopLogger) Warnf(string, ...any)         {}
func (*noopLogger) Errorf(string, ...any)        {}
func (l *noopLogger) With(map[string]any) Logger { return l }

func newNoopLogger() Logger {
	return &noopLogger{}
}
