package toxml

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   LogLevel
		wantOK bool
	}{
		{"debug", LevelDebug, true},
		{" INFO ", LevelInfo, true},
		{"warning", LevelWarn, true},
		{"error", LevelError, true},
		{"loud", LevelWarn, false},
	}
	for _, tt := range tests {
		got, ok := ParseLogLevel(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseLogLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLoggerFiltersAndFormats(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LevelInfo, &buf, LoggerOptions{OmitTimestamp: true})
	log.Debugf("hidden")
	log.With(map[string]any{"root": 3, "file": "my file.json"}).Infof("converted %d", 7)
	log.Errorf("boom")

	want := "[INFO] converted 7 file=\"my file.json\" root=3\n[ERROR] boom\n"
	if got := buf.String(); got != want {
		t.Errorf("log output = %q, want %q", got, want)
	}
}

func TestLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(LevelDebug, &buf).Warnf("x")
	line := buf.String()
	if !strings.HasPrefix(line, "[WARN] ") || !strings.HasSuffix(line, " x\n") {
		t.Errorf("log output = %q, want timestamped warn line", line)
	}
}

func TestLoggerConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LevelDebug, &buf, LoggerOptions{OmitTimestamp: true})
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.With(map[string]any{"root": i}).Debugf("line")
		}()
	}
	wg.Wait()
	if n := strings.Count(buf.String(), "\n"); n != 16 {
		t.Errorf("got %d lines, want 16", n)
	}
}
