package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	l := &StdLogger{
		logger: log.New(&buf, "", 0),
		level:  LevelDebug,
	}

	tests := []struct {
		name     string
		fn       func()
		expected string
	}{
		{
			name:     "Info",
			fn:       func() { l.Info("creating table for record %s", "UserRecord") },
			expected: "[INFO] creating table for record UserRecord",
		},
		{
			name:     "Warn",
			fn:       func() { l.Warn("could not register email message") },
			expected: "[WARN] could not register email message",
		},
		{
			name:     "Error",
			fn:       func() { l.Error("could not log the user in") },
			expected: "[ERROR] could not log the user in",
		},
		{
			name:     "Debug",
			fn:       func() { l.Debug("debug message") },
			expected: "[DEBUG] debug message",
		},
		{
			name:     "Info with args",
			fn:       func() { l.Info("step %s took %dms", "tables", 42) },
			expected: "[INFO] step tables took 42ms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn()
			got := strings.TrimSpace(buf.String())
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStdLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := &StdLogger{
		logger: log.New(&buf, "", 0),
		level:  LevelWarn,
	}

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown too")

	got := strings.TrimSpace(buf.String())
	want := "[WARN] shown\n[ERROR] shown too"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: "", want: LevelInfo},
		{in: "INFO", want: LevelInfo},
		{in: "warning", want: LevelWarn},
		{in: " error ", want: LevelError},
		{in: "loud", want: LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	if Default == nil {
		t.Error("Default logger should not be nil")
	}

	Default.Info("test")
	Discard.Error("never written")
}
