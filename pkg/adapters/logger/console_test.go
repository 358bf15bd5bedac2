package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/user/x264go/pkg/ports"
)

func TestConsoleLogger_Levels(t *testing.T) {
	tests := []struct {
		level ports.LogLevel
		want  []string
	}{
		{ports.LevelDebug, []string{"debug 1", "info 2", "warn 3", "error 4"}},
		{ports.LevelInfo, []string{"info 2", "warn 3", "error 4"}},
		{ports.LevelWarn, []string{"warn 3", "error 4"}},
		{ports.LevelError, []string{"error 4"}},
		{ports.LevelQuiet, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := NewWriter(tt.level, &buf)
			l.Debug("debug %d", 1)
			l.Info("info %d", 2)
			l.Warn("warn %d", 3)
			l.Error("error %d", 4)

			var got []string
			if out := strings.TrimSpace(buf.String()); out != "" {
				got = strings.Split(out, "\n")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines %q, want %q", len(got), got, tt.want)
			}
			for i, w := range tt.want {
				if got[i] != w {
					t.Errorf("line %d = %q, want %q", i, got[i], w)
				}
			}
		})
	}
}

func TestConsoleLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(ports.LevelInfo, &buf).WithComponent("encode").WithComponent("x264")
	l.Info("frame %d", 7)

	if got := strings.TrimSpace(buf.String()); got != "[encode/x264] frame 7" {
		t.Errorf("output = %q", got)
	}
}

func TestConsoleLogger_SplitsStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	l := &ConsoleLogger{level: ports.LevelDebug, out: &out, errOut: &errOut}
	l.Info("to stdout")
	l.Warn("to stderr")

	if !strings.Contains(out.String(), "to stdout") || strings.Contains(out.String(), "to stderr") {
		t.Errorf("stdout = %q", out.String())
	}
	if !strings.Contains(errOut.String(), "to stderr") {
		t.Errorf("stderr = %q", errOut.String())
	}
}
