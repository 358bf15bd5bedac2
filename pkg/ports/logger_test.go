package ports

import "testing"

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    LogLevel
		wantErr bool
	}{
		{"", LevelInfo, false},
		{"debug", LevelDebug, false},
		{"warn", LevelWarn, false},
		{"quiet", LevelQuiet, false},
		{"verbose", LevelInfo, true},
		{"WARN", LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLogLevel(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLogLevel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLogLevelString(t *testing.T) {
	for l := LevelDebug; l <= LevelQuiet; l++ {
		back, err := ParseLogLevel(l.String())
		if err != nil || back != l {
			t.Errorf("%v does not parse back: %v, %v", l, back, err)
		}
	}
	if got := LogLevel(9).String(); got != "LogLevel(9)" {
		t.Errorf("String() = %q", got)
	}
}

func TestNopLogger(t *testing.T) {
	l := NopLogger()
	if l.WithComponent("x264") != l {
		t.Error("WithComponent should return the same logger")
	}
	l.Error("ignored %d", 1)
}
