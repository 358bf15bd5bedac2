// Package ports defines the interfaces between the encoder core and the
// world around it: the native engine, logging and the file system.
package ports

import "fmt"

// LogLevel is the minimum severity a Logger prints.
type LogLevel int

const (
	LevelDebug LogLevel = iota // engine opens, closes and drains
	LevelInfo                  // command progress
	LevelWarn                  // output was lost but the call succeeded
	LevelError
	LevelQuiet // nothing is printed
)

var levelNames = [...]string{"debug", "info", "warn", "error", "quiet"}

func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLogLevel returns the level called name. The empty name is info.
func ParseLogLevel(name string) (LogLevel, error) {
	if name == "" {
		return LevelInfo, nil
	}
	for i, n := range levelNames {
		if n == name {
			return LogLevel(i), nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// Logger prints printf-style messages. The format string doubles as the
// translation key, so implementations may localize it before formatting.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that tags messages with component.
	// Nested calls join names with a slash.
	WithComponent(component string) Logger
}

// NopLogger returns a Logger that drops every message. A Setup logs to it
// until Logger is called, and the command line uses it for --quiet.
func NopLogger() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{})  {}
func (nopLogger) Info(string, ...interface{})   {}
func (nopLogger) Warn(string, ...interface{})   {}
func (nopLogger) Error(string, ...interface{})  {}
func (n nopLogger) WithComponent(string) Logger { return n }
