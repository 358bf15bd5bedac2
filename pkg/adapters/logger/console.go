// Package logger provides ports.Logger implementations for the encoder and
// the command-line tools.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"
	"github.com/user/x264go/pkg/ports"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

var levelColors = map[ports.LogLevel]string{
	ports.LevelDebug: colorGray,
	ports.LevelWarn:  colorYellow,
	ports.LevelError: colorRed,
}

// ConsoleLogger writes translated messages to stdout, and warnings and
// errors to stderr. Loggers derived with WithComponent share its streams
// and its lock, so lines from the encoder and the signal handler never
// interleave.
type ConsoleLogger struct {
	level     ports.LogLevel
	component string
	color     bool
	out       io.Writer
	errOut    io.Writer
	mu        *sync.Mutex
}

// NewConsole creates a console logger with the specified level.
// Color output is enabled when stdout is a terminal.
func NewConsole(level ports.LogLevel) *ConsoleLogger {
	fd := os.Stdout.Fd()
	return &ConsoleLogger{
		level:  level,
		color:  isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		out:    os.Stdout,
		errOut: os.Stderr,
		mu:     &sync.Mutex{},
	}
}

// NewWriter creates an uncolored logger that writes every level to w.
func NewWriter(level ports.LogLevel, w io.Writer) *ConsoleLogger {
	return &ConsoleLogger{level: level, out: w, errOut: w, mu: &sync.Mutex{}}
}

func (l *ConsoleLogger) Debug(msg string, args ...interface{}) { l.log(ports.LevelDebug, msg, args) }
func (l *ConsoleLogger) Info(msg string, args ...interface{})  { l.log(ports.LevelInfo, msg, args) }
func (l *ConsoleLogger) Warn(msg string, args ...interface{})  { l.log(ports.LevelWarn, msg, args) }
func (l *ConsoleLogger) Error(msg string, args ...interface{}) { l.log(ports.LevelError, msg, args) }

// WithComponent returns a logger that prefixes lines with [component].
func (l *ConsoleLogger) WithComponent(component string) ports.Logger {
	child := *l
	if l.component != "" {
		child.component = l.component + "/" + component
	} else {
		child.component = component
	}
	return &child
}

func (l *ConsoleLogger) log(level ports.LogLevel, msg string, args []interface{}) {
	if level < l.level {
		return
	}

	line := l10n.F(msg, args...)
	if l.component != "" {
		tag := "[" + l.component + "]"
		if l.color {
			tag = colorCyan + tag + colorReset
		}
		line = tag + " " + line
	}
	if c, ok := levelColors[level]; ok && l.color {
		line = c + line + colorReset
	}

	w := l.out
	if level >= ports.LevelWarn {
		w = l.errOut
	}

	if l.mu == nil {
		fmt.Fprintln(w, line)
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(w, line)
}

var _ ports.Logger = (*ConsoleLogger)(nil)
