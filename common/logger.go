package common

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// Logger is the leveled logging surface shared by the engine components.
// Every line is tagged with the component name in brackets, matching the "[Profiler]" style
// used by the rest of the engine.
type Logger interface {
	// DebugEnabled reports whether Debugf output is currently emitted.
	DebugEnabled() bool

	// SetDebug toggles Debugf output.
	//
	// Parameters:
	//   - enabled: true to emit debug lines
	SetDebug(enabled bool)

	// With returns a logger sharing the same outputs and debug switch but tagged with a different component.
	//
	// Parameters:
	//   - component: the bracketed tag printed before each line
	//
	// Returns:
	//   - Logger: the tagged logger
	With(component string) Logger

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// logState is shared between a root logger and every logger derived from it via With.
type logState struct {
	mu    sync.Mutex
	debug bool
	out   *log.Logger
	err   *log.Logger
}

type logger struct {
	state     *logState
	component string
}

var _ Logger = &logger{}

// NewLogger creates a Logger writing info/debug lines to stdout and warnings/errors to stderr.
//
// Parameters:
//   - component: the bracketed tag printed before each line
//   - debug: whether Debugf output is enabled
//
// Returns:
//   - Logger: the new logger
func NewLogger(component string, debug bool) Logger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &logger{
		state: &logState{
			debug: debug,
			out:   log.New(os.Stdout, "", flags),
			err:   log.New(os.Stderr, "", flags),
		},
		component: component,
	}
}

// NopLogger returns a Logger that discards everything. Useful in tests.
func NopLogger() Logger {
	return &logger{state: &logState{
		out: log.New(discard{}, "", 0),
		err: log.New(discard{}, "", 0),
	}}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func (l *logger) DebugEnabled() bool {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	return l.state.debug
}

func (l *logger) SetDebug(enabled bool) {
	l.state.mu.Lock()
	l.state.debug = enabled
	l.state.mu.Unlock()
}

func (l *logger) With(component string) Logger {
	return &logger{state: l.state, component: component}
}

func (l *logger) format(level, format string, args ...any) string {
	if l.component == "" {
		return fmt.Sprintf("%s: %s", level, fmt.Sprintf(format, args...))
	}
	return fmt.Sprintf("[%s] %s: %s", l.component, level, fmt.Sprintf(format, args...))
}

func (l *logger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.state.out.Print(l.format("DEBUG", format, args...))
}

func (l *logger) Infof(format string, args ...any) {
	l.state.out.Print(l.format("INFO", format, args...))
}

func (l *logger) Warnf(format string, args ...any) {
	l.state.err.Print(l.format("WARN", format, args...))
}

func (l *logger) Errorf(format string, args ...any) {
	l.state.err.Print(l.format("ERROR", format, args...))
}
