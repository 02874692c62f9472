// Package test holds mocks shared between the cmd and pkg test suites.
package test

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// RunCall is one recorded harness invocation.
type RunCall struct {
	Dir  string
	Argv []string
}

// MockRunner is a runner.Runner that records invocations instead of
// launching anything.
type MockRunner struct {
	Calls    []RunCall
	ExitCode int
	Err      error
}

func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

func (r *MockRunner) Run(_ context.Context, dir string, argv []string) (int, error) {
	r.Calls = append(r.Calls, RunCall{Dir: dir, Argv: argv})
	if r.Err != nil {
		return 0, r.Err
	}
	return r.ExitCode, nil
}

// LastCall returns the most recent invocation, or nil when nothing ran.
func (r *MockRunner) LastCall() *RunCall {
	if len(r.Calls) == 0 {
		return nil
	}
	return &r.Calls[len(r.Calls)-1]
}

// MockLogger captures log lines as "LEVEL: msg key=value" strings.
type MockLogger struct {
	mu       sync.Mutex
	Messages []string
	Level    slog.Level
}

func NewMockLogger(level slog.Level) *MockLogger {
	return &MockLogger{Level: level}
}

func (l *MockLogger) Debug(msg string, args ...any) { l.capture(slog.LevelDebug, "DEBUG", msg, args...) }
func (l *MockLogger) Info(msg string, args ...any)  { l.capture(slog.LevelInfo, "INFO", msg, args...) }
func (l *MockLogger) Warn(msg string, args ...any)  { l.capture(slog.LevelWarn, "WARN", msg, args...) }
func (l *MockLogger) Error(msg string, args ...any) { l.capture(slog.LevelError, "ERROR", msg, args...) }

func (l *MockLogger) capture(level slog.Level, label, msg string, args ...any) {
	if level < l.Level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var sb strings.Builder
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&sb, " %v=%v", args[i], args[i+1])
	}
	l.Messages = append(l.Messages, sb.String())
}

// Contains reports whether any captured line contains the substring.
func (l *MockLogger) Contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
