// Package runner defines the interface for launching external processes.
// It lives in its own package so the dispatcher and the cmd tests can share
// it without importing the live implementation.
package runner

import "context"

// Runner executes one external command, given as an argv vector, in the
// given working directory. It blocks until the process exits and returns
// the exit code. A non-nil error means the process could not be started
// or observed, not that it exited non-zero.
type Runner interface {
	Run(ctx context.Context, dir string, argv []string) (int, error)
}
