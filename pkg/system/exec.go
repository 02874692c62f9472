package system

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// LiveRunner runs commands on the live system, streaming output to the
// wrapper's own stdout/stderr. The environment is inherited wholesale so
// that variables meant for the harness pass through.
type LiveRunner struct {
	Stdout io.Writer // defaults to os.Stdout
	Stderr io.Writer // defaults to os.Stderr
}

func (r *LiveRunner) Run(ctx context.Context, dir string, argv []string) (int, error) {
	if len(argv) == 0 {
		return 0, errors.New("empty argv")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("running %s: %w", argv[0], err)
}
