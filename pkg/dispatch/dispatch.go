package dispatch

import (
	"context"
	"fmt"
	"strings"

	"vpptest/pkg/config"
	"vpptest/pkg/log"
	"vpptest/pkg/runner"
)

// HarnessError reports a non-zero harness exit so main can pass the code
// through unchanged.
type HarnessError struct {
	Code int
}

func (e *HarnessError) Error() string {
	return fmt.Sprintf("test harness exited with code %d", e.Code)
}

// Dispatcher invokes the harness once per validated plan.
type Dispatcher struct {
	cfg    config.Config
	runner runner.Runner
	logger log.Logger
}

func New(cfg config.Config, r runner.Runner, logger log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Dispatcher{cfg: cfg, runner: r, logger: logger}
}

// Argv returns the full harness invocation for a plan: elevated privileges
// with the environment preserved, go test in verbose mode with VCS stamping
// off and the configured timeout, then the accumulated flags.
func (d *Dispatcher) Argv(p *Plan) []string {
	argv := []string{
		"sudo", "-E",
		"go", "test", ".",
		"-v",
		fmt.Sprintf("-timeout=%s", d.cfg.Timeout),
		"-buildvcs=false",
	}
	return append(argv, p.Args...)
}

// Dispatch validates the plan and runs the harness, returning its exit
// code. A validation failure means nothing was launched. The exit code is
// passed through untouched; an error is only returned when the harness
// could not be launched at all.
func (d *Dispatcher) Dispatch(ctx context.Context, p *Plan) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	argv := d.Argv(p)
	d.logger.Info("dispatching test harness",
		"dir", d.cfg.SuiteDir,
		"command", strings.Join(argv, " "))

	code, err := d.runner.Run(ctx, d.cfg.SuiteDir, argv)
	if err != nil {
		return 0, fmt.Errorf("launching test harness: %w", err)
	}
	if code != 0 {
		d.logger.Warn("test harness exited non-zero", "code", code)
	}
	return code, nil
}
