package dispatch

import (
	"context"
	"errors"
	"testing"

	"vpptest/pkg/config"
	"vpptest/pkg/log"
	"vpptest/pkg/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherArgv(t *testing.T) {
	d := New(config.Default(), test.NewMockRunner(), log.NewNop())

	t.Run("base invocation", func(t *testing.T) {
		argv := d.Argv(planFor(t, "--test=all"))
		assert.Equal(t, []string{
			"sudo", "-E",
			"go", "test", ".",
			"-v",
			"-timeout=20m0s",
			"-buildvcs=false",
		}, argv)
	})

	t.Run("accumulator is appended last", func(t *testing.T) {
		argv := d.Argv(planFor(t, "--test=Foo", "--persist=true"))
		assert.Equal(t, []string{
			"sudo", "-E",
			"go", "test", ".",
			"-v",
			"-timeout=20m0s",
			"-buildvcs=false",
			"-run", "Foo", "-persist",
		}, argv)
	})
}

func TestDispatch(t *testing.T) {
	t.Run("runs in the suite directory", func(t *testing.T) {
		cfg := config.Default()
		cfg.SuiteDir = "/opt/hs-test"
		runner := test.NewMockRunner()
		d := New(cfg, runner, log.NewNop())

		code, err := d.Dispatch(context.Background(), planFor(t, "--test=Foo"))
		require.NoError(t, err)
		assert.Equal(t, 0, code)

		call := runner.LastCall()
		require.NotNil(t, call)
		assert.Equal(t, "/opt/hs-test", call.Dir)
		assert.Equal(t, "sudo", call.Argv[0])
	})

	t.Run("exit code passes through untouched", func(t *testing.T) {
		runner := test.NewMockRunner()
		runner.ExitCode = 2
		d := New(config.Default(), runner, log.NewNop())

		code, err := d.Dispatch(context.Background(), planFor(t))
		require.NoError(t, err)
		assert.Equal(t, 2, code)
	})

	t.Run("validation failure launches nothing", func(t *testing.T) {
		runner := test.NewMockRunner()
		d := New(config.Default(), runner, log.NewNop())

		_, err := d.Dispatch(context.Background(), planFor(t, "--persist=true"))

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Empty(t, runner.Calls)
	})

	t.Run("launch failure is an error", func(t *testing.T) {
		runner := test.NewMockRunner()
		runner.Err = errors.New("sudo not found")
		d := New(config.Default(), runner, log.NewNop())

		_, err := d.Dispatch(context.Background(), planFor(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "launching test harness")
	})
}

func TestHarnessError(t *testing.T) {
	err := &HarnessError{Code: 3}
	assert.Equal(t, "test harness exited with code 3", err.Error())
}
