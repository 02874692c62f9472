package system

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveRunner_ExitCodes(t *testing.T) {
	runner := &LiveRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	t.Run("zero exit", func(t *testing.T) {
		code, err := runner.Run(context.Background(), "", []string{"sh", "-c", "exit 0"})
		require.NoError(t, err)
		assert.Equal(t, 0, code)
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		code, err := runner.Run(context.Background(), "", []string{"sh", "-c", "exit 3"})
		require.NoError(t, err)
		assert.Equal(t, 3, code)
	})

	t.Run("missing binary is an error", func(t *testing.T) {
		_, err := runner.Run(context.Background(), "", []string{"definitely-not-a-binary-xyz"})
		assert.Error(t, err)
	})

	t.Run("empty argv is an error", func(t *testing.T) {
		_, err := runner.Run(context.Background(), "", nil)
		assert.Error(t, err)
	})
}

func TestLiveRunner_StreamsOutputAndDir(t *testing.T) {
	stdout := &bytes.Buffer{}
	runner := &LiveRunner{Stdout: stdout, Stderr: &bytes.Buffer{}}

	dir := t.TempDir()
	code, err := runner.Run(context.Background(), dir, []string{"pwd"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), dir)
}

func TestLogicalCPUs(t *testing.T) {
	assert.Greater(t, LogicalCPUs(), 0)
}
