package lvm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerSuccess(t *testing.T) {
	runner := NewRunner()

	res, err := runner.Run(context.Background(), []string{"sh", "-c", "echo out; echo err >&2"}, false)
	require.NoError(t, err)

	assert.True(t, res.Ok())
	assert.Equal(t, "out\n", string(res.Stdout))
	assert.Equal(t, "err\n", string(res.Stderr))
}

func TestRunnerExitCode(t *testing.T) {
	runner := NewRunner()

	res, err := runner.Run(context.Background(), []string{"sh", "-c", "exit 5"}, false)
	require.NoError(t, err)

	assert.False(t, res.Ok())
	assert.Equal(t, 5, res.ExitCode)
}

func TestRunnerMissingBinary(t *testing.T) {
	runner := NewRunner()

	_, err := runner.Run(context.Background(), []string{"/no/such/binary"}, false)
	assert.Error(t, err)
}

func TestRunnerEmptyCommand(t *testing.T) {
	runner := NewRunner()

	_, err := runner.Run(context.Background(), nil, false)
	assert.Error(t, err)
}

func TestRunnerCancelledContext(t *testing.T) {
	runner := NewRunner()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, []string{"sh", "-c", "sleep 10"}, false)
	assert.Error(t, err)
}
