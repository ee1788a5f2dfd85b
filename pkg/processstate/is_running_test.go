//go:build !windows

package processstate

import (
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsProcessRunning_Self(t *testing.T) {
	running, err := IsProcessRunning(os.Getpid())
	require.NoError(t, err)
	assert.True(t, running)
}

func TestIsProcessRunning_InvalidPID(t *testing.T) {
	_, err := IsProcessRunning(0)
	assert.Error(t, err)

	_, err = IsProcessRunning(-5)
	assert.Error(t, err)
}

func TestIsProcessRunning_ReapedChild(t *testing.T) {
	cmd := exec.Command("true")
	require.NoError(t, cmd.Run())

	running, err := IsProcessRunning(cmd.Process.Pid)
	require.NoError(t, err)
	assert.False(t, running)
}
