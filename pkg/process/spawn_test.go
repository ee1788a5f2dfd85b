//go:build !windows

package process

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/core-tools/hsu-tray/pkg/errors"
	"github.com/core-tools/hsu-tray/pkg/logfiles"
	"github.com/core-tools/hsu-tray/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingLogFiles struct{}

func (failingLogFiles) NewLogFilePath(program string, at time.Time) (string, error) {
	return "", stderrors.New("read-only file system")
}

func newTestLogFiles(t *testing.T) (*logfiles.LogFilesManager, string) {
	dir := filepath.Join(t.TempDir(), "logs")
	return logfiles.NewLogFilesManager(logfiles.LogFilesConfig{BaseDirectory: dir}, logging.NewNopLogger()), dir
}

func waitForExit(t *testing.T, h *Handle) *ExitStatus {
	var status *ExitStatus
	require.Eventually(t, func() bool {
		s, err := h.TryWait()
		require.NoError(t, err)
		status = s
		return s != nil
	}, 10*time.Second, 10*time.Millisecond)
	return status
}

func TestSpawn_SleepSucceeds(t *testing.T) {
	logFiles, dir := newTestLogFiles(t)
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)

	h, err := Spawn(SpawnConfig{
		Command: []string{"sleep", "1"},
		Now:     func() time.Time { return at },
	}, logFiles, logging.NewNopLogger())
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, filepath.Join(dir, "sleep_2024-05-06_07-08-09.log"), h.LogFile())
	assert.Greater(t, h.PID(), 0)

	status, err := h.TryWait()
	require.NoError(t, err)
	assert.Nil(t, status, "sleep 1 should still be running right after spawn")

	status = waitForExit(t, h)
	assert.True(t, status.Success)
	assert.Equal(t, 0, status.Code)

	// cached result, same answer on every call
	again, err := h.TryWait()
	require.NoError(t, err)
	assert.Equal(t, status, again)
}

func TestSpawn_RedirectsBothStreams(t *testing.T) {
	logFiles, _ := newTestLogFiles(t)

	h, err := Spawn(SpawnConfig{
		Command: []string{"sh", "-c", "echo to-stdout; echo to-stderr 1>&2; exit 3"},
	}, logFiles, logging.NewNopLogger())
	require.NoError(t, err)

	status := waitForExit(t, h)
	require.NoError(t, h.Close())

	assert.False(t, status.Success)
	assert.Equal(t, 3, status.Code)
	assert.Contains(t, status.String(), "3")

	content, err := os.ReadFile(h.LogFile())
	require.NoError(t, err)
	assert.Contains(t, string(content), "to-stdout\n")
	assert.Contains(t, string(content), "to-stderr\n")
}

func TestSpawn_TruncatesExistingLogFile(t *testing.T) {
	logFiles, dir := newTestLogFiles(t)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, logfiles.LogFileName("true", at))
	require.NoError(t, os.WriteFile(path, []byte("stale content from an earlier run"), 0644))

	h, err := Spawn(SpawnConfig{Command: []string{"true"}, Now: func() time.Time { return at }}, logFiles, logging.NewNopLogger())
	require.NoError(t, err)
	waitForExit(t, h)
	require.NoError(t, h.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestSpawn_ProgramNotFound(t *testing.T) {
	logFiles, dir := newTestLogFiles(t)

	h, err := Spawn(SpawnConfig{Command: []string{"hsu-tray-no-such-program-xyz"}}, logFiles, logging.NewNopLogger())
	require.Error(t, err)
	assert.Nil(t, h)
	assert.True(t, errors.IsSpawnError(err))

	// the log file is created before the spawn attempt
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSpawn_LogDirectoryFailure(t *testing.T) {
	h, err := Spawn(SpawnConfig{Command: []string{"true"}}, failingLogFiles{}, logging.NewNopLogger())
	require.Error(t, err)
	assert.Nil(t, h)
	assert.True(t, errors.IsSpawnError(err))
}

func TestSpawn_InvalidCommand(t *testing.T) {
	logFiles, _ := newTestLogFiles(t)

	_, err := Spawn(SpawnConfig{}, logFiles, logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsSpawnError(err))
	assert.True(t, errors.IsValidationError(err))
}

func TestHandle_Kill(t *testing.T) {
	logFiles, _ := newTestLogFiles(t)

	h, err := Spawn(SpawnConfig{Command: []string{"sleep", "30"}}, logFiles, logging.NewNopLogger())
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Kill())

	status := waitForExit(t, h)
	assert.False(t, status.Success)
	assert.Equal(t, -1, status.Code)
	assert.Contains(t, status.String(), "killed")
}

func TestHandle_KillReachesProcessGroup(t *testing.T) {
	logFiles, _ := newTestLogFiles(t)

	// the shell waits on a grandchild; killing only the shell would orphan it
	h, err := Spawn(SpawnConfig{Command: []string{"sh", "-c", "sleep 30 & wait"}}, logFiles, logging.NewNopLogger())
	require.NoError(t, err)
	defer h.Close()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, h.Kill())
	status := waitForExit(t, h)
	assert.False(t, status.Success)
}

func TestHandle_KillAfterExitIsNoop(t *testing.T) {
	logFiles, _ := newTestLogFiles(t)

	h, err := Spawn(SpawnConfig{Command: []string{"true"}}, logFiles, logging.NewNopLogger())
	require.NoError(t, err)
	defer h.Close()

	waitForExit(t, h)
	assert.NoError(t, h.Kill())
}

func TestHandle_CloseIsIdempotent(t *testing.T) {
	logFiles, _ := newTestLogFiles(t)

	h, err := Spawn(SpawnConfig{Command: []string{"true"}}, logFiles, logging.NewNopLogger())
	require.NoError(t, err)
	waitForExit(t, h)

	assert.NoError(t, h.Close())
	assert.NoError(t, h.Close())
}
