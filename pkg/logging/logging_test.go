package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedLine struct {
	level string
	text  string
}

func captureFuncs(lines *[]capturedLine) LogFuncs {
	capture := func(level string) LogFunc {
		return func(format string, args ...interface{}) {
			*lines = append(*lines, capturedLine{level: level, text: fmt.Sprintf(format, args...)})
		}
	}
	return LogFuncs{
		Debugf: capture("debug"),
		Infof:  capture("info"),
		Warnf:  capture("warn"),
		Errorf: capture("error"),
	}
}

func TestLogger_PrefixAndLevels(t *testing.T) {
	var lines []capturedLine
	logger := NewLogger("module: hsu-tray , ", captureFuncs(&lines))

	logger.Debugf("menu event: %s", "Kill")
	logger.Infof("spawned pid %d", 42)
	logger.Warnf("warn")
	logger.Errorf("error: %v", "boom")
	logger.LogLevelf(LogLevelInfo, "via level")

	require.Len(t, lines, 5)
	assert.Equal(t, capturedLine{"debug", "module: hsu-tray , menu event: Kill"}, lines[0])
	assert.Equal(t, capturedLine{"info", "module: hsu-tray , spawned pid 42"}, lines[1])
	assert.Equal(t, "warn", lines[2].level)
	assert.Equal(t, capturedLine{"error", "module: hsu-tray , error: boom"}, lines[3])
	assert.Equal(t, "info", lines[4].level)
}

func TestLeveledLogger_DropsBelowMinimum(t *testing.T) {
	var lines []capturedLine
	logger := NewLeveledLogger("", LogLevelWarn, captureFuncs(&lines))

	logger.Debugf("debug")
	logger.Infof("info")
	logger.Warnf("warn")
	logger.Errorf("error")

	require.Len(t, lines, 2)
	assert.Equal(t, "warn", lines[0].level)
	assert.Equal(t, "error", lines[1].level)
}

func TestLogger_LogLevelfOverride(t *testing.T) {
	var levels []int
	logger := NewLogger("", LogFuncs{
		LogLevelf: func(level int, format string, args ...interface{}) {
			levels = append(levels, level)
		},
	})

	logger.Debugf("a")
	logger.Errorf("b")

	assert.Equal(t, []int{LogLevelDebug, LogLevelError}, levels)
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	assert.NotPanics(t, func() {
		logger.Infof("nothing %d", 1)
		logger.Errorf("nothing")
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"debug", "debug", LogLevelDebug, false},
		{"upper case", "INFO", LogLevelInfo, false},
		{"empty defaults to info", "", LogLevelInfo, false},
		{"warning alias", "warning", LogLevelWarn, false},
		{"error", "error", LogLevelError, false},
		{"unknown", "verbose", LogLevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestZapBackend_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.log")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0644))

	config := DefaultZapConfig(path)
	config.Level = "debug"
	config.Fields = map[string]string{"run_id": "test-run"}

	backend, err := NewZapBackend(config)
	require.NoError(t, err)

	logger := NewLogger("", backend.LogFuncs())
	logger.Infof("Spawning command: %s", "sleep")
	logger.Debugf("output piped to: %s", "/tmp/sleep.log")
	require.NoError(t, backend.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "previous run")
	assert.Contains(t, text, "Spawning command: sleep")
	assert.Contains(t, text, "output piped to: /tmp/sleep.log")
	assert.Contains(t, text, "test-run")
}

func TestZapBackend_InvalidLevel(t *testing.T) {
	config := DefaultZapConfig("stdout")
	config.Level = "chatty"

	_, err := NewZapBackend(config)
	assert.Error(t, err)
}
