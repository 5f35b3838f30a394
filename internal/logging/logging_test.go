package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "paddock.log")

	logger, err := New(path, "debug")
	require.NoError(t, err)
	logger.Debug("tab selected", zap.String("label", "standings"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"tab selected"`)
	assert.Contains(t, string(data), `"label":"standings"`)
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paddock.log")

	logger, err := New(path, "warn")
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New("", "loud")
	assert.Error(t, err)
}
