package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesJSONToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "folio.log")
	logger, err := New("info", file, false)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("audit saved", zap.String("id", "1712345678901"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "audit saved", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "1712345678901", entry["id"])
}

func TestNewVerboseEnablesDebug(t *testing.T) {
	file := filepath.Join(t.TempDir(), "folio.log")
	logger, err := New("warn", file, true)
	require.NoError(t, err)

	logger.Debug("visible")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible")
}

func TestNewBadLevel(t *testing.T) {
	_, err := New("loud", filepath.Join(t.TempDir(), "folio.log"), false)
	assert.ErrorContains(t, err, "parse log level")
}

func TestNewEmptyFileIsNop(t *testing.T) {
	logger, err := New("info", "", false)
	require.NoError(t, err)
	logger.Info("dropped")
}
