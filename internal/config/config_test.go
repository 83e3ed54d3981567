package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/lox/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "lox.config.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadValidConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `{"maxCallDepth": 64, "strictNumericFormatting": false}`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MaxCallDepth)
	assert.False(t, cfg.StrictNumericFormatting)
}

func TestLoadRejectsUnknownProperty(t *testing.T) {
	path := writeConfig(t, `{"notARealSetting": true}`)
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsOutOfRangeMaxCallDepth(t *testing.T) {
	path := writeConfig(t, `{"maxCallDepth": 0}`)
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestDefaultEnablesClock(t *testing.T) {
	cfg := config.Default()
	assert.True(t, cfg.Natives["clock"])
}
