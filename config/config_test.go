package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.GridEdge)
	assert.Equal(t, 90.0, cfg.Threshold)
	assert.GreaterOrEqual(t, cfg.MaxWorkers, 1)
	assert.NotEmpty(t, cfg.Database)
	assert.False(t, cfg.Debug)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dupfinder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threshold: 95.5\ngridEdge: 16\ndebug: true\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 95.5, cfg.Threshold)
	assert.Equal(t, 16, cfg.GridEdge)
	assert.True(t, cfg.Debug)
	assert.GreaterOrEqual(t, cfg.MaxWorkers, 1, "unset keys keep their defaults")
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dupfinder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threshold: 250\n"), 0644))
	_, err := LoadConfig(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("gridEdge: 1\n"), 0644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}
