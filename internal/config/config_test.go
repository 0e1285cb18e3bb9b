package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSONDefaults(t *testing.T) {
	path := writeFile(t, "config.json", `{"engine.class.parallelism": "4"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.ClassParallelism())
	assert.Equal(t, 1, cfg.ArgumentParallelism())
	assert.False(t, cfg.TestClassShuffle())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "engine.class.parallelism: \"2\"\nengine.test.class.shuffle: \"true\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.ClassParallelism())
	assert.True(t, cfg.TestClassShuffle())
}

func TestLoadRejectsOutOfRangeParallelism(t *testing.T) {
	path := writeFile(t, "config.json", `{"engine.class.parallelism": "0"}`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsNonStringValue(t *testing.T) {
	path := writeFile(t, "config.json", `{"engine.class.parallelism": 4}`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestFiltersFilenameDefaultsEmpty(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, "", cfg.FiltersFilename())
}
