package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "docker-compose.yml")

	require.NoError(t, WriteFileAtomic(path, []byte("services: {}\n"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "services: {}\n", string(data))

	// No temporary file left behind
	assert.NoFileExists(t, path+".tmp")
}

func TestWriteFileAtomic_Overwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	require.NoError(t, WriteFileAtomic(path, []byte("new"), 0600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lavalink", "plugins")

	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir)) // idempotent

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
