package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageCommandReportsOrphans(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("POSTGRES_DSN", "sqlite://"+filepath.Join(dir, "catalog.db"))
	t.Setenv("MEDIA_ROOT", dir)
	t.Setenv("STORAGE_BACKEND", "local")
	t.Setenv("LOG_LEVEL", "error")

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"migrate"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "schema is up to date")

	assert.DirExists(t, filepath.Join(dir, "music", "vocals"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "music", "beats", "stray.wav"), []byte("x"), 0644))

	out.Reset()
	rootCmd.SetArgs([]string{"storage", "--orphans", "--min-age", "0s"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "beats/stray.wav")
	assert.Contains(t, out.String(), "1 orphaned files")

	out.Reset()
	rootCmd.SetArgs([]string{"storage", "--prune", "--min-age", "0s"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "removed 1 files")
	assert.NoFileExists(t, filepath.Join(dir, "music", "beats", "stray.wav"))

	out.Reset()
	rootCmd.SetArgs([]string{"storage"})
	storageOrphans, storagePrune = false, false
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "beats")
	assert.Contains(t, out.String(), "0 files")
}
