package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tick makes successive backups get distinct timestamps.
func tick(t *testing.T) {
	t.Helper()
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	n := 0
	now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	t.Cleanup(func() { now = time.Now })
}

func TestBackupFile_MissingFileIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	backup, err := BackupFile(path)

	require.NoError(t, err)
	assert.Empty(t, backup)
}

func TestBackupFile_CopiesContent(t *testing.T) {
	// Given: an existing config
	tick(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o644))

	// When: backing it up
	backup, err := BackupFile(path)

	// Then: the copy sits next to it with the same content
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(path), filepath.Dir(backup))
	assert.Contains(t, filepath.Base(backup), "config.yaml"+BackupSuffix+".")
	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "version: 1\n", string(data))
}

func TestBackupFile_KeepsNewestMaxBackups(t *testing.T) {
	tick(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o644))

	var made []string
	for range MaxBackups + 2 {
		b, err := BackupFile(path)
		require.NoError(t, err)
		made = append(made, b)
	}

	backups, err := ListBackups(path)
	require.NoError(t, err)
	require.Len(t, backups, MaxBackups)
	assert.Equal(t, made[len(made)-1], backups[0])
	assert.NotContains(t, backups, made[0])
}

func TestRestoreBackup(t *testing.T) {
	// Given: a backup of an older config and a newer current file
	tick(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))
	backup, err := BackupFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("new\n"), 0o644))

	// When: restoring
	require.NoError(t, RestoreBackup(backup, path))

	// Then: the old content is back and the new one was saved
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(data))
	backups, err := ListBackups(path)
	require.NoError(t, err)
	assert.Len(t, backups, 2)
}

func TestRestoreBackup_MissingBackup(t *testing.T) {
	dir := t.TempDir()
	err := RestoreBackup(filepath.Join(dir, "nope.bak"), filepath.Join(dir, "config.yaml"))
	require.Error(t, err)
}
