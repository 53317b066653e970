package safewrite_test

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metafunctor/mf/internal/safewrite"
	"github.com/metafunctor/mf/pkg/errors"
)

func seedStore(t *testing.T, dir, name string, versions int) (string, string) {
	t.Helper()
	path := filepath.Join(dir, name+".json")
	backupDir := filepath.Join(dir, "backups")
	for v := 1; v <= versions; v++ {
		_, err := safewrite.Write(path, map[string]any{"v": v}, safewrite.Options{
			BackupDir:    backupDir,
			CreateBackup: true,
			Retention:    safewrite.DefaultRetention(),
		})
		require.NoError(t, err)
	}
	return path, backupDir
}

func TestListBackupsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	_, backupDir := seedStore(t, dir, "packages_db", 4)

	backups, err := safewrite.ListBackups(backupDir, "packages_db")
	require.NoError(t, err)
	require.Len(t, backups, 3)

	for i := 1; i < len(backups); i++ {
		assert.True(t, backups[i-1].Timestamp.After(backups[i].Timestamp),
			"backups must be sorted newest first")
	}
}

func TestBackupFilenamesSortChronologically(t *testing.T) {
	dir := t.TempDir()
	_, backupDir := seedStore(t, dir, "paper_db", 4)

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.True(t, sort.StringsAreSorted(names),
		"lexicographic order must equal chronological order")
}

func TestListBackupsFiltersByStore(t *testing.T) {
	dir := t.TempDir()
	seedStore(t, dir, "packages_db", 3)
	seedStore(t, dir, "paper_db", 2)

	backups, err := safewrite.ListBackups(filepath.Join(dir, "backups"), "paper_db")
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, "paper_db", backups[0].Store)

	all, err := safewrite.ListBackups(filepath.Join(dir, "backups"), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListBackupsMissingDir(t *testing.T) {
	backups, err := safewrite.ListBackups(filepath.Join(t.TempDir(), "nope"), "x")
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestLatestBackup(t *testing.T) {
	dir := t.TempDir()
	_, backupDir := seedStore(t, dir, "series_db", 3)

	latest, err := safewrite.LatestBackup(backupDir, "series_db")
	require.NoError(t, err)
	require.NotNil(t, latest)

	all, err := safewrite.ListBackups(backupDir, "series_db")
	require.NoError(t, err)
	assert.Equal(t, all[0].Path, latest.Path)

	none, err := safewrite.LatestBackup(backupDir, "absent_db")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRotateMinKeepFloor(t *testing.T) {
	dir := t.TempDir()
	_, backupDir := seedStore(t, dir, "packages_db", 5)

	// Age cutoff of a nanosecond makes every backup stale, but the
	// MinKeep floor holds.
	removed, err := safewrite.Rotate(backupDir, "packages_db", safewrite.Retention{
		KeepCount: 0,
		MaxAge:    1,
		MinKeep:   2,
	})
	require.NoError(t, err)
	assert.Len(t, removed, 2)

	remaining, err := safewrite.ListBackups(backupDir, "packages_db")
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestRollbackRestoresHistoricalState(t *testing.T) {
	dir := t.TempDir()
	path, backupDir := seedStore(t, dir, "packages_db", 3)

	// Latest backup holds v=2.
	restored, err := safewrite.Rollback(path, backupDir, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, restored)
	assert.EqualValues(t, 2, readJSON(t, path)["v"])

	// Rollback backed up the pre-rollback state (v=3) first.
	latest, err := safewrite.LatestBackup(backupDir, "packages_db")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.EqualValues(t, 3, readJSON(t, latest.Path)["v"])
}

func TestRollbackErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty_db.json")

	_, err := safewrite.Rollback(path, filepath.Join(dir, "backups"), 0)
	assert.True(t, errors.IsNotFound(err))

	path2, backupDir := seedStore(t, dir, "packages_db", 2)
	_, err = safewrite.Rollback(path2, backupDir, 5)
	assert.True(t, errors.IsValidationError(err))
}
