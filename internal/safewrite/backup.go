package safewrite

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/agentstation/utc"

	"github.com/metafunctor/mf/pkg/errors"
)

// timestampLayout is nanosecond-resolution so that two saves inside the
// same second still produce distinct, lexicographically ordered names.
const timestampLayout = "20060102T150405.000000000"

// backupPattern matches "<store>.<timestamp>.json" backup filenames.
var backupPattern = regexp.MustCompile(`^(.+)\.(\d{8}T\d{6}\.\d{9})\.json$`)

// BackupInfo describes one backup file.
type BackupInfo struct {
	Path      string
	Store     string
	Timestamp utc.Time
	Size      int64
}

// AgeDays returns the backup's age in days.
func (b BackupInfo) AgeDays() float64 {
	return time.Since(b.Timestamp.Time).Hours() / 24
}

// CreateBackup copies path into backupDir under a timestamped name and
// returns the backup's path.
func CreateBackup(path, backupDir string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", errors.WrapIO("open", path, err)
	}

	ts := utc.Now().Format(timestampLayout)
	name := fmt.Sprintf("%s.%s.json", storeName(path), ts)
	dst := filepath.Join(backupDir, name)

	if err := copyFile(path, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// ListBackups returns the backups for a store, newest first. An empty
// store name lists backups for every store in the directory.
func ListBackups(dir, store string) ([]BackupInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapIO("read", dir, err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := backupPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		if store != "" && m[1] != store {
			continue
		}
		ts, err := time.Parse(timestampLayout, m[2])
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      filepath.Join(dir, entry.Name()),
			Store:     m[1],
			Timestamp: utc.Time{Time: ts.UTC()},
			Size:      info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// LatestBackup returns the most recent backup for a store, or nil.
func LatestBackup(dir, store string) (*BackupInfo, error) {
	backups, err := ListBackups(dir, store)
	if err != nil {
		return nil, err
	}
	if len(backups) == 0 {
		return nil, nil
	}
	return &backups[0], nil
}

// Rotate removes old backups for a store per the retention policy and
// returns the removed paths. The newest KeepCount are always kept; the
// MinKeep floor holds regardless of age.
func Rotate(dir, store string, r Retention) ([]string, error) {
	backups, err := ListBackups(dir, store)
	if err != nil {
		return nil, err
	}

	floor := r.KeepCount
	if r.MinKeep > floor {
		floor = r.MinKeep
	}

	var cutoff utc.Time
	if r.MaxAge > 0 {
		cutoff = utc.New(time.Now().Add(-r.MaxAge))
	}

	var removed []string
	for i, b := range backups {
		if i < floor {
			continue
		}
		// No age rule: anything beyond the count goes.
		if r.MaxAge > 0 && b.Timestamp.After(cutoff) {
			continue
		}
		if err := os.Remove(b.Path); err != nil {
			return removed, errors.WrapIO("delete", b.Path, err)
		}
		removed = append(removed, b.Path)
	}
	return removed, nil
}

// Rollback restores dbPath from its index-th most recent backup
// (0 = latest). The current state is backed up first so a rollback is
// itself recoverable. Returns the path of the backup restored.
func Rollback(dbPath, backupDir string, index int) (string, error) {
	store := storeName(dbPath)
	backups, err := ListBackups(backupDir, store)
	if err != nil {
		return "", err
	}
	if len(backups) == 0 {
		return "", errors.NewNotFoundError("backup", store)
	}
	if index < 0 || index >= len(backups) {
		return "", errors.NewValidationError("index", index,
			fmt.Sprintf("backup index %d out of range (only %d backups)", index, len(backups)))
	}

	if _, err := os.Stat(dbPath); err == nil {
		if _, err := CreateBackup(dbPath, backupDir); err != nil {
			return "", errors.NewBackupError(store, backupDir, err)
		}
	}

	restore := backups[index]
	if err := copyFile(restore.Path, dbPath); err != nil {
		return "", err
	}
	return restore.Path, nil
}
