// Package safewrite provides durable, backed-up persistence of JSON
// blobs. Writes go through a temp file in the target directory followed
// by an atomic rename, so a reader never observes a partial file. An
// optional timestamped backup of the previous contents is taken before
// anything is written, and old backups are rotated by count and age.
package safewrite

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/metafunctor/mf/pkg/errors"
	"github.com/metafunctor/mf/pkg/logging"
)

// Default retention settings.
const (
	DefaultKeepCount = 10
	DefaultMaxAge    = 30 * 24 * time.Hour
	DefaultMinKeep   = 1
)

// Retention bounds how many and how old backups are kept.
type Retention struct {
	// KeepCount is the number of most recent backups always kept.
	KeepCount int

	// MaxAge removes backups older than this once KeepCount is
	// satisfied. Zero means no age rule: anything beyond KeepCount
	// is removed.
	MaxAge time.Duration

	// MinKeep is the floor on retained backups, regardless of age.
	MinKeep int
}

// DefaultRetention returns the standard retention policy.
func DefaultRetention() Retention {
	return Retention{
		KeepCount: DefaultKeepCount,
		MaxAge:    DefaultMaxAge,
		MinKeep:   DefaultMinKeep,
	}
}

// Options configures a single Write call.
type Options struct {
	// BackupDir is where backups are stored. Defaults to a "backups"
	// directory next to the target file.
	BackupDir string

	// CreateBackup controls whether the existing file is backed up
	// before being replaced.
	CreateBackup bool

	// Retention is the rotation policy applied after a successful write.
	Retention Retention

	// Logger receives rotation warnings. Defaults to the nop logger.
	Logger *zerolog.Logger
}

func (o *Options) logger() *zerolog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return &logging.Nop
}

func (o *Options) backupDir(path string) string {
	if o.BackupDir != "" {
		return o.BackupDir
	}
	return filepath.Join(filepath.Dir(path), "backups")
}

// storeName derives the logical store name from a file path:
// ".mf/packages_db.json" -> "packages_db".
func storeName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Write persists data as indented JSON at path.
//
// Order of operations: back up the existing file (abort on failure, no
// loss of recoverability), marshal, write a temp file in the target's
// directory, atomically rename it over path, then rotate old backups.
// A crash at any point before the rename leaves the original intact.
//
// Returns the path of the backup created, or "" if none was.
func Write(path string, data any, opts Options) (string, error) {
	store := storeName(path)

	backupPath := ""
	if opts.CreateBackup {
		if _, err := os.Stat(path); err == nil {
			bp, err := CreateBackup(path, opts.backupDir(path))
			if err != nil {
				return "", errors.NewBackupError(store, opts.backupDir(path), err)
			}
			backupPath = bp
		}
	}

	blob, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return backupPath, errors.NewWriteError(path, err)
	}
	blob = append(blob, '\n')

	if err := writeAtomic(path, blob); err != nil {
		return backupPath, err
	}

	if backupPath != "" {
		removed, err := Rotate(opts.backupDir(path), store, opts.Retention)
		if err != nil {
			opts.logger().Warn().Err(err).Str("store", store).Msg("backup rotation failed")
		} else if len(removed) > 0 {
			opts.logger().Debug().Str("store", store).Int("removed", len(removed)).Msg("rotated backups")
		}
	}

	return backupPath, nil
}

// writeAtomic writes blob to a temp file in path's directory and renames
// it over path. The temp file is removed on any failure.
func writeAtomic(path string, blob []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.NewWriteError(path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewWriteError(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.NewWriteError(path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return errors.NewWriteError(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.NewWriteError(path, err)
	}
	return nil
}

// copyFile copies src to dst, creating dst's directory as needed.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.WrapIO("create", filepath.Dir(dst), err)
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.WrapIO("open", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.WrapIO("create", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return errors.WrapIO("write", dst, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return errors.WrapIO("close", dst, err)
	}
	return nil
}
