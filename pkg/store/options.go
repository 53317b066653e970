package store

import (
	"github.com/rs/zerolog"

	"github.com/metafunctor/mf/internal/safewrite"
)

// Option configures a Store.
type Option func(*Store)

// WithBackupDir sets the directory where save backups are written.
func WithBackupDir(dir string) Option {
	return func(s *Store) {
		s.backupDir = dir
	}
}

// WithDefaultMeta sets the metadata seeded into empty stores and
// re-added on save when missing (_comment, _schema_version, _example).
func WithDefaultMeta(meta map[string]any) Option {
	return func(s *Store) {
		s.defaultMeta = meta
	}
}

// WithSearchFields sets the fields text search looks at.
func WithSearchFields(fields ...string) Option {
	return func(s *Store) {
		s.searchFields = fields
	}
}

// WithRetention sets the backup rotation policy.
func WithRetention(r safewrite.Retention) Option {
	return func(s *Store) {
		s.retention = r
	}
}

// WithLogger sets the logger used by store operations.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

type saveConfig struct {
	backup bool
}

// SaveOption configures a single Save call.
type SaveOption func(*saveConfig)

// NoBackup skips the pre-write backup. Used for regenerable stores
// like the projects cache.
func NoBackup() SaveOption {
	return func(c *saveConfig) {
		c.backup = false
	}
}
