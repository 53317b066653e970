// Package store provides the generic file-backed document store behind
// every mf database. A store is a named mapping from slug to entry,
// persisted as one JSON object per file. The databases are truth;
// generated pages are derived from them, so saves are atomic and backed
// up and corrupt files are surfaced rather than silently repaired.
package store

import (
	"context"
	"encoding/json"
	"os"
	"sort"

	"github.com/rs/zerolog"

	"github.com/metafunctor/mf/internal/safewrite"
	"github.com/metafunctor/mf/pkg/errors"
	"github.com/metafunctor/mf/pkg/logging"
)

// Reserved top-level keys hold store metadata, never entries.
const (
	CommentKey       = "_comment"
	SchemaVersionKey = "_schema_version"
	ExampleKey       = "_example"
)

var reservedKeys = map[string]struct{}{
	CommentKey:       {},
	SchemaVersionKey: {},
	ExampleKey:       {},
}

// IsReserved reports whether key is a reserved metadata key.
func IsReserved(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}

// Entry is one record in a store, keyed by slug. Its shape is governed
// by the owning domain's field schema.
type Entry map[string]any

// Item pairs a slug with its entry for iteration and search results.
type Item struct {
	Slug  string
	Entry Entry
}

// Store is a named, file-backed document collection.
type Store struct {
	name         string
	path         string
	backupDir    string
	defaultMeta  map[string]any
	searchFields []string
	retention    safewrite.Retention
	logger       *zerolog.Logger

	data   map[string]any
	loaded bool
}

// New creates a store for the JSON file at path. The store is not
// usable until Load is called.
func New(name, path string, opts ...Option) *Store {
	s := &Store{
		name:         name,
		path:         path,
		searchFields: []string{"name", "title", "description", "abstract"},
		retention:    safewrite.DefaultRetention(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the store's logical name (e.g. "packages_db").
func (s *Store) Name() string { return s.name }

// Path returns the store's file path.
func (s *Store) Path() string { return s.path }

func (s *Store) log(ctx context.Context) *zerolog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logging.Ctx(ctx)
}

// Load reads the store's file. An absent file yields an empty store
// seeded with the default metadata; a file that exists but does not
// parse is fatal and is never auto-repaired, so the operator can
// restore from a backup instead of losing manual overrides.
func (s *Store) Load() error {
	blob, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]any, len(s.defaultMeta))
			for k, v := range s.defaultMeta {
				s.data[k] = v
			}
			s.loaded = true
			return nil
		}
		return errors.WrapIO("read", s.path, err)
	}

	var data map[string]any
	if err := json.Unmarshal(blob, &data); err != nil {
		return errors.WrapParse("json", s.path, err)
	}
	// "null" unmarshals into a nil map without error; the file exists,
	// so its contents must be an object.
	if data == nil {
		return errors.NewParseError("json", s.path, "store file is not a JSON object", nil)
	}

	s.data = data
	s.loaded = true
	return nil
}

// Save persists the store via an atomic, backed-up write. Reserved
// metadata keys missing from the store are re-seeded from the default
// metadata first. Keys are written in sorted order.
func (s *Store) Save(ctx context.Context, opts ...SaveOption) error {
	if !s.loaded {
		return errors.ErrNotLoaded
	}

	cfg := saveConfig{backup: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	for k, v := range s.defaultMeta {
		if _, ok := s.data[k]; !ok {
			s.data[k] = v
		}
	}

	backup, err := safewrite.Write(s.path, s.data, safewrite.Options{
		BackupDir:    s.backupDir,
		CreateBackup: cfg.backup,
		Retention:    s.retention,
		Logger:       s.log(ctx),
	})
	if err != nil {
		return err
	}

	evt := s.log(ctx).Debug().Str("store", s.name).Int("entries", s.Len())
	if backup != "" {
		evt = evt.Str("backup", backup)
	}
	evt.Msg("saved")
	return nil
}

// Get returns the entry for slug. Reserved keys are never entries.
// The returned map is the live entry; mutations become visible to
// other readers immediately and durable on Save.
func (s *Store) Get(slug string) (Entry, bool) {
	if IsReserved(slug) {
		return nil, false
	}
	raw, ok := s.data[slug]
	if !ok {
		return nil, false
	}
	entry, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	return Entry(entry), true
}

// GetOrCreate returns the entry for slug, creating an empty one if
// absent.
func (s *Store) GetOrCreate(slug string) Entry {
	if entry, ok := s.Get(slug); ok {
		return entry
	}
	entry := make(map[string]any)
	s.data[slug] = entry
	return entry
}

// Set upserts the entry for slug, overwriting any previous value.
func (s *Store) Set(slug string, entry Entry) error {
	if IsReserved(slug) {
		return errors.ErrReservedKey
	}
	s.data[slug] = map[string]any(entry)
	return nil
}

// Update merges partial into the existing entry for slug. It fails
// with a not-found error when the slug is absent.
func (s *Store) Update(slug string, partial Entry) (Entry, error) {
	entry, ok := s.Get(slug)
	if !ok {
		return nil, errors.NewNotFoundError(s.name+" entry", slug)
	}
	for k, v := range partial {
		entry[k] = v
	}
	return entry, nil
}

// Delete removes the entry for slug. A missing slug is not an error;
// Delete just returns false.
func (s *Store) Delete(slug string) bool {
	if IsReserved(slug) {
		return false
	}
	if _, ok := s.data[slug]; !ok {
		return false
	}
	delete(s.data, slug)
	return true
}

// Has reports whether an entry exists for slug.
func (s *Store) Has(slug string) bool {
	_, ok := s.Get(slug)
	return ok
}

// Len returns the number of entries, excluding reserved keys.
func (s *Store) Len() int {
	n := 0
	for k := range s.data {
		if !IsReserved(k) {
			n++
		}
	}
	return n
}

// Slugs returns all entry slugs in sorted order.
func (s *Store) Slugs() []string {
	slugs := make([]string, 0, len(s.data))
	for k := range s.data {
		if !IsReserved(k) {
			slugs = append(slugs, k)
		}
	}
	sort.Strings(slugs)
	return slugs
}

// Items returns all (slug, entry) pairs in slug order.
func (s *Store) Items() []Item {
	slugs := s.Slugs()
	items := make([]Item, 0, len(slugs))
	for _, slug := range slugs {
		if entry, ok := s.Get(slug); ok {
			items = append(items, Item{Slug: slug, Entry: entry})
		}
	}
	return items
}

// SchemaVersion returns the store's _schema_version metadata as a
// string, or "" if unset.
func (s *Store) SchemaVersion() string {
	switch v := s.data[SchemaVersionKey].(type) {
	case string:
		return v
	case float64:
		return json.Number(jsonNumber(v)).String()
	default:
		return ""
	}
}

func jsonNumber(f float64) string {
	blob, _ := json.Marshal(f)
	return string(blob)
}
