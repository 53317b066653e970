// Package series binds the series database. Besides curated fields,
// each series entry carries a _sync_state dict tracking per-post
// source and target hashes so generation can skip unchanged posts.
package series

import (
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/metafunctor/mf/internal/paths"
	"github.com/metafunctor/mf/pkg/errors"
	"github.com/metafunctor/mf/pkg/fields"
	"github.com/metafunctor/mf/pkg/store"
)

// Section is the content tree section series posts render into.
const Section = "series"

// StoreName is the logical store name.
const StoreName = "series_db"

// SyncStateKey is the per-entry dict tracking post generation state.
// The leading underscore keeps it out of the curated field set.
const SyncStateKey = "_sync_state"

// Lifecycle states a series can be in.
var StatusChoices = []string{"active", "completed", "archived"}

// Schema declares the series fields. SyncStateKey is managed through
// the functions below, not through the field engine.
func Schema() fields.Schema {
	return fields.Schema{
		"title":            {Type: fields.TypeString, Description: "Display title"},
		"description":      {Type: fields.TypeString, Description: "Series description"},
		"status":           {Type: fields.TypeString, Description: "Lifecycle state", Choices: StatusChoices},
		"featured":         {Type: fields.TypeBool, Description: "Show on the front page", Default: false},
		"tags":             {Type: fields.TypeStringList, Description: "Search tags"},
		"color":            {Type: fields.TypeString, Description: "Accent color"},
		"icon":             {Type: fields.TypeString, Description: "Icon name"},
		"created_date":     {Type: fields.TypeString, Description: "Creation date (YYYY-MM-DD)"},
		"related_projects": {Type: fields.TypeStringList, Description: "Related project slugs"},
		"associations":     {Type: fields.TypeDict, Description: "Named associations to other content"},
	}
}

func defaultMeta() map[string]any {
	return map[string]any{
		store.CommentKey:       "Series metadata and per-post sync state.",
		store.SchemaVersionKey: "1.0",
		store.ExampleKey: map[string]any{
			"title":  "An Example Series",
			"status": "active",
		},
	}
}

// Open creates and loads the series store.
func Open(p *paths.Paths, logger *zerolog.Logger) (*store.Store, error) {
	s := store.New(StoreName, p.SeriesDB(),
		store.WithBackupDir(p.BackupDir("series")),
		store.WithDefaultMeta(defaultMeta()),
		store.WithSearchFields("title", "description"),
		store.WithLogger(logger),
	)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// PostState is the sync record for one post in a series.
type PostState struct {
	SourceHash string
	TargetHash string
	LastSynced string
}

// SyncState returns the per-post sync records of one series entry.
func SyncState(entry store.Entry) map[string]PostState {
	raw, ok := entry[SyncStateKey].(map[string]any)
	if !ok {
		return map[string]PostState{}
	}
	out := make(map[string]PostState, len(raw))
	for post, v := range raw {
		rec, ok := v.(map[string]any)
		if !ok {
			continue
		}
		state := PostState{}
		state.SourceHash, _ = rec["source_hash"].(string)
		state.TargetHash, _ = rec["target_hash"].(string)
		state.LastSynced, _ = rec["last_synced"].(string)
		out[post] = state
	}
	return out
}

// SetPostState records the sync state for one post of a series.
func SetPostState(s *store.Store, slug, post string, state PostState) error {
	entry, ok := s.Get(slug)
	if !ok {
		return errors.NewNotFoundError("series", slug)
	}
	raw, ok := entry[SyncStateKey].(map[string]any)
	if !ok {
		raw = make(map[string]any)
		entry[SyncStateKey] = raw
	}
	if state.LastSynced == "" {
		state.LastSynced = utc.Now().Time.Format(time.RFC3339)
	}
	raw[post] = map[string]any{
		"source_hash": state.SourceHash,
		"target_hash": state.TargetHash,
		"last_synced": state.LastSynced,
	}
	return nil
}

// ClearPostState drops the sync record for one post. Clearing an
// absent record is a no-op.
func ClearPostState(s *store.Store, slug, post string) {
	entry, ok := s.Get(slug)
	if !ok {
		return
	}
	if raw, ok := entry[SyncStateKey].(map[string]any); ok {
		delete(raw, post)
		if len(raw) == 0 {
			delete(entry, SyncStateKey)
		}
	}
}
