// Package projects binds the projects databases: curated overrides in
// projects_db.json and a regenerable GitHub metadata cache. The cache
// is derived data, so it saves without backups and the integrity
// checker may delete its rows freely.
package projects

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/metafunctor/mf/internal/paths"
	"github.com/metafunctor/mf/internal/registries/github"
	"github.com/metafunctor/mf/pkg/errors"
	"github.com/metafunctor/mf/pkg/fields"
	"github.com/metafunctor/mf/pkg/store"
)

// Section is the content tree section projects render into.
const Section = "projects"

// Store names for the overrides database and the cache.
const (
	StoreName = "projects_db"
	CacheName = "projects_cache"
)

// Maturity states a project can declare.
var MaturityChoices = []string{"experimental", "beta", "stable", "archived"}

// Schema declares the projects override fields.
func Schema() fields.Schema {
	minStars, maxStars := fields.IntRange(0, 5)
	return fields.Schema{
		"title":          {Type: fields.TypeString, Description: "Display title"},
		"abstract":       {Type: fields.TypeString, Description: "Short description"},
		"category":       {Type: fields.TypeString, Description: "Topic category"},
		"maturity":       {Type: fields.TypeString, Description: "Lifecycle state", Choices: MaturityChoices},
		"repo":           {Type: fields.TypeString, Description: "GitHub repository (owner/name)"},
		"stars":          {Type: fields.TypeInt, Description: "Editorial rating", Min: minStars, Max: maxStars},
		"featured":       {Type: fields.TypeBool, Description: "Show on the front page", Default: false},
		"hide":           {Type: fields.TypeBool, Description: "Exclude from generated pages", Default: false},
		"tags":           {Type: fields.TypeStringList, Description: "Search tags"},
		"related_posts":  {Type: fields.TypeStringList, Description: "Related post slugs"},
		"related_papers": {Type: fields.TypeStringList, Description: "Related paper slugs"},
		"external_docs":  {Type: fields.TypeDict, Description: "Named external documentation links"},
	}
}

func defaultMeta() map[string]any {
	return map[string]any{
		store.CommentKey:       "Project overrides. The cache under cache/ is regenerable.",
		store.SchemaVersionKey: "1.0",
		store.ExampleKey: map[string]any{
			"title":    "My Project",
			"maturity": "beta",
			"repo":     "me/my-project",
		},
	}
}

// Open creates and loads the overrides store.
func Open(p *paths.Paths, logger *zerolog.Logger) (*store.Store, error) {
	s := store.New(StoreName, p.ProjectsDB(),
		store.WithBackupDir(p.BackupDir("projects")),
		store.WithDefaultMeta(defaultMeta()),
		store.WithSearchFields("title", "abstract", "category"),
		store.WithLogger(logger),
	)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenCache creates and loads the GitHub metadata cache store.
func OpenCache(p *paths.Paths, logger *zerolog.Logger) (*store.Store, error) {
	s := store.New(CacheName, p.ProjectsCache(),
		store.WithDefaultMeta(map[string]any{
			store.CommentKey: "GitHub metadata cache. Regenerable; safe to delete.",
		}),
		store.WithLogger(logger),
	)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// SaveCache persists the cache without a backup; it is derived data.
func SaveCache(ctx context.Context, cache *store.Store) error {
	return cache.Save(ctx, store.NoBackup())
}

// SyncCache fetches repo metadata for one project into the cache. The
// project's override entry names the repository; the fetch completes
// before the cache row is written. The caller saves the cache.
func SyncCache(ctx context.Context, overrides, cache *store.Store, client *github.Client, slug string) (store.Entry, error) {
	entry, ok := overrides.Get(slug)
	if !ok {
		return nil, errors.NewNotFoundError("project", slug)
	}
	repoName, _ := entry["repo"].(string)
	if repoName == "" {
		return nil, errors.NewValidationError("repo", nil, "entry has no repo field")
	}

	repo, err := client.FetchRepo(ctx, repoName)
	if err != nil {
		return nil, err
	}

	row := store.Entry{
		"full_name":   repo.FullName,
		"description": repo.Description,
		"homepage":    repo.Homepage,
		"stargazers":  repo.Stargazers,
		"language":    repo.Language,
		"topics":      repo.Topics,
		"archived":    repo.Archived,
		"pushed_at":   repo.PushedAt.String(),
		"html_url":    repo.HTMLURL,
	}
	if err := cache.Set(slug, row); err != nil {
		return nil, err
	}
	return row, nil
}
