// Package packages binds the packages database: its field schema,
// store configuration, and registry sync.
package packages

import (
	"context"
	"time"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/metafunctor/mf/internal/paths"
	"github.com/metafunctor/mf/internal/registries"
	"github.com/metafunctor/mf/pkg/errors"
	"github.com/metafunctor/mf/pkg/fields"
	"github.com/metafunctor/mf/pkg/store"
)

// Section is the content tree section packages render into.
const Section = "packages"

// StoreName is the logical store name.
const StoreName = "packages_db"

// Registries a package may belong to.
var RegistryChoices = []string{"pypi", "cran"}

// Schema declares the packages fields.
func Schema() fields.Schema {
	minStars, maxStars := fields.IntRange(0, 5)
	return fields.Schema{
		"name":            {Type: fields.TypeString, Description: "Package name in its registry"},
		"registry":        {Type: fields.TypeString, Description: "Source registry", Choices: RegistryChoices},
		"project":         {Type: fields.TypeString, Description: "Owning project slug"},
		"description":     {Type: fields.TypeString, Description: "One-line description"},
		"latest_version":  {Type: fields.TypeString, Description: "Latest published version"},
		"install_command": {Type: fields.TypeString, Description: "Install command"},
		"registry_url":    {Type: fields.TypeString, Description: "Registry page URL"},
		"homepage":        {Type: fields.TypeString, Description: "Project homepage"},
		"license":         {Type: fields.TypeString, Description: "License identifier"},
		"downloads":       {Type: fields.TypeInt, Description: "Download count"},
		"stars":           {Type: fields.TypeInt, Description: "Editorial rating", Min: minStars, Max: maxStars},
		"tags":            {Type: fields.TypeStringList, Description: "Search tags"},
		"aliases":         {Type: fields.TypeStringList, Description: "Alternate names"},
		"featured":        {Type: fields.TypeBool, Description: "Show on the front page", Default: false},
		"last_synced":     {Type: fields.TypeString, Description: "Last registry sync (UTC)"},
	}
}

func defaultMeta() map[string]any {
	return map[string]any{
		store.CommentKey:       "Package metadata. Databases are truth; generated pages are derived.",
		store.SchemaVersionKey: "1.0",
		store.ExampleKey: map[string]any{
			"name":     "my-package",
			"registry": "pypi",
			"tags":     []any{"python"},
		},
	}
}

// Open creates and loads the packages store.
func Open(p *paths.Paths, logger *zerolog.Logger) (*store.Store, error) {
	s := store.New(StoreName, p.PackagesDB(),
		store.WithBackupDir(p.BackupDir("packages")),
		store.WithDefaultMeta(defaultMeta()),
		store.WithSearchFields("name", "description", "project"),
		store.WithLogger(logger),
	)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Add creates a new package entry. The slug must be free and the
// registry one of the known choices.
func Add(s *store.Store, slug, name, registry string) error {
	if s.Has(slug) {
		return errors.ErrAlreadyExists
	}
	if violations := fields.Validate(Schema(), "registry", registry); len(violations) > 0 {
		return errors.NewValidationError("registry", registry, violations...)
	}
	if name == "" {
		name = slug
	}
	return s.Set(slug, store.Entry{"name": name, "registry": registry})
}

// Sync fetches registry metadata for one package and merges it into
// the entry. The fetch completes before any field is written, so a
// failed fetch leaves the entry untouched. The caller saves.
func Sync(ctx context.Context, s *store.Store, reg *registries.Registry, slug string) (store.Entry, error) {
	entry, ok := s.Get(slug)
	if !ok {
		return nil, errors.NewNotFoundError("package", slug)
	}

	registryName, _ := entry["registry"].(string)
	if registryName == "" {
		return nil, errors.NewValidationError("registry", nil, "entry has no registry field")
	}
	adapter, err := reg.Get(registryName)
	if err != nil {
		return nil, err
	}

	name, _ := entry["name"].(string)
	if name == "" {
		name = slug
	}

	meta, err := adapter.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	partial := store.Entry{"last_synced": utc.Now().Time.Format(time.RFC3339)}
	for field, value := range map[string]string{
		"description":     meta.Description,
		"latest_version":  meta.LatestVersion,
		"install_command": meta.InstallCommand,
		"registry_url":    meta.RegistryURL,
		"homepage":        meta.Homepage,
		"license":         meta.License,
	} {
		// Empty fetch results never clobber curated values.
		if value != "" {
			partial[field] = value
		}
	}

	return s.Update(slug, partial)
}
