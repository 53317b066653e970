// Package papers binds the papers database.
package papers

import (
	"github.com/rs/zerolog"

	"github.com/metafunctor/mf/internal/paths"
	"github.com/metafunctor/mf/pkg/fields"
	"github.com/metafunctor/mf/pkg/store"
)

// Section is the content tree section papers render into.
const Section = "papers"

// StoreName is the logical store name.
const StoreName = "paper_db"

// Publication states a paper can be in.
var StatusChoices = []string{"published", "preprint", "draft", "submitted"}

// Schema declares the papers fields.
func Schema() fields.Schema {
	minStars, maxStars := fields.IntRange(0, 5)
	return fields.Schema{
		"title":          {Type: fields.TypeString, Description: "Paper title"},
		"abstract":       {Type: fields.TypeString, Description: "Abstract text"},
		"date":           {Type: fields.TypeString, Description: "Publication date (YYYY-MM-DD)"},
		"category":       {Type: fields.TypeString, Description: "Topic category"},
		"venue":          {Type: fields.TypeString, Description: "Journal or conference"},
		"status":         {Type: fields.TypeString, Description: "Publication state", Choices: StatusChoices},
		"year":           {Type: fields.TypeInt, Description: "Publication year"},
		"doi":            {Type: fields.TypeString, Description: "DOI"},
		"arxiv_id":       {Type: fields.TypeString, Description: "arXiv identifier"},
		"stars":          {Type: fields.TypeInt, Description: "Editorial rating", Min: minStars, Max: maxStars},
		"featured":       {Type: fields.TypeBool, Description: "Show on the front page", Default: false},
		"tags":           {Type: fields.TypeStringList, Description: "Search tags"},
		"related_posts":  {Type: fields.TypeStringList, Description: "Related post slugs"},
		"pdf_path":       {Type: fields.TypeString, Description: "Generated PDF path"},
		"html_path":      {Type: fields.TypeString, Description: "Generated HTML path"},
		"cite_path":      {Type: fields.TypeString, Description: "Citation file path"},
		"source_path":    {Type: fields.TypeString, Description: "Manuscript source path"},
		"source_hash":    {Type: fields.TypeString, Description: "Hash of the source at last generation"},
		"last_generated": {Type: fields.TypeString, Description: "Last generation time (UTC)"},
	}
}

func defaultMeta() map[string]any {
	return map[string]any{
		store.CommentKey:       "Paper metadata. Databases are truth; generated pages are derived.",
		store.SchemaVersionKey: "1.0",
		store.ExampleKey: map[string]any{
			"title":  "An Example Paper",
			"status": "draft",
			"year":   2024,
		},
	}
}

// Open creates and loads the papers store.
func Open(p *paths.Paths, logger *zerolog.Logger) (*store.Store, error) {
	s := store.New(StoreName, p.PapersDB(),
		store.WithBackupDir(p.BackupDir("papers")),
		store.WithDefaultMeta(defaultMeta()),
		store.WithSearchFields("title", "abstract", "venue"),
		store.WithLogger(logger),
	)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}
