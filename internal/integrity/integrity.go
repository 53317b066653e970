// Package integrity cross-checks the databases against each other and
// against the generated content tree. Check is read-only; Fix applies
// only issue kinds explicitly marked fixable, and its dry-run mode
// computes the identical report without touching any store.
package integrity

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/metafunctor/mf/internal/content"
	"github.com/metafunctor/mf/internal/domain/packages"
	"github.com/metafunctor/mf/internal/domain/papers"
	"github.com/metafunctor/mf/internal/domain/projects"
	"github.com/metafunctor/mf/internal/domain/series"
	"github.com/metafunctor/mf/internal/paths"
	"github.com/metafunctor/mf/pkg/logging"
	"github.com/metafunctor/mf/pkg/store"
)

// Kind classifies an integrity issue.
type Kind string

// Issue kinds.
const (
	// KindOrphan is a database entry with no generated artifact.
	KindOrphan Kind = "orphan"
	// KindStaleEntry is a cache row with neither an override entry nor
	// an artifact.
	KindStaleEntry Kind = "stale_entry"
	// KindDanglingReference is an entry referencing a slug absent from
	// the referenced store.
	KindDanglingReference Kind = "dangling_reference"
	// KindSyncStateOrphan is series sync state for a post with no
	// artifact.
	KindSyncStateOrphan Kind = "sync_state_orphan"
	// KindMissingSource is a paper whose manuscript source is gone.
	// Report only; deleting metadata will not bring the file back.
	KindMissingSource Kind = "missing_source"
)

// Severity grades an issue.
type Severity string

// Severities.
const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is one finding.
type Issue struct {
	Kind     Kind
	Severity Severity
	Store    string
	Slug     string
	Detail   string
	Fixable  bool
	Extra    map[string]string
}

// ReferenceRule declares that a field of one store names slugs
// expected to exist in another store. List fields get the offending
// slug removed on fix; string fields get cleared.
type ReferenceRule struct {
	FromStore string
	Field     string
	ToStore   string
}

// Stores collects the databases the checker runs over.
type Stores struct {
	Packages      *store.Store
	Papers        *store.Store
	Projects      *store.Store
	ProjectsCache *store.Store
	Series        *store.Store
}

// Checker runs the cross-store checks.
type Checker struct {
	stores Stores
	lister content.Lister
	paths  *paths.Paths
	rules  []ReferenceRule
}

// Option configures a Checker.
type Option func(*Checker)

// WithRules replaces the default reference rules.
func WithRules(rules []ReferenceRule) Option {
	return func(c *Checker) { c.rules = rules }
}

// DefaultRules returns the inter-store reference rules the site uses.
func DefaultRules() []ReferenceRule {
	return []ReferenceRule{
		{FromStore: packages.StoreName, Field: "project", ToStore: projects.StoreName},
		{FromStore: projects.StoreName, Field: "related_papers", ToStore: papers.StoreName},
		{FromStore: series.StoreName, Field: "related_projects", ToStore: projects.StoreName},
	}
}

// New returns a Checker over the given stores and content tree.
func New(stores Stores, lister content.Lister, p *paths.Paths, opts ...Option) *Checker {
	c := &Checker{
		stores: stores,
		lister: lister,
		paths:  p,
		rules:  DefaultRules(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// sectioned pairs a store with the content section its entries render
// into.
type sectioned struct {
	store   *store.Store
	section string
}

func (c *Checker) sectionedStores() []sectioned {
	var out []sectioned
	if c.stores.Packages != nil {
		out = append(out, sectioned{c.stores.Packages, packages.Section})
	}
	if c.stores.Papers != nil {
		out = append(out, sectioned{c.stores.Papers, papers.Section})
	}
	if c.stores.Projects != nil {
		out = append(out, sectioned{c.stores.Projects, projects.Section})
	}
	if c.stores.Series != nil {
		out = append(out, sectioned{c.stores.Series, series.Section})
	}
	return out
}

func (c *Checker) byName(name string) *store.Store {
	for _, s := range []*store.Store{
		c.stores.Packages, c.stores.Papers, c.stores.Projects,
		c.stores.ProjectsCache, c.stores.Series,
	} {
		if s != nil && s.Name() == name {
			return s
		}
	}
	return nil
}

// Check runs every check without mutating anything.
func (c *Checker) Check(ctx context.Context) (*Report, error) {
	report := newReport()

	if err := c.checkOrphans(report); err != nil {
		return nil, err
	}
	if err := c.checkStaleCache(report); err != nil {
		return nil, err
	}
	c.checkReferences(report)
	if err := c.checkSyncState(report); err != nil {
		return nil, err
	}
	c.checkMissingSources(report)

	report.sortIssues()
	logging.Ctx(ctx).Debug().
		Int("issues", len(report.Issues)).
		Int("fixable", report.FixableCount()).
		Msg("integrity check complete")
	return report, nil
}

func (c *Checker) checkOrphans(report *Report) error {
	for _, sec := range c.sectionedStores() {
		existing, err := c.lister.ListExisting(sec.section)
		if err != nil {
			return err
		}
		report.Checked[sec.store.Name()] = sec.store.Len()
		for _, slug := range sec.store.Slugs() {
			if _, ok := existing[slug]; ok {
				continue
			}
			report.add(Issue{
				Kind:     KindOrphan,
				Severity: SeverityWarning,
				Store:    sec.store.Name(),
				Slug:     slug,
				Detail:   fmt.Sprintf("no artifact under content/%s", sec.section),
				Fixable:  true,
			})
		}
	}
	return nil
}

func (c *Checker) checkStaleCache(report *Report) error {
	cache := c.stores.ProjectsCache
	if cache == nil {
		return nil
	}
	existing, err := c.lister.ListExisting(projects.Section)
	if err != nil {
		return err
	}
	report.Checked[cache.Name()] = cache.Len()
	for _, slug := range cache.Slugs() {
		if c.stores.Projects != nil && c.stores.Projects.Has(slug) {
			continue
		}
		if _, ok := existing[slug]; ok {
			continue
		}
		report.add(Issue{
			Kind:     KindStaleEntry,
			Severity: SeverityWarning,
			Store:    cache.Name(),
			Slug:     slug,
			Detail:   "cache row has no override entry and no artifact",
			Fixable:  true,
		})
	}
	return nil
}

func (c *Checker) checkReferences(report *Report) {
	for _, rule := range c.rules {
		from := c.byName(rule.FromStore)
		to := c.byName(rule.ToStore)
		if from == nil || to == nil {
			continue
		}
		for _, item := range from.Items() {
			for _, ref := range referencedSlugs(item.Entry[rule.Field]) {
				if to.Has(ref) {
					continue
				}
				report.add(Issue{
					Kind:     KindDanglingReference,
					Severity: SeverityError,
					Store:    rule.FromStore,
					Slug:     item.Slug,
					Detail:   fmt.Sprintf("%s references %q, absent from %s", rule.Field, ref, rule.ToStore),
					Fixable:  true,
					Extra:    map[string]string{"field": rule.Field, "ref": ref},
				})
			}
		}
	}
}

// referencedSlugs reads a reference field that is either a single slug
// or a list of slugs.
func referencedSlugs(v any) []string {
	if s, ok := v.(string); ok {
		if s == "" {
			return nil
		}
		return []string{s}
	}
	return store.StringList(v)
}

func (c *Checker) checkSyncState(report *Report) error {
	seriesStore := c.stores.Series
	if seriesStore == nil {
		return nil
	}
	existing, err := c.lister.ListExisting(series.Section)
	if err != nil {
		return err
	}
	for _, item := range seriesStore.Items() {
		for post := range series.SyncState(item.Entry) {
			if _, ok := existing[post]; ok {
				continue
			}
			report.add(Issue{
				Kind:     KindSyncStateOrphan,
				Severity: SeverityWarning,
				Store:    seriesStore.Name(),
				Slug:     item.Slug,
				Detail:   fmt.Sprintf("sync state for post %q with no artifact", post),
				Fixable:  true,
				Extra:    map[string]string{"post": post},
			})
		}
	}
	return nil
}

func (c *Checker) checkMissingSources(report *Report) {
	papersStore := c.stores.Papers
	if papersStore == nil {
		return
	}
	for _, item := range papersStore.Items() {
		src, _ := item.Entry["source_path"].(string)
		if src == "" {
			continue
		}
		resolved := src
		if !filepath.IsAbs(resolved) && c.paths != nil {
			resolved = filepath.Join(c.paths.SiteRoot, src)
		}
		if _, err := os.Stat(resolved); err == nil {
			continue
		}
		report.add(Issue{
			Kind:     KindMissingSource,
			Severity: SeverityError,
			Store:    papersStore.Name(),
			Slug:     item.Slug,
			Detail:   fmt.Sprintf("source %s does not exist", src),
			Fixable:  false,
			Extra:    map[string]string{"source_path": src},
		})
	}
}

// sortIssues orders findings for stable output.
func (r *Report) sortIssues() {
	sort.Slice(r.Issues, func(i, j int) bool {
		a, b := r.Issues[i], r.Issues[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Store != b.Store {
			return a.Store < b.Store
		}
		if a.Slug != b.Slug {
			return a.Slug < b.Slug
		}
		return a.Detail < b.Detail
	})
}
