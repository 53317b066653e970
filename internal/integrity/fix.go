package integrity

import (
	"context"
	"slices"

	"github.com/metafunctor/mf/internal/domain/series"
	"github.com/metafunctor/mf/pkg/logging"
	"github.com/metafunctor/mf/pkg/store"
)

// Fix runs Check and applies every fixable issue. With dryRun the
// identical report is computed and returned without mutating or
// saving any store.
func (c *Checker) Fix(ctx context.Context, dryRun bool) (*FixReport, error) {
	report, err := c.Check(ctx)
	if err != nil {
		return nil, err
	}

	fix := &FixReport{DryRun: dryRun}
	touched := make(map[string]*store.Store)

	for _, issue := range report.Issues {
		if !issue.Fixable {
			fix.Skipped = append(fix.Skipped, issue)
			continue
		}
		fix.Fixed = append(fix.Fixed, issue)
		if dryRun {
			continue
		}
		if s := c.apply(issue); s != nil {
			touched[s.Name()] = s
		}
	}

	if !dryRun {
		for _, s := range touched {
			var opts []store.SaveOption
			if s == c.stores.ProjectsCache {
				// The cache is regenerable; it never earns backups.
				opts = append(opts, store.NoBackup())
			}
			if err := s.Save(ctx, opts...); err != nil {
				return nil, err
			}
		}
	}

	logging.Ctx(ctx).Info().
		Bool("dry_run", dryRun).
		Int("fixed", len(fix.Fixed)).
		Int("skipped", len(fix.Skipped)).
		Msg("integrity fix complete")
	return fix, nil
}

// apply mutates the owning store for one issue and returns it, or nil
// when nothing changed.
func (c *Checker) apply(issue Issue) *store.Store {
	s := c.byName(issue.Store)
	if s == nil {
		return nil
	}

	switch issue.Kind {
	case KindOrphan, KindStaleEntry:
		if s.Delete(issue.Slug) {
			return s
		}

	case KindDanglingReference:
		entry, ok := s.Get(issue.Slug)
		if !ok {
			return nil
		}
		field, ref := issue.Extra["field"], issue.Extra["ref"]
		switch v := entry[field].(type) {
		case string:
			delete(entry, field)
		default:
			list := store.StringList(v)
			if i := slices.Index(list, ref); i >= 0 {
				list = slices.Delete(list, i, i+1)
			}
			if len(list) == 0 {
				delete(entry, field)
			} else {
				entry[field] = list
			}
		}
		return s

	case KindSyncStateOrphan:
		series.ClearPostState(s, issue.Slug, issue.Extra["post"])
		return s
	}
	return nil
}
