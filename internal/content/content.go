// Package content scans the generated content tree. The databases are
// truth; this package only reports what artifacts currently exist so
// the integrity checker can compare the two.
package content

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/metafunctor/mf/internal/paths"
	"github.com/metafunctor/mf/pkg/errors"
)

// Lister reports, per logical section, the artifact slugs that
// currently exist in the content tree.
type Lister interface {
	ListExisting(section string) (map[string]struct{}, error)
}

// Scanner lists artifacts under content/<section>/. An artifact is a
// page bundle (<slug>/index.md or <slug>/_index.md) or a leaf page
// (<slug>.md).
type Scanner struct {
	paths *paths.Paths
}

// NewScanner returns a Scanner over the site's content tree.
func NewScanner(p *paths.Paths) *Scanner {
	return &Scanner{paths: p}
}

// ListExisting returns the artifact slugs in one section. A section
// directory that does not exist yields an empty set, not an error.
func (s *Scanner) ListExisting(section string) (map[string]struct{}, error) {
	dir := s.paths.Section(section)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]struct{}{}, nil
		}
		return nil, errors.WrapIO("readdir", dir, err)
	}

	existing := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || name == "_index.md" {
			continue
		}
		if entry.IsDir() {
			if hasBundleIndex(filepath.Join(dir, name)) {
				existing[name] = struct{}{}
			}
			continue
		}
		if slug, ok := strings.CutSuffix(name, ".md"); ok {
			existing[slug] = struct{}{}
		}
	}
	return existing, nil
}

func hasBundleIndex(dir string) bool {
	for _, index := range []string{"index.md", "_index.md"} {
		if info, err := os.Stat(filepath.Join(dir, index)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
