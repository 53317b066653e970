// Package paths locates the site tree and derives every file location
// the databases use. A Paths value is constructed once per invocation
// and passed explicitly to the stores and checkers; nothing in this
// package caches process-wide state.
package paths

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/metafunctor/mf/pkg/errors"
)

// SiteRootEnv overrides site root resolution when set.
const SiteRootEnv = "MF_SITE_ROOT"

// MarkerDir is the directory whose presence marks a site root.
const MarkerDir = ".mf"

// Paths derives database, backup, cache, and content locations from a
// resolved site root.
type Paths struct {
	SiteRoot string
}

// New returns Paths rooted at siteRoot. The root is not required to
// exist yet; EnsureLayout creates the managed directories.
func New(siteRoot string) *Paths {
	return &Paths{SiteRoot: siteRoot}
}

// Resolve locates the site root, in order: the MF_SITE_ROOT
// environment variable, the nearest ancestor of startDir containing a
// .mf directory, then the site_root key of the global config file.
func Resolve(startDir string) (*Paths, error) {
	if root := os.Getenv(SiteRootEnv); root != "" {
		return New(root), nil
	}

	if root, ok := findMarker(startDir); ok {
		return New(root), nil
	}

	cfg, err := loadGlobalConfig(GlobalConfigPath())
	if err != nil {
		return nil, err
	}
	if cfg.SiteRoot != "" {
		return New(cfg.SiteRoot), nil
	}

	return nil, errors.NewConfigError("paths",
		"no site root: set "+SiteRootEnv+", run inside a site tree, or set site_root in "+GlobalConfigPath(), nil)
}

// findMarker walks from dir to the filesystem root looking for a .mf
// directory.
func findMarker(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		info, err := os.Stat(filepath.Join(dir, MarkerDir))
		if err == nil && info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// GlobalConfigPath returns the global config file location, honoring
// XDG_CONFIG_HOME.
func GlobalConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "mf", "config.yaml")
}

type globalConfig struct {
	SiteRoot string `yaml:"site_root"`
}

func loadGlobalConfig(path string) (globalConfig, error) {
	var cfg globalConfig
	if path == "" {
		return cfg, nil
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.WrapIO("read", path, err)
	}
	if err := yaml.Unmarshal(blob, &cfg); err != nil {
		return cfg, errors.WrapParse("yaml", path, err)
	}
	return cfg, nil
}

// MfDir returns the managed state directory.
func (p *Paths) MfDir() string { return filepath.Join(p.SiteRoot, MarkerDir) }

// PackagesDB returns the packages database path.
func (p *Paths) PackagesDB() string { return filepath.Join(p.MfDir(), "packages_db.json") }

// PapersDB returns the papers database path.
func (p *Paths) PapersDB() string { return filepath.Join(p.MfDir(), "paper_db.json") }

// ProjectsDB returns the projects overrides database path.
func (p *Paths) ProjectsDB() string { return filepath.Join(p.MfDir(), "projects_db.json") }

// ProjectsCache returns the regenerable GitHub metadata cache path.
func (p *Paths) ProjectsCache() string { return filepath.Join(p.MfDir(), "cache", "projects.json") }

// SeriesDB returns the series database path.
func (p *Paths) SeriesDB() string { return filepath.Join(p.MfDir(), "series_db.json") }

// BackupDir returns the backup directory for one logical store.
func (p *Paths) BackupDir(domain string) string {
	return filepath.Join(p.MfDir(), "backups", domain)
}

// ContentDir returns the generated content tree root.
func (p *Paths) ContentDir() string { return filepath.Join(p.SiteRoot, "content") }

// Section returns one section directory under the content tree.
func (p *Paths) Section(section string) string {
	return filepath.Join(p.ContentDir(), section)
}

// EnsureLayout creates the managed directories (.mf, backups, cache).
// It is idempotent.
func (p *Paths) EnsureLayout() error {
	for _, dir := range []string{
		p.MfDir(),
		filepath.Join(p.MfDir(), "backups"),
		filepath.Join(p.MfDir(), "cache"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapIO("mkdir", dir, err)
		}
	}
	return nil
}
