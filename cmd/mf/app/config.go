package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from flags,
// environment variables, .env files, and the global config file.
type Config struct {
	// Global flags
	SiteRoot string
	Verbose  bool
	Quiet    bool
	NoColor  bool
	DryRun   bool

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration in order of precedence: flags
// (applied later by cobra), environment variables, .env files, the
// global config file, defaults.
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvPrefix("MF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if dir := globalConfigDir(); dir != "" {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// Missing config file is fine; every key has a default.
	_ = v.ReadInConfig()

	return &Config{
		SiteRoot:  v.GetString("site_root"),
		Verbose:   v.GetBool("verbose"),
		Quiet:     v.GetBool("quiet"),
		NoColor:   v.GetBool("no_color"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
	}, nil
}

// UpdateFromFlags applies parsed flag values, which take precedence
// over every other source.
func (c *Config) UpdateFromFlags(siteRoot string, verbose, quiet bool, logFormat string) {
	if siteRoot != "" {
		c.SiteRoot = siteRoot
	}
	c.Verbose = verbose
	c.Quiet = quiet
	if logFormat != "" {
		c.LogFormat = logFormat
	}
}

// loadEnvFiles loads .env files; .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Overload(envFile)
	}
}

func globalConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "mf")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
