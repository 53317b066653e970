package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Empty(t, config.SiteRoot)
	assert.False(t, config.Verbose)
	assert.Equal(t, "auto", config.LogFormat)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MF_SITE_ROOT", "/srv/site")
	t.Setenv("LOG_FORMAT", "json")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/srv/site", config.SiteRoot)
	assert.Equal(t, "json", config.LogFormat)
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{SiteRoot: "/from/env", LogFormat: "auto"}

	config.UpdateFromFlags("", true, false, "")
	assert.Equal(t, "/from/env", config.SiteRoot, "empty flag keeps prior value")
	assert.True(t, config.Verbose)
	assert.Equal(t, "auto", config.LogFormat)

	config.UpdateFromFlags("/from/flag", false, true, "json")
	assert.Equal(t, "/from/flag", config.SiteRoot)
	assert.Equal(t, "json", config.LogFormat)
	assert.True(t, config.Quiet)
}
