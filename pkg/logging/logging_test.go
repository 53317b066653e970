package logging

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// saveGlobalState restores the default logger and global level after a
// test that calls Configure or SetDefault.
func saveGlobalState(t *testing.T) {
	t.Helper()
	oldLogger := defaultLogger
	oldLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		SetDefault(oldLogger)
		zerolog.SetGlobalLevel(oldLevel)
	})
}

func TestConfigureSetsLevel(t *testing.T) {
	saveGlobalState(t)

	Configure(&Config{Level: "debug", Format: "json", Output: "discard"})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.Equal(t, zerolog.DebugLevel, Default().GetLevel())
}

func TestConfigureInvalidLevelFallsBackToInfo(t *testing.T) {
	saveGlobalState(t)

	Configure(&Config{Level: "loud", Format: "json", Output: "discard"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestConfigureNilUsesDefaults(t *testing.T) {
	saveGlobalState(t)

	Configure(nil)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestWriterForFormatSelection(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		wantConsole bool
		wantDiscard bool
	}{
		{"explicit console", Config{Format: "console", Output: "stderr"}, true, false},
		{"explicit json", Config{Format: "json", Output: "stderr"}, false, false},
		{"discard wins over format", Config{Format: "console", Output: "discard"}, false, true},
		{"none is discard", Config{Format: "json", Output: "none"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := writerFor(&tt.cfg)
			_, isConsole := w.(zerolog.ConsoleWriter)
			assert.Equal(t, tt.wantConsole, isConsole)
			assert.Equal(t, tt.wantDiscard, w == io.Discard)
		})
	}
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	logger.Info().Str("store", "packages_db").Msg("saved")

	require.Contains(t, buf.String(), `"store":"packages_db"`)
	assert.Contains(t, buf.String(), `"message":"saved"`)
}

func TestContextHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	ctx := WithLogger(context.Background(), &logger)
	assert.Same(t, &logger, FromContext(ctx))
	assert.Same(t, &logger, Ctx(ctx))

	// Without a logger in the context, the default is returned.
	assert.Same(t, Default(), FromContext(context.Background()))
	assert.Same(t, Default(), WithLogger(context.Background(), nil).Value(loggerKey))
}
