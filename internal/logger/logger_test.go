package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	logpkg "github.com/maxviazov/cricket-scoring-service/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *logpkg.LoggerConfig
		expectError bool
		wantLevel   zerolog.Level
	}{
		{
			name: "valid production environment",
			config: &logpkg.LoggerConfig{
				ServiceName: "test-service",
				Env:         "prod",
				Level:       "info",
				TimeFormat:  "unix",
				Fields:      map[string]interface{}{"key": "value"},
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name: "invalid configuration - wrong env",
			config: &logpkg.LoggerConfig{
				ServiceName: "bad-service",
				Env:         "wrong-env",
				Level:       "debug",
			},
			expectError: true,
		},
		{
			name: "invalid log level",
			config: &logpkg.LoggerConfig{
				Env:   "prod",
				Level: "invalid-level",
			},
			expectError: true,
		},
		{
			name: "invalid time format",
			config: &logpkg.LoggerConfig{
				Env:        "prod",
				TimeFormat: "iso",
			},
			expectError: true,
		},
		{
			name: "valid staging environment",
			config: &logpkg.LoggerConfig{
				Env:        "staging",
				Level:      "warn",
				TimeField:  "time",
				Stacktrace: true,
			},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name: "dev without debug",
			config: &logpkg.LoggerConfig{
				Env:   "dev",
				Level: "info",
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:      "prod defaults",
			config:    &logpkg.LoggerConfig{},
			wantLevel: zerolog.InfoLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := logpkg.New(tc.config)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantLevel, zerolog.GlobalLevel())
		})
	}

	t.Run("debug log file creation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "debug.log")
		cfg := &logpkg.LoggerConfig{
			ServiceName: "integration-test",
			Env:         "dev",
			Level:       "debug",
			DebugFile:   path,
		}

		l, err := logpkg.New(cfg)
		require.NoError(t, err)
		l.Debug().Msg("hello")

		_, statErr := os.Stat(path)
		assert.NoError(t, statErr)
	})
}

func TestNew_AppliesDefaults(t *testing.T) {
	cfg := &logpkg.LoggerConfig{Env: "dev"}
	_, err := logpkg.New(cfg)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stderr", cfg.OutputTarget)
	assert.Equal(t, "ts", cfg.TimeField)
	assert.True(t, cfg.WithCaller)
	assert.Equal(t, "cricket-scoring-service", cfg.ServiceName)
	assert.NotNil(t, cfg.Fields)

	t.Cleanup(func() { _ = os.RemoveAll("logs") })
}
