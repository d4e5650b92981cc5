package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// baseConfig returns a fully valid configuration for validation tests.
func baseConfig() *Config {
	return &Config{
		LogRequestHeaders:         true,
		LogRequestContentHeaders:  true,
		LogRequestBody:            true,
		LogResponseHeaders:        true,
		LogResponseContentHeaders: true,
		LogResponseBody:           true,
		LogLevel:                  "info",
		ExchangeLogLevel:          "debug",
		MaxLogLength:              "64 KiB",
		Timeout:                   "30s",
		MaxConcurrentRequests:     2,
		Method:                    "get",
		Headers:                   []string{"Accept: application/json"},
	}
}

// TestValidateConfig tests the ValidateConfig function.
func TestValidateConfig(t *testing.T) {
	t.Parallel()

	t.Run("valid config sets derived fields", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig()

		require.NoError(t, ValidateConfig(cfg))

		assert.Equal(t, zapcore.InfoLevel, cfg.ParsedLogLevel)
		assert.Equal(t, zapcore.DebugLevel, cfg.ParsedExchangeLogLevel)
		assert.Equal(t, uint64(65536), cfg.ParsedMaxLogLength)
		assert.Equal(t, "30s", cfg.ParsedTimeout.String())
		assert.Equal(t, "GET", cfg.Method)
		assert.Equal(t, "application/json", cfg.ParsedHeaders.Get("Accept"))
	})

	t.Run("empty max log length is allowed", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig()
		cfg.MaxLogLength = ""

		require.NoError(t, ValidateConfig(cfg))
		assert.Zero(t, cfg.ParsedMaxLogLength)
	})

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectedErr error
	}{
		{
			name:        "unknown log level",
			mutate:      func(cfg *Config) { cfg.LogLevel = "loud" },
			expectedErr: ErrUnknownLogLevel,
		},
		{
			name:        "unknown exchange log level",
			mutate:      func(cfg *Config) { cfg.ExchangeLogLevel = "whisper" },
			expectedErr: ErrUnknownExchangeLogLevel,
		},
		{
			name:        "zero timeout",
			mutate:      func(cfg *Config) { cfg.Timeout = "0s" },
			expectedErr: ErrInvalidTimeout,
		},
		{
			name:        "zero concurrency",
			mutate:      func(cfg *Config) { cfg.MaxConcurrentRequests = 0 },
			expectedErr: ErrInvalidConcurrentRequests,
		},
		{
			name:        "empty method",
			mutate:      func(cfg *Config) { cfg.Method = "  " },
			expectedErr: ErrEmptyMethod,
		},
		{
			name:        "header without colon",
			mutate:      func(cfg *Config) { cfg.Headers = []string{"NoColon"} },
			expectedErr: ErrInvalidHeader,
		},
		{
			name:        "header without name",
			mutate:      func(cfg *Config) { cfg.Headers = []string{": value"} },
			expectedErr: ErrInvalidHeader,
		},
		{
			name: "body and body file conflict",
			mutate: func(cfg *Config) {
				cfg.RequestBody = "{}"
				cfg.RequestBodyFile = "body.json"
			},
			expectedErr: ErrBodyConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := baseConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}

	t.Run("unparsable max log length", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig()
		cfg.MaxLogLength = "banana"

		require.ErrorContains(t, ValidateConfig(cfg), "failed to parse max log length")
	})

	t.Run("unparsable timeout", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig()
		cfg.Timeout = "soon"

		require.ErrorContains(t, ValidateConfig(cfg), "failed to parse timeout")
	})
}

// TestLoadConfig tests the LoadConfig function.
//
//nolint:paralleltest // Cannot run in parallel due to Viper global state.
func TestLoadConfig(t *testing.T) {
	t.Run("explicit file is loaded", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "wiretap.yaml")

		content := `
log_request_headers: false
log_response_body: false
log_level: "warn"
exchange_log_level: "info"
max_log_length: "16 KiB"
timeout: "10s"
user_agent: "ConfigAgent/2.0"
max_concurrent_requests: 4
`
		require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

		cfg, err := LoadConfig(configFile)
		require.NoError(t, err)

		assert.False(t, cfg.LogRequestHeaders)
		assert.False(t, cfg.LogResponseBody)
		assert.True(t, cfg.LogRequestBody)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, "info", cfg.ExchangeLogLevel)
		assert.Equal(t, "16 KiB", cfg.MaxLogLength)
		assert.Equal(t, "10s", cfg.Timeout)
		assert.Equal(t, "ConfigAgent/2.0", cfg.UserAgent)
		assert.Equal(t, int64(4), cfg.MaxConcurrentRequests)
	})

	t.Run("explicit missing file fails", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
		require.Error(t, err)
	})
}

// TestWriteDefaultConfig tests the WriteDefaultConfig function.
//
//nolint:paralleltest // Cannot run in parallel due to Viper global state.
func TestWriteDefaultConfig(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "default.yaml")

	require.NoError(t, WriteDefaultConfig(configFile))

	// A second write must not clobber the existing file.
	require.ErrorContains(t, WriteDefaultConfig(configFile), "already exists")

	// The generated file loads and validates with per-invocation values filled in.
	cfg, err := LoadConfig(configFile)
	require.NoError(t, err)

	cfg.Method = "GET"

	require.NoError(t, ValidateConfig(cfg))

	assert.True(t, cfg.LogRequestHeaders)
	assert.True(t, cfg.LogResponseBody)
	assert.Equal(t, zapcore.DebugLevel, cfg.ParsedExchangeLogLevel)
	assert.Positive(t, cfg.ParsedTimeout)
	assert.Positive(t, cfg.ParsedMaxLogLength)
}
