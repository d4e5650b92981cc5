package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/wiretap/internal/config"
)

const testBaseConfigContent = `
log_request_headers: true
log_request_content_headers: true
log_request_body: true
log_response_headers: true
log_response_content_headers: true
log_response_body: false
log_level: "info"
exchange_log_level: "debug"
max_log_length: "64 KiB"
timeout: "30s"
user_agent: "ConfigAgent/1.0"
max_concurrent_requests: 2
output_path: "/config/output"
`

// newTestFlagSet registers the same flags the root command carries.
func newTestFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)

	flags.StringP("method", "X", "GET", "")
	flags.StringArrayP("header", "H", nil, "")
	flags.StringP("data", "d", "", "")
	flags.String("data-file", "", "")
	flags.StringP("output", "o", "", "")
	flags.StringP("timeout", "t", "", "")
	flags.StringP("user-agent", "A", "", "")
	flags.Int64P("concurrency", "n", 0, "")
	flags.String("log-level", "", "")
	flags.String("exchange-log-level", "", "")
	flags.String("max-log-length", "", "")
	flags.Bool("request-headers", true, "")
	flags.Bool("request-content-headers", true, "")
	flags.Bool("request-body", true, "")
	flags.Bool("response-headers", true, "")
	flags.Bool("response-content-headers", true, "")
	flags.Bool("response-body", true, "")

	return flags
}

// TestFlagOverrides tests that command-line flags correctly override configuration file values.
//
//nolint:tparallel,paralleltest // Cannot run in parallel due to Viper global state.
func TestFlagOverrides(t *testing.T) {
	tests := []struct {
		name           string
		flags          map[string]string
		expectedConfig func(*testing.T, *config.Config)
	}{
		{
			name:  "no flags - use config values",
			flags: map[string]string{},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "GET", cfg.Method)
				assert.Equal(t, "30s", cfg.Timeout)
				assert.Equal(t, "ConfigAgent/1.0", cfg.UserAgent)
				assert.Equal(t, int64(2), cfg.MaxConcurrentRequests)
				assert.Equal(t, "/config/output", cfg.OutputPath)
				assert.False(t, cfg.LogResponseBody)
				assert.Equal(t, zapcore.InfoLevel, cfg.ParsedLogLevel)
			},
		},
		{
			name: "method and data flags",
			flags: map[string]string{
				"method": "post",
				"data":   `{"in":1}`,
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "POST", cfg.Method)
				assert.Equal(t, `{"in":1}`, cfg.RequestBody)
			},
		},
		{
			name: "timeout flag overrides config",
			flags: map[string]string{
				"timeout": "5s",
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "5s", cfg.ParsedTimeout.String())
			},
		},
		{
			name: "concurrency flag overrides config",
			flags: map[string]string{
				"concurrency": "8",
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, int64(8), cfg.MaxConcurrentRequests)
			},
		},
		{
			name: "log level flags override config",
			flags: map[string]string{
				"log-level":          "error",
				"exchange-log-level": "info",
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, zapcore.ErrorLevel, cfg.ParsedLogLevel)
				assert.Equal(t, zapcore.InfoLevel, cfg.ParsedExchangeLogLevel)
			},
		},
		{
			name: "section toggle flag overrides config",
			flags: map[string]string{
				"response-body":   "true",
				"request-headers": "false",
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.True(t, cfg.LogResponseBody)
				assert.False(t, cfg.LogRequestHeaders)
			},
		},
		{
			name: "header flag is parsed",
			flags: map[string]string{
				"header": "Accept: application/json",
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "application/json", cfg.ParsedHeaders.Get("Accept"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), "wiretap.yaml")
			require.NoError(t, os.WriteFile(configFile, []byte(testBaseConfigContent), 0o644))

			cfg, err := config.LoadConfig(configFile)
			require.NoError(t, err)

			flags := newTestFlagSet()
			for name, value := range tt.flags {
				require.NoError(t, flags.Set(name, value))
			}

			require.NoError(t, bindFlagsToConfig(flags, cfg))

			tt.expectedConfig(t, cfg)
		})
	}
}

// TestBindFlagsToConfig_InvalidValues tests that validation failures surface as errors.
//
//nolint:tparallel,paralleltest // Cannot run in parallel due to Viper global state.
func TestBindFlagsToConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		flags map[string]string
	}{
		{
			name: "bad log level",
			flags: map[string]string{
				"log-level": "loud",
			},
		},
		{
			name: "bad timeout",
			flags: map[string]string{
				"timeout": "soon",
			},
		},
		{
			name: "bad header",
			flags: map[string]string{
				"header": "NoColon",
			},
		},
		{
			name: "conflicting bodies",
			flags: map[string]string{
				"data":      "{}",
				"data-file": "body.json",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), "wiretap.yaml")
			require.NoError(t, os.WriteFile(configFile, []byte(testBaseConfigContent), 0o644))

			cfg, err := config.LoadConfig(configFile)
			require.NoError(t, err)

			flags := newTestFlagSet()
			for name, value := range tt.flags {
				require.NoError(t, flags.Set(name, value))
			}

			require.Error(t, bindFlagsToConfig(flags, cfg))
		})
	}
}
