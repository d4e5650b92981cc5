package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/wiretap/internal/constants"
	"github.com/oshokin/wiretap/internal/logger"
	http_transport "github.com/oshokin/wiretap/internal/transport/http"
)

// Config holds all configuration settings.
type Config struct {
	// LogRequestHeaders enables the request headers section of the exchange log.
	LogRequestHeaders bool `mapstructure:"log_request_headers"`
	// LogRequestContentHeaders enables the request content headers section of the exchange log.
	LogRequestContentHeaders bool `mapstructure:"log_request_content_headers"`
	// LogRequestBody enables logging of text-classified request bodies.
	LogRequestBody bool `mapstructure:"log_request_body"`
	// LogResponseHeaders enables the response headers section of the exchange log.
	LogResponseHeaders bool `mapstructure:"log_response_headers"`
	// LogResponseContentHeaders enables the response content headers section of the exchange log.
	LogResponseContentHeaders bool `mapstructure:"log_response_content_headers"`
	// LogResponseBody enables logging of text-classified response bodies.
	LogResponseBody bool `mapstructure:"log_response_body"`
	// LogLevel specifies the logging verbosity level of the application.
	LogLevel string `mapstructure:"log_level"`
	// ExchangeLogLevel specifies the severity applied to every exchange log line.
	ExchangeLogLevel string `mapstructure:"exchange_log_level"`
	// MaxLogLength is the maximum size of logged body text (e.g., "64KB", "1MB").
	MaxLogLength string `mapstructure:"max_log_length"`
	// Timeout is the per-request timeout (e.g., "30s", "2m").
	Timeout string `mapstructure:"timeout"`
	// UserAgent is the User-Agent header injected into requests that lack one.
	UserAgent string `mapstructure:"user_agent"`
	// MaxConcurrentRequests is the maximum number of URLs fetched simultaneously.
	MaxConcurrentRequests int64 `mapstructure:"max_concurrent_requests"`
	// OutputPath is the directory where response bodies are saved when set.
	OutputPath string `mapstructure:"output_path"`
	// Method is the HTTP method used for every request.
	Method string
	// RequestBody is the literal request body to send.
	RequestBody string
	// RequestBodyFile is a file whose contents are sent as the request body.
	RequestBodyFile string
	// Headers holds raw "Name: Value" header definitions from flags.
	Headers []string
	// ParsedLogLevel is the parsed application log level.
	ParsedLogLevel zapcore.Level
	// ParsedExchangeLogLevel is the parsed exchange line severity.
	ParsedExchangeLogLevel zapcore.Level
	// ParsedMaxLogLength is the parsed body log size limit in bytes.
	ParsedMaxLogLength uint64
	// ParsedTimeout is the parsed per-request timeout.
	ParsedTimeout time.Duration
	// ParsedHeaders is the parsed header set built from Headers.
	ParsedHeaders http.Header
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".wiretap.yaml"

	// headerNameValueParts is the number of parts in a "Name: Value" header definition.
	headerNameValueParts = 2
)

// Static error definitions for better error handling.
var (
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownExchangeLogLevel indicates that the exchange log level is not recognized.
	ErrUnknownExchangeLogLevel = errors.New("unknown exchange log level")
	// ErrInvalidTimeout indicates that the timeout setting is invalid.
	ErrInvalidTimeout = errors.New("timeout must be positive")
	// ErrInvalidConcurrentRequests indicates that the concurrent requests count is invalid.
	ErrInvalidConcurrentRequests = errors.New("max concurrent requests must be a positive integer")
	// ErrEmptyMethod indicates that the HTTP method is empty.
	ErrEmptyMethod = errors.New("method cannot be empty")
	// ErrInvalidHeader indicates that a header definition is not in "Name: Value" form.
	ErrInvalidHeader = errors.New("header must be in 'Name: Value' form")
	// ErrBodyConflict indicates that both a literal body and a body file were provided.
	ErrBodyConflict = errors.New("data and data-file cannot be used together")
)

// LoadConfig loads configuration settings from a YAML file.
// A missing file is not an error: wiretap is usable with built-in defaults,
// and an explicitly named file that cannot be read still fails.
func LoadConfig(configFilename string) (*Config, error) {
	explicit := configFilename != ""
	if !explicit {
		configFilename = DefaultConfigFilename
	}

	viper.SetConfigFile(configFilename)
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("log_request_headers", true)
	viper.SetDefault("log_request_content_headers", true)
	viper.SetDefault("log_request_body", true)
	viper.SetDefault("log_response_headers", true)
	viper.SetDefault("log_response_content_headers", true)
	viper.SetDefault("log_response_body", true)
	viper.SetDefault("log_level", "debug")
	viper.SetDefault("exchange_log_level", "debug")
	viper.SetDefault("max_log_length", humanize.IBytes(constants.DefaultMaxLogLength))
	viper.SetDefault("timeout", http_transport.DefaultTimeout.String())
	viper.SetDefault("user_agent", http_transport.DefaultUserAgent)
	viper.SetDefault("max_concurrent_requests", constants.DefaultMaxConcurrentRequests)
}

// ValidateConfig checks the configuration for validity and sets derived fields.
func ValidateConfig(cfg *Config) error {
	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	parsedExchangeLogLevel, isExchangeLevelCorrect := logger.ParseLogLevel(cfg.ExchangeLogLevel)
	if !isExchangeLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownExchangeLogLevel, cfg.ExchangeLogLevel)
	}

	cfg.ParsedExchangeLogLevel = parsedExchangeLogLevel

	maxLogLength := strings.TrimSpace(cfg.MaxLogLength)
	if maxLogLength != "" && maxLogLength != "0" {
		parsedMaxLogLength, err := humanize.ParseBytes(maxLogLength)
		if err != nil {
			return fmt.Errorf("failed to parse max log length: %w", err)
		}

		cfg.ParsedMaxLogLength = parsedMaxLogLength
	}

	var err error

	cfg.ParsedTimeout, err = time.ParseDuration(cfg.Timeout)
	if err != nil {
		return fmt.Errorf("failed to parse timeout: %w", err)
	}

	if cfg.ParsedTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if cfg.MaxConcurrentRequests <= 0 {
		return ErrInvalidConcurrentRequests
	}

	method := strings.ToUpper(strings.TrimSpace(cfg.Method))
	if method == "" {
		return ErrEmptyMethod
	}

	cfg.Method = method

	if cfg.RequestBody != "" && cfg.RequestBodyFile != "" {
		return ErrBodyConflict
	}

	cfg.ParsedHeaders, err = parseHeaders(cfg.Headers)

	return err
}

// parseHeaders builds a header set from raw "Name: Value" definitions.
func parseHeaders(raw []string) (http.Header, error) {
	headers := http.Header{}

	for _, definition := range raw {
		parts := strings.SplitN(definition, ":", headerNameValueParts)
		if len(parts) != headerNameValueParts || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidHeader, definition)
		}

		headers.Add(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	}

	return headers, nil
}

// ToLogConfig converts the validated configuration into the transport's log settings.
func (cfg *Config) ToLogConfig() http_transport.LogConfig {
	return http_transport.LogConfig{
		RequestHeaders:         cfg.LogRequestHeaders,
		RequestContentHeaders:  cfg.LogRequestContentHeaders,
		RequestBody:            cfg.LogRequestBody,
		ResponseHeaders:        cfg.LogResponseHeaders,
		ResponseContentHeaders: cfg.LogResponseContentHeaders,
		ResponseBody:           cfg.LogResponseBody,
		Level:                  cfg.ParsedExchangeLogLevel,
		MaxLogLength:           cfg.ParsedMaxLogLength,
	}
}

// WriteDefaultConfig renders the default configuration as YAML
// and writes it to the given path. Existing files are not overwritten.
func WriteDefaultConfig(path string) error {
	if path == "" {
		path = DefaultConfigFilename
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file '%s' already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaults := map[string]any{
		"log_request_headers":          true,
		"log_request_content_headers":  true,
		"log_request_body":             true,
		"log_response_headers":         true,
		"log_response_content_headers": true,
		"log_response_body":            true,
		"log_level":                    "debug",
		"exchange_log_level":           "debug",
		"max_log_length":               humanize.IBytes(constants.DefaultMaxLogLength),
		"timeout":                      http_transport.DefaultTimeout.String(),
		"user_agent":                   http_transport.DefaultUserAgent,
		"max_concurrent_requests":      constants.DefaultMaxConcurrentRequests,
	}

	content, err := yaml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err = os.WriteFile(path, content, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
