package app

import (
	"context"
	"net/http"

	"github.com/oshokin/wiretap/internal/config"
	"github.com/oshokin/wiretap/internal/logger"
	http_transport "github.com/oshokin/wiretap/internal/transport/http"
	"github.com/oshokin/wiretap/internal/utils"
)

// ExecuteRootCommand is the entry point for the application.
// It builds the HTTP client with the logging transport chain,
// fetches the provided URLs, and prints a per-URL summary.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config, urls []string) {
	fetcher, err := NewFetcher(cfg, NewHTTPClient(cfg))
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize fetcher: %v", err)
	}

	results := fetcher.FetchURLs(ctx, urls)

	printSummary(ctx, results)
}

// NewHTTPClient builds an HTTP client whose transport chain injects a
// User-Agent header and logs every exchange:
// UserAgentInjector -> RequestLogger -> http.DefaultTransport.
func NewHTTPClient(cfg *config.Config) *http.Client {
	transport := http_transport.NewRequestLogger(nil, logger.Logger(), cfg.ToLogConfig())
	transport = http_transport.NewUserAgentInjector(transport, utils.NewSimpleUserAgentProvider(cfg.UserAgent))

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.ParsedTimeout,
	}
}

func printSummary(ctx context.Context, results []*FetchResult) {
	for _, result := range results {
		if result.Err != nil {
			logger.Errorf(ctx, "%s: %v", result.URL, result.Err)

			continue
		}

		if result.SavedTo != "" {
			logger.Infof(ctx, "%s -> %d, %s in %d ms, saved to '%s'",
				result.URL, result.StatusCode, result.HumanSize(), result.Duration.Milliseconds(), result.SavedTo)

			continue
		}

		logger.Infof(ctx, "%s -> %d, %s in %d ms",
			result.URL, result.StatusCode, result.HumanSize(), result.Duration.Milliseconds())
	}
}
