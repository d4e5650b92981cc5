package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/oshokin/wiretap/internal/config"
	"github.com/oshokin/wiretap/internal/constants"
	"github.com/oshokin/wiretap/internal/logger"
)

// Fetcher executes HTTP requests against a list of URLs through a shared client.
type Fetcher struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// client is the HTTP client carrying the logging transport chain.
	client *http.Client
	// body holds the request body bytes, loaded once and replayed per request.
	body []byte
}

// FetchResult describes the outcome of one URL fetch.
type FetchResult struct {
	// URL is the requested URL.
	URL string
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// BytesRead is the number of response body bytes consumed.
	BytesRead int64
	// SavedTo is the file the body was written to, if an output path was set.
	SavedTo string
	// Duration is the wall-clock time of the whole fetch including the body read.
	Duration time.Duration
	// Err is the error that failed the fetch, if any.
	Err error
}

// HumanSize renders the consumed body size in human-readable form.
func (r *FetchResult) HumanSize() string {
	if r.BytesRead < 0 {
		return "0 B"
	}

	return humanize.IBytes(uint64(r.BytesRead))
}

// NewFetcher creates a Fetcher.
// The request body, when configured from a file, is loaded eagerly so that
// every request replays the same bytes.
func NewFetcher(cfg *config.Config, client *http.Client) (*Fetcher, error) {
	var body []byte

	switch {
	case cfg.RequestBodyFile != "":
		content, err := os.ReadFile(cfg.RequestBodyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body file: %w", err)
		}

		body = content
	case cfg.RequestBody != "":
		body = []byte(cfg.RequestBody)
	}

	return &Fetcher{
		cfg:    cfg,
		client: client,
		body:   body,
	}, nil
}

// FetchURLs fetches every URL, at most cfg.MaxConcurrentRequests at a time.
// One URL failing never aborts the others; each result carries its own error.
func (f *Fetcher) FetchURLs(ctx context.Context, urls []string) []*FetchResult {
	results := make([]*FetchResult, len(urls))

	g := new(errgroup.Group)
	g.SetLimit(int(f.cfg.MaxConcurrentRequests))

	for i, target := range urls {
		g.Go(func() error {
			results[i] = f.fetchURL(ctx, target)

			return nil
		})
	}

	// Workers never return errors; failures live in the per-URL results.
	_ = g.Wait()

	return results
}

func (f *Fetcher) fetchURL(ctx context.Context, target string) *FetchResult {
	result := &FetchResult{URL: target}

	startTime := time.Now()

	resp, err := f.doRequest(ctx, target)
	if err != nil {
		result.Err = err

		return result
	}

	defer resp.Body.Close() //nolint:errcheck // The body is drained below; close failures carry no information.

	result.StatusCode = resp.StatusCode
	result.BytesRead, result.SavedTo, result.Err = f.consumeBody(target, resp)
	result.Duration = time.Since(startTime)

	return result
}

func (f *Fetcher) doRequest(ctx context.Context, target string) (*http.Response, error) {
	var body io.Reader
	if len(f.body) > 0 {
		body = bytes.NewReader(f.body)
	}

	req, err := http.NewRequestWithContext(ctx, f.cfg.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for name, values := range f.cfg.ParsedHeaders {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	return f.client.Do(req)
}

// consumeBody drains the response body, either into a file under the output
// path or into the void. Draining keeps the underlying connection reusable.
func (f *Fetcher) consumeBody(target string, resp *http.Response) (int64, string, error) {
	if f.cfg.OutputPath == "" {
		bytesRead, err := io.Copy(io.Discard, resp.Body)
		if err != nil {
			return bytesRead, "", fmt.Errorf("failed to read response body: %w", err)
		}

		return bytesRead, "", nil
	}

	if err := os.MkdirAll(f.cfg.OutputPath, constants.DefaultFolderPermissions); err != nil {
		return 0, "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputFile := filepath.Join(f.cfg.OutputPath, outputFilename(target))

	file, err := os.OpenFile(outputFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.DefaultFilePermissions)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create output file: %w", err)
	}

	defer file.Close() //nolint:errcheck // Best-effort close after the full body is written.

	// Progress bars are disabled when fetching concurrently to avoid terminal output conflicts.
	var writer io.Writer = file

	if logger.Level() <= zapcore.InfoLevel && f.cfg.MaxConcurrentRequests == 1 {
		bar := progressbar.DefaultBytes(resp.ContentLength, "Downloading")
		writer = io.MultiWriter(file, bar)
	}

	bytesWritten, err := io.Copy(writer, resp.Body)
	if err != nil {
		return bytesWritten, outputFile, fmt.Errorf("failed to save response body: %w", err)
	}

	return bytesWritten, outputFile, nil
}

// outputFilename derives a file name from the URL path,
// falling back to the host and finally to a generated name.
func outputFilename(target string) string {
	parsed, err := url.Parse(target)
	if err != nil {
		return uuid.NewString()
	}

	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		name = parsed.Host
	}

	if name == "" {
		name = uuid.NewString()
	}

	return name
}
