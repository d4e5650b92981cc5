package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/wiretap/internal/constants"
	"github.com/oshokin/wiretap/internal/utils"
)

// LogConfig controls which sections of an HTTP exchange are emitted and at what severity.
// Each section toggle is independent; disabling one never affects the others
// or the exchange itself. The zero value logs nothing but still forwards requests.
type LogConfig struct {
	// RequestHeaders enables logging of the request header block.
	RequestHeaders bool
	// RequestContentHeaders enables logging of the request's entity headers.
	RequestContentHeaders bool
	// RequestBody enables logging of text-classified request bodies.
	RequestBody bool
	// ResponseHeaders enables logging of the response header block.
	ResponseHeaders bool
	// ResponseContentHeaders enables logging of the response's entity headers.
	ResponseContentHeaders bool
	// ResponseBody enables logging of text-classified response bodies.
	ResponseBody bool
	// Level is the severity applied to every emitted line.
	Level zapcore.Level
	// MaxLogLength is the maximum length of emitted body text.
	// Truncation applies to the log output only; forwarded bodies are never cut.
	MaxLogLength uint64
}

// RequestLogger is a custom http.RoundTripper that logs HTTP requests and responses
// through an injected zap sink. It wraps another http.RoundTripper, emits the
// configured sections before and after delegating, and returns the response
// (or error) from the underlying transport untouched. Every line of one
// exchange carries the same generated request identifier, so concurrent
// exchanges through a single instance stay distinguishable.
//
// Bodies selected for logging are fully buffered, logged, and re-materialized,
// so downstream consumers observe identical bytes. Memory use is proportional
// to body size, which is acceptable for a diagnostic decorator.
type RequestLogger struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// sink receives the emitted log entries.
	sink *zap.SugaredLogger
	// cfg selects the sections to emit.
	cfg LogConfig
}

// Static error definitions for better error handling.
var (
	// ErrNilRequest indicates that the HTTP request is nil.
	ErrNilRequest = errors.New("request is nil")
)

// NewRequestLogger creates and returns a new instance of RequestLogger.
// A nil next defaults to http.DefaultTransport. A nil sink silently discards
// every emission while still forwarding requests, so callers never have to
// special-case an absent logger. A non-positive MaxLogLength defaults to
// constants.DefaultMaxLogLength.
func NewRequestLogger(next http.RoundTripper, sink *zap.SugaredLogger, cfg LogConfig) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	if sink == nil {
		sink = zap.NewNop().Sugar()
	}

	if cfg.MaxLogLength == 0 {
		cfg.MaxLogLength = constants.DefaultMaxLogLength
	}

	return &RequestLogger{
		next: next,
		sink: sink,
		cfg:  cfg,
	}
}

// RoundTrip executes a single HTTP transaction and logs the request and response.
// It implements the http.RoundTripper interface. Errors from the underlying
// transport and from body reads propagate unchanged: no retry, no suppression,
// no wrapping into new error types beyond %w annotation of read failures.
func (t *RequestLogger) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	// Skip all logging work when the sink won't emit at the configured level.
	if !t.sink.Desugar().Core().Enabled(t.cfg.Level) {
		return t.next.RoundTrip(req)
	}

	scope := t.sink.With(
		"request_id", uuid.NewString(),
		"host", req.URL.Scheme+"://"+req.URL.Host,
		"request", requestSummary(req),
	)

	req, err := t.logRequest(scope, req)
	if err != nil {
		return nil, err
	}

	// Record the start time to measure the duration of the request.
	startTime := time.Now()

	// Forward the request to the underlying RoundTripper.
	resp, err := t.next.RoundTrip(req)

	// Calculate the duration of the request.
	duration := time.Since(startTime)

	if err != nil {
		scope.Logf(t.cfg.Level, "Request failed after %d ms: %v", duration.Milliseconds(), err)

		return nil, err
	}

	scope.Logf(t.cfg.Level, "Received response in %d ms", duration.Milliseconds())
	scope.Logf(t.cfg.Level, "%s/%d.%d %d %s",
		strings.ToUpper(req.URL.Scheme), resp.ProtoMajor, resp.ProtoMinor, resp.StatusCode, statusReason(resp))

	if err = t.logResponse(scope, resp); err != nil {
		return nil, err
	}

	scope.Logf(t.cfg.Level, "Request ended")

	return resp, nil
}

// logRequest emits the configured request sections. When the body is read for
// logging, the returned request is a clone carrying a replayable copy, so the
// underlying transport still sends the exact original bytes.
func (t *RequestLogger) logRequest(scope *zap.SugaredLogger, req *http.Request) (*http.Request, error) {
	if t.cfg.RequestHeaders {
		scope.Logf(t.cfg.Level, "Request headers:\n%s", renderHeaders(req.Header))
	}

	if req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}

	if t.cfg.RequestContentHeaders {
		scope.Logf(t.cfg.Level, "Request content headers:\n%s",
			renderHeaders(contentHeaders(req.Header, req.ContentLength)))
	}

	if !t.cfg.RequestBody || !utils.IsTextContentType(req.Header.Get(contentTypeHeader)) {
		return req, nil
	}

	body, err := io.ReadAll(req.Body)

	_ = req.Body.Close() //nolint:errcheck // The body is fully consumed; close failures carry no information.

	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	scope.Logf(t.cfg.Level, "Request body:\n%s", t.truncate(body))

	clone := req.Clone(req.Context())
	clone.Body = io.NopCloser(bytes.NewReader(body))
	clone.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}

	return clone, nil
}

// logResponse emits the configured response sections. When the body is read
// for logging, it is re-materialized onto the response so the caller can
// still read it in full.
func (t *RequestLogger) logResponse(scope *zap.SugaredLogger, resp *http.Response) error {
	if t.cfg.ResponseHeaders {
		scope.Logf(t.cfg.Level, "Response headers:\n%s", renderHeaders(resp.Header))
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		return nil
	}

	if t.cfg.ResponseContentHeaders {
		scope.Logf(t.cfg.Level, "Response content headers:\n%s",
			renderHeaders(contentHeaders(resp.Header, resp.ContentLength)))
	}

	if !t.cfg.ResponseBody || !utils.IsTextContentType(resp.Header.Get(contentTypeHeader)) {
		return nil
	}

	// The read is timed separately from the round trip: servers may stream
	// the body long after the headers arrive.
	readStart := time.Now()

	body, err := io.ReadAll(resp.Body)

	readDuration := time.Since(readStart)

	_ = resp.Body.Close() //nolint:errcheck // The body is fully consumed; close failures carry no information.

	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	scope.Logf(t.cfg.Level, "Response body:\n%s", t.truncate(body))
	scope.Logf(t.cfg.Level, "Read response body in %d ms", readDuration.Milliseconds())

	resp.Body = io.NopCloser(bytes.NewReader(body))

	return nil
}

func (t *RequestLogger) truncate(data []byte) string {
	if uint64(len(data)) > t.cfg.MaxLogLength {
		return string(data[:t.cfg.MaxLogLength]) + "... [truncated]"
	}

	return string(data)
}

// requestSummary renders a request as "METHOD path scheme/version", e.g.
// "GET /items?x=1 http/1.1".
func requestSummary(req *http.Request) string {
	return fmt.Sprintf("%s %s %s/%d.%d",
		req.Method, req.URL.RequestURI(), req.URL.Scheme, req.ProtoMajor, req.ProtoMinor)
}

// statusReason extracts the reason phrase from a response status line,
// falling back to the standard text for the status code.
func statusReason(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		return http.StatusText(resp.StatusCode)
	}

	return reason
}
