// Package http provides custom HTTP transport decorators,
// including detailed request/response logging and User-Agent header injection.
// Each decorator implements http.RoundTripper and wraps another one,
// so they can be chained in any order around the actual transport.
package http
