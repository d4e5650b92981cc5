package http

import "time"

const (
	// DefaultTimeout is the default timeout duration for HTTP requests.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent is the default User-Agent string used for HTTP requests.
	DefaultUserAgent = "Wiretap/1.0"
)

const (
	// contentTypeHeader is the HTTP header name for Content-Type.
	contentTypeHeader = "Content-Type"

	// contentLengthHeader is the HTTP header name for Content-Length.
	contentLengthHeader = "Content-Length"

	// userAgentHeader is the HTTP header name for User-Agent.
	userAgentHeader = "User-Agent"
)
