package http

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// entityHeaderNames is the subset of headers that describe the message payload
// rather than the message itself. Go folds them into the single header map,
// so the "content headers" log sections are rendered from this subset.
//
//nolint:gochecknoglobals // This is an immutable set used as a constant.
var entityHeaderNames = map[string]struct{}{
	"Content-Type":        {},
	"Content-Length":      {},
	"Content-Encoding":    {},
	"Content-Language":    {},
	"Content-Location":    {},
	"Content-Range":       {},
	"Content-Disposition": {},
	"Expires":             {},
	"Last-Modified":       {},
	"Trailer":             {},
}

// renderHeaders renders a header set as one "Key: comma-joined-values" line per header.
// Keys are sorted so the output is stable.
func renderHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	var sb strings.Builder

	for i, key := range keys {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(strings.Join(headers[key], ", "))
	}

	return sb.String()
}

// contentHeaders extracts the entity-header subset of the given header set.
// A known content length missing from the map is synthesized into the result,
// since Go exposes it as a struct field rather than a header on outgoing requests.
func contentHeaders(headers http.Header, contentLength int64) http.Header {
	result := http.Header{}

	for key, values := range headers {
		if _, ok := entityHeaderNames[key]; ok {
			result[key] = values
		}
	}

	if contentLength > 0 && result.Get(contentLengthHeader) == "" {
		result.Set(contentLengthHeader, strconv.FormatInt(contentLength, 10))
	}

	return result
}
