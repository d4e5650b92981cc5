package utils

import "strings"

// textContentTypeMarkers is a list of substrings that mark a content type as text-based.
// Matching is an intentionally loose, case-insensitive substring check rather than MIME parsing:
// "application/json; charset=utf-8" matches via "json",
// "application/x-www-form-urlencoded" via its full token.
//
//nolint:gochecknoglobals // This is an immutable list used as a constant.
var textContentTypeMarkers = []string{
	"html",
	"text",
	"xml",
	"json",
	"txt",
	"x-www-form-urlencoded",
}

// IsTextContentType checks if the given content type represents a text-based format.
// An empty content type is never considered text: bodies without an explicit
// content type are treated as binary and must not be read for logging.
func IsTextContentType(contentType string) bool {
	if contentType == "" {
		return false
	}

	lowered := strings.ToLower(contentType)
	for _, marker := range textContentTypeMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}

	return false
}
