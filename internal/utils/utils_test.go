package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIsTextContentType tests the IsTextContentType function.
func TestIsTextContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		expected    bool
	}{
		{
			name:        "plain text",
			contentType: "text/plain",
			expected:    true,
		},
		{
			name:        "html",
			contentType: "text/html; charset=utf-8",
			expected:    true,
		},
		{
			name:        "json",
			contentType: "application/json",
			expected:    true,
		},
		{
			name:        "json with charset",
			contentType: "application/json; charset=utf-8",
			expected:    true,
		},
		{
			name:        "xml",
			contentType: "application/xml",
			expected:    true,
		},
		{
			name:        "saml metadata xml",
			contentType: "application/samlmetadata+xml",
			expected:    true,
		},
		{
			name:        "form urlencoded",
			contentType: "application/x-www-form-urlencoded",
			expected:    true,
		},
		{
			name:        "txt",
			contentType: "application/txt",
			expected:    true,
		},
		{
			name:        "uppercase json",
			contentType: "APPLICATION/JSON",
			expected:    true,
		},
		{
			name:        "octet stream",
			contentType: "application/octet-stream",
			expected:    false,
		},
		{
			name:        "jpeg image",
			contentType: "image/jpeg",
			expected:    false,
		},
		{
			name:        "pdf",
			contentType: "application/pdf",
			expected:    false,
		},
		{
			name:        "empty content type",
			contentType: "",
			expected:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := IsTextContentType(tt.contentType)
			assert.Equal(t, tt.expected, result)
		})
	}
}
