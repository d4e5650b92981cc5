// Package utils provides small helpers shared across the application,
// such as content type classification and User-Agent resolution.
// It is designed to keep repetitive logic out of the transport and app layers.
package utils
