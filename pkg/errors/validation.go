package errors

import (
	"strings"
	"unicode"
)

// maxKeyLength bounds node keys given on the command line.
const maxKeyLength = 256

// ValidateKey checks a node key given by the user, such as the --root flag.
// Keys in definition files are checked by the definition loader; this only
// rejects input that could never name a node.
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "node key cannot be empty")
	}
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidInput, "node key too long (max %d characters)", maxKeyLength)
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node key contains control characters")
		}
	}
	if strings.TrimSpace(key) != key {
		return New(ErrCodeInvalidInput, "node key %q has surrounding whitespace", key)
	}
	return nil
}

// ValidateOutputPath checks a file path the CLI is about to write to.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "output path %q is a directory", path)
	}
	return nil
}

// ValidateRedisURL validates a cache URL before dialing.
// It ensures the URL uses a scheme go-redis understands.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "redis URL cannot be empty")
	}
	for _, scheme := range []string{"redis://", "rediss://", "unix://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "redis URL must use redis, rediss or unix scheme")
}
