package errors

import (
	"strings"
	"unicode"
)

// maxCountryLength bounds a country label; longer labels cannot fit any
// reasonable left margin and usually mean a malformed row.
const maxCountryLength = 256

// ValidateCountryName validates a country key read from a dataset row.
//
// The rules are:
//   - Not empty after trimming whitespace
//   - No control characters (including null bytes and newlines)
//   - Maximum length of 256 bytes
func ValidateCountryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidCSV, "country name cannot be empty")
	}

	if len(name) > maxCountryLength {
		return New(ErrCodeInvalidCSV, "country name too long (max %d characters)", maxCountryLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCSV, "country name contains invalid control characters")
		}
	}

	return nil
}

// ValidateSourcePath validates a local dataset path given on the command line.
// Absolute and relative paths are both accepted; "-" means stdin.
func ValidateSourcePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !IsURL(rawURL) {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// IsURL reports whether s looks like an http(s) URL rather than a local path.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ValidateHexColor validates a CSS hex color such as "#4682b4" or "#abc".
func ValidateHexColor(c string) error {
	s := strings.TrimPrefix(c, "#")
	if len(s) != 3 && len(s) != 6 || len(s) == len(c) {
		return New(ErrCodeInvalidInput, "color must be #rgb or #rrggbb, got %q", c)
	}
	for _, r := range s {
		if !unicode.Is(unicode.ASCII_Hex_Digit, r) {
			return New(ErrCodeInvalidInput, "color must be #rgb or #rrggbb, got %q", c)
		}
	}
	return nil
}
