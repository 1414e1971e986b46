package errors

import (
	"math"
	"strings"
	"unicode"
)

// Viewport limits accepted by ValidateSize.
const (
	MaxViewportSize = 100_000
)

// ValidateSize validates a viewport size.
// Width and height must be finite, positive and at most MaxViewportSize.
func ValidateSize(width, height float64) error {
	for _, v := range []struct {
		name string
		val  float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return New(ErrCodeInvalidSize, "%s must be a finite number", v.name)
		}
		if v.val <= 0 {
			return New(ErrCodeInvalidSize, "%s must be positive, got %g", v.name, v.val)
		}
		if v.val > MaxViewportSize {
			return New(ErrCodeInvalidSize, "%s too large (max %d)", v.name, MaxViewportSize)
		}
	}
	return nil
}

// ValidateDocumentID validates an identifier used to store or fetch a chart
// document. IDs are opaque strings of at most 64 characters without control
// characters, whitespace or path separators.
func ValidateDocumentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "document id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidID, "document id too long (max 64 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "document id contains invalid characters")
		}
	}
	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return New(ErrCodeInvalidID, "document id cannot contain path components")
	}
	return nil
}

// ValidateFormat validates an option file format name.
func ValidateFormat(format string) error {
	switch format {
	case "json", "toml":
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported option format %q (want json or toml)", format)
}
