package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// MaxResolution bounds the grid side length accepted from users. Beyond it
// the rows of a full block no longer fit a reasonable renderer.
const MaxResolution = 1000

// txidRegex matches a 32-byte transaction id in hex.
var txidRegex = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// ValidateDimensions validates renderer dimensions.
// Both values must be finite and positive.
func ValidateDimensions(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return New(ErrCodeInvalidDimensions, "dimensions must be positive, got %vx%v", width, height)
		}
	}
	return nil
}

// ValidateResolution validates a grid side length.
func ValidateResolution(resolution int) error {
	if resolution < 1 || resolution > MaxResolution {
		return New(ErrCodeInvalidDimensions, "resolution must be between 1 and %d, got %d", MaxResolution, resolution)
	}
	return nil
}

// ValidateCellSize rejects renderer widths whose cells are too narrow to
// draw a square inside the padding.
func ValidateCellSize(width float64, resolution int) error {
	if resolution <= 0 {
		return ValidateResolution(resolution)
	}
	cell := width / float64(resolution)
	pad := math.Max(1, math.Floor(width/1000))
	if cell <= 2*pad {
		return New(ErrCodeInvalidDimensions, "width %v too small for %d cells", width, resolution)
	}
	return nil
}

// ValidateTxID validates a transaction id as 64 hex characters.
func ValidateTxID(id string) error {
	if !txidRegex.MatchString(id) {
		return New(ErrCodeInvalidTx, "invalid txid %q", id)
	}
	return nil
}

// ValidatePath validates a local file path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a redis, http or https scheme.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	for _, scheme := range []string{"http://", "https://", "redis://", "rediss://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use http, https, redis or rediss scheme")
}
