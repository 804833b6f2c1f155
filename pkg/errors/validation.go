package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxVolumeSide bounds each side of a build volume. The game service uses
// volumes around 30x30x100; anything far past that is a malformed request.
const MaxVolumeSide = 1000

// MaxVolumeCells bounds width*depth*height. Every build allocates one cell
// per unit of volume, and explore runs one build per base word.
const MaxVolumeCells = 4_000_000

// MaxWords bounds the vocabulary size accepted from callers.
const MaxWords = 10000

// ValidateVolume checks a width x depth x height triple.
// Every side must be positive and at most MaxVolumeSide, and the volume
// must hold at most MaxVolumeCells cells.
func ValidateVolume(width, depth, height int) error {
	for _, side := range []struct {
		name string
		v    int
	}{{"width", width}, {"depth", depth}, {"height", height}} {
		if side.v <= 0 {
			return New(ErrCodeInvalidVolume, "volume %s must be positive, got %d", side.name, side.v)
		}
		if side.v > MaxVolumeSide {
			return New(ErrCodeInvalidVolume, "volume %s too large (max %d), got %d", side.name, MaxVolumeSide, side.v)
		}
	}
	if cells := width * depth * height; cells > MaxVolumeCells {
		return New(ErrCodeInvalidVolume, "volume %dx%dx%d has %d cells (max %d)", width, depth, height, cells, MaxVolumeCells)
	}
	return nil
}

// ValidateWords checks a vocabulary supplied by a caller.
//
// Validation rules:
//   - At least one word, at most MaxWords
//   - No empty words
//   - Valid UTF-8 with no whitespace or control characters
func ValidateWords(words []string) error {
	if len(words) == 0 {
		return New(ErrCodeInvalidInput, "word list cannot be empty")
	}
	if len(words) > MaxWords {
		return New(ErrCodeInvalidInput, "too many words (max %d)", MaxWords)
	}
	for i, w := range words {
		if w == "" {
			return New(ErrCodeInvalidInput, "word %d is empty", i)
		}
		if !utf8.ValidString(w) {
			return New(ErrCodeInvalidInput, "word %d is not valid UTF-8", i)
		}
		for _, r := range w {
			if unicode.IsSpace(r) || unicode.IsControl(r) {
				return New(ErrCodeInvalidInput, "word %d (%q) contains whitespace or control characters", i, w)
			}
		}
	}
	return nil
}

// ValidateToken checks an auth token before it is put in a header.
func ValidateToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return New(ErrCodeUnauthorized, "auth token cannot be empty")
	}
	for _, r := range token {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeUnauthorized, "auth token contains invalid characters")
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

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
