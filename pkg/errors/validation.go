package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds part, view and activity identifiers.
const maxIDLength = 256

// ValidateID validates a part, view or activity identifier.
//
// Identifiers double as persistence keys and HTTP path segments, so the
// rules are conservative:
//   - No empty ids
//   - No control characters or whitespace
//   - No path separators
//   - Maximum length of 256 characters
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "%s id too long (max %d characters)", kind, maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "%s id contains invalid characters", kind)
		}
	}

	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidInput, "%s id cannot contain path separators", kind)
	}

	return nil
}

// ValidateRatio checks that r lies strictly inside (0,1).
// NaN is rejected because every comparison against it is false.
func ValidateRatio(r float64) error {
	if !(r > 0 && r < 1) {
		return New(ErrCodeInvalidRatio, "ratio %v must be in (0,1)", r)
	}
	return nil
}
