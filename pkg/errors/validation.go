package errors

import (
	"strings"
	"unicode"
)

// maxCategoryLength bounds category names taken from section headers.
const maxCategoryLength = 64

// ValidateCategory validates a category name taken from a "<from>-to-<to> map:"
// section header.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No whitespace or control characters
//   - No embedded "-to-" separator
//   - Maximum length of 64 characters
func ValidateCategory(name string) error {
	if name == "" {
		return New(ErrCodeInvalidHeader, "category name cannot be empty")
	}

	if len(name) > maxCategoryLength {
		return New(ErrCodeInvalidHeader, "category name too long (max %d characters)", maxCategoryLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidHeader, "category name %q contains whitespace or control characters", name)
		}
	}

	if strings.Contains(name, "-to-") {
		return New(ErrCodeInvalidHeader, "category name %q contains the -to- separator", name)
	}

	return nil
}

// ValidateURL validates a cache backend URL for the given schemes.
// It only checks the scheme prefix; the drivers do full parsing.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}

	return New(ErrCodeInvalidConfig, "URL must use one of the schemes: %s", strings.Join(schemes, ", "))
}
