package errors

import (
	"strings"
	"unicode"
)

// ValidateSentinel checks the backtracking sentinel token.
// The sentinel must be a non-empty token without whitespace or control
// characters, and must not contain the path delimiter (otherwise splitting
// would never produce it as a token).
func ValidateSentinel(sentinel, delimiter string) error {
	if sentinel == "" {
		return New(ErrCodeInvalidOption, "sentinel cannot be empty")
	}
	for _, r := range sentinel {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidOption, "sentinel contains whitespace or control characters: %q", sentinel)
		}
	}
	if delimiter != "" && strings.Contains(sentinel, delimiter) {
		return New(ErrCodeInvalidOption, "sentinel %q contains the path delimiter %q", sentinel, delimiter)
	}
	return nil
}

// ValidateDelimiter checks the token delimiter used to split a path record.
func ValidateDelimiter(delimiter string) error {
	if delimiter == "" {
		return New(ErrCodeInvalidOption, "delimiter cannot be empty")
	}
	if strings.ContainsAny(delimiter, "\n\r") {
		return New(ErrCodeInvalidOption, "delimiter cannot contain line breaks")
	}
	return nil
}
