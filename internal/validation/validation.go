// Package validation checks user-supplied registration fields.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLength bounds display names so they fit the users.name column on every dialect.
const MaxNameLength = 64

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateOptionalEmail accepts an empty address; anything else must be valid.
func ValidateOptionalEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	return ValidateEmail(email)
}

// ValidateName checks a display name. Names are case-sensitive and compared
// exactly, so surrounding whitespace is rejected rather than trimmed.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ValidationError{Field: "user_name", Message: "user name is required"}
	}
	if name != strings.TrimSpace(name) {
		return ValidationError{Field: "user_name", Message: "user name must not start or end with whitespace"}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ValidationError{Field: "user_name", Message: fmt.Sprintf("user name must be at most %d characters", MaxNameLength)}
	}
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return ValidationError{Field: "user_name", Message: "user name contains invalid characters"}
		}
	}
	return nil
}
