package services

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minUsernameLen = 3
	minPasswordLen = 10
	maxEmailLen    = 254
	maxTitleLen    = 200
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[^A-Za-z0-9]`)
)

const (
	msgUsernameTooShort = "Username must be at least 3 characters."
	msgUsernameChars    = "Username can only contain letters, numbers and underscores."
	msgInvalidEmail     = "Please enter a valid email address."
	msgPasswordLength   = "Password must be at least 10 characters."
	msgPasswordUpper    = "Password must contain at least one uppercase letter."
	msgPasswordLower    = "Password must contain at least one lowercase letter."
	msgPasswordDigit    = "Password must contain at least one number."
	msgPasswordSpecial  = "Password must contain at least one special character."
)

// ValidateUsername returns the first rule the username breaks, or "".
func ValidateUsername(username string) string {
	if utf8.RuneCountInString(username) < minUsernameLen {
		return msgUsernameTooShort
	}
	if !usernamePattern.MatchString(username) {
		return msgUsernameChars
	}
	return ""
}

func IsValidEmail(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" || len(trimmed) > maxEmailLen {
		return false
	}
	return emailPattern.MatchString(trimmed)
}

// ValidatePassword checks length, uppercase, lowercase, digit and special
// character in that order and returns the message of the first failing rule.
func ValidatePassword(password string) string {
	switch {
	case utf8.RuneCountInString(password) < minPasswordLen:
		return msgPasswordLength
	case !upperPattern.MatchString(password):
		return msgPasswordUpper
	case !lowerPattern.MatchString(password):
		return msgPasswordLower
	case !digitPattern.MatchString(password):
		return msgPasswordDigit
	case !specialPattern.MatchString(password):
		return msgPasswordSpecial
	}
	return ""
}

// Fold normalizes a username or email for storage and uniqueness checks.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
