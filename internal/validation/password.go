package validation

import "regexp"

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit
)

var specialChars = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

// HasSpecialChar checks if a string contains at least one special character
func HasSpecialChar(s string) bool {
	return specialChars.MatchString(s)
}

// IsStrongPassword enforces the account password policy.
func IsStrongPassword(s string) bool {
	if len(s) < MinPasswordLength || len(s) > MaxPasswordLength {
		return false
	}
	return HasSpecialChar(s)
}
