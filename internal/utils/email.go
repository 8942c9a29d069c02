package utils

import "strings"

// NormalizeEmail is applied to every email on write and before every
// comparison so that lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
