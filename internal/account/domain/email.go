package domain

import "strings"

// NormalizeEmail canonicalizes an email for storage and lookup: surrounding
// whitespace dropped, lowercased. Uniqueness is enforced over this form, so
// "Alice@Example.com " and "alice@example.com" are the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
