package service

import "strings"

// normalizeEmail canonicalizes an address to lowercase. Every service entry
// point that stores or looks up an email goes through this, so the unique
// index and exact-match queries see one spelling per account.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
