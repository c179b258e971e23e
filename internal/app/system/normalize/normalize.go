// Package normalize canonicalizes user-supplied strings before they are
// stored or compared.
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and collapses inner runs of whitespace.
// Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Status trims and lowercases an account status.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// InvitationCode trims surrounding whitespace. Codes are case-sensitive.
func InvitationCode(s string) string {
	return strings.TrimSpace(s)
}
