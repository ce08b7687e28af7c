package sanitizer

import "strings"

// NormalizeEmail lowercases an address and trims surrounding whitespace.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NormalizeEmails(emails []string) []string {
	out := make([]string, len(emails))
	for i, e := range emails {
		out[i] = NormalizeEmail(e)
	}
	return out
}
