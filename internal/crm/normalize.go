package crm

import "strings"

// NormalizeEmail lowercases and trims an e-mail address (or bare domain) so
// equality checks are case- and whitespace-insensitive. It performs no other
// validation; garbage in, normalized garbage out.
func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// EmailDomain extracts the normalized domain part of an e-mail address. It
// returns "" when the address has no "@" or nothing follows the last one, so
// callers can treat an empty result as "no join key".
func EmailDomain(email string) string {
	normalized := NormalizeEmail(email)
	at := strings.LastIndexByte(normalized, '@')
	if at < 0 || at == len(normalized)-1 {
		return ""
	}
	return normalized[at+1:]
}
