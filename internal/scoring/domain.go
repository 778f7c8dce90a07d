package scoring

import "strings"

// senderDomain returns the text after the first "@" of an address, lowercased.
// Addresses without "@" have no domain.
func senderDomain(address string) string {
	_, domain, ok := strings.Cut(strings.TrimSpace(address), "@")
	if !ok {
		return ""
	}
	return strings.ToLower(domain)
}

// ValidateDomain checks that a value can be used as an important domain
func ValidateDomain(domain string) (string, bool) {
	d := normalizeDomain(domain)
	if d == "" || strings.ContainsAny(d, "@ \t/") || !strings.Contains(d, ".") {
		return "", false
	}
	return d, true
}
