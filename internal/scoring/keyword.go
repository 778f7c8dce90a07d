package scoring

import "strings"

// containsAny returns the first pattern (in list order) contained in text,
// ignoring case. Patterns are expected to be lowercase already.
func containsAny(text string, patterns []string) (string, bool) {
	if text == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return p, true
		}
	}
	return "", false
}
