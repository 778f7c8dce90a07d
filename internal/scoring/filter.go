package scoring

import "github.com/vijay-prabhu/gmail-triage/internal/email"

// AtLeast returns the summaries whose importance is >= min, preserving order.
// The input slice is not modified.
func AtLeast(summaries []email.Summary, min email.Importance) []email.Summary {
	included := make([]email.Summary, 0, len(summaries))
	for _, s := range summaries {
		if s.Importance >= min {
			included = append(included, s)
		}
	}
	return included
}

// Stats counts summaries per importance level
type Stats struct {
	Total  int `json:"total"`
	Low    int `json:"low"`
	Normal int `json:"normal"`
	High   int `json:"high"`
	Unread int `json:"unread"`
}

// GetStats returns statistics about scored summaries
func GetStats(summaries []email.Summary) Stats {
	stats := Stats{Total: len(summaries)}

	for _, s := range summaries {
		switch s.Importance {
		case email.ImportanceLow:
			stats.Low++
		case email.ImportanceNormal:
			stats.Normal++
		case email.ImportanceHigh:
			stats.High++
		}
		if !s.IsRead {
			stats.Unread++
		}
	}

	return stats
}
