package scoring

import (
	"testing"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
)

func sampleSummaries() []email.Summary {
	return []email.Summary{
		{ID: "1", Importance: email.ImportanceLow, IsRead: true},
		{ID: "2", Importance: email.ImportanceHigh},
		{ID: "3", Importance: email.ImportanceNormal},
		{ID: "4", Importance: email.ImportanceHigh, IsRead: true},
		{ID: "5", Importance: email.ImportanceNormal},
	}
}

func TestAtLeast(t *testing.T) {
	all := sampleSummaries()

	tests := []struct {
		min     email.Importance
		wantIDs []string
	}{
		{email.ImportanceLow, []string{"1", "2", "3", "4", "5"}},
		{email.ImportanceNormal, []string{"2", "3", "4", "5"}},
		{email.ImportanceHigh, []string{"2", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.min.String(), func(t *testing.T) {
			got := AtLeast(all, tt.min)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d summaries, want %d", len(got), len(tt.wantIDs))
			}
			for i, s := range got {
				if s.ID != tt.wantIDs[i] {
					t.Errorf("position %d: got %s, want %s", i, s.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestAtLeast_Monotonic(t *testing.T) {
	all := sampleSummaries()
	prev := len(all) + 1

	for min := email.ImportanceLow; min <= email.ImportanceHigh; min++ {
		got := AtLeast(all, min)
		if len(got) > prev {
			t.Errorf("raising threshold to %v grew the result: %d > %d", min, len(got), prev)
		}
		ids := make(map[string]bool, len(all))
		for _, s := range all {
			ids[s.ID] = true
		}
		for _, s := range got {
			if !ids[s.ID] {
				t.Errorf("filtered result contains %s which is not in the input", s.ID)
			}
		}
		prev = len(got)
	}
}

func TestGetStats(t *testing.T) {
	stats := GetStats(sampleSummaries())

	if stats.Total != 5 || stats.Low != 1 || stats.Normal != 2 || stats.High != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.Unread != 3 {
		t.Errorf("Unread = %d, want 3", stats.Unread)
	}
}
