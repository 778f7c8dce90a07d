package query

import (
	"testing"
	"time"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
)

func TestRecent(t *testing.T) {
	b := NewBuilder(100)

	tests := []struct {
		name    string
		limit   int
		wantErr bool
	}{
		{"default limit", DefaultLimit, false},
		{"one", 1, false},
		{"zero", 0, true},
		{"negative", -5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := b.Recent(tt.limit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Recent(%d) error = %v, wantErr %v", tt.limit, err, tt.wantErr)
			}
			if tt.wantErr {
				if !email.IsKind(err, email.KindValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if plan.Query != "" {
				t.Errorf("Query = %q, want empty", plan.Query)
			}
			if plan.MaxResults != tt.limit {
				t.Errorf("MaxResults = %d, want %d", plan.MaxResults, tt.limit)
			}
		})
	}
}

func TestByDate(t *testing.T) {
	b := NewBuilder(100)

	plan, err := b.ByDate("2024-02-01")
	if err != nil {
		t.Fatalf("ByDate error: %v", err)
	}

	// 2024-02-01T00:00:00Z = 1706745600, next day = 1706832000
	if want := "after:1706745600 before:1706832000"; plan.Query != want {
		t.Errorf("Query = %q, want %q", plan.Query, want)
	}
	if plan.MaxResults != 100 {
		t.Errorf("MaxResults = %d, want 100", plan.MaxResults)
	}
	if plan.Kind != KindDate {
		t.Errorf("Kind = %v", plan.Kind)
	}
}

func TestByDate_Malformed(t *testing.T) {
	b := NewBuilder(100)

	for _, input := range []string{"", "2024/02/01", "01-02-2024", "2024-13-01", "2024-02-30", "yesterday"} {
		_, err := b.ByDate(input)
		if !email.IsKind(err, email.KindValidation) {
			t.Errorf("ByDate(%q) = %v, want validation error", input, err)
		}
	}
}

func TestByRange(t *testing.T) {
	b := NewBuilder(100)

	tests := []struct {
		name      string
		from, to  string
		wantQuery string
		wantErr   bool
	}{
		{
			name:      "one month",
			from:      "2024-01-01",
			to:        "2024-01-31",
			wantQuery: "after:1704067200 before:1706745600",
		},
		{
			name:      "same day behaves like ByDate",
			from:      "2024-02-01",
			to:        "2024-02-01",
			wantQuery: "after:1706745600 before:1706832000",
		},
		{
			name:    "from after to",
			from:    "2024-02-01",
			to:      "2024-01-01",
			wantErr: true,
		},
		{
			name:    "bad from",
			from:    "feb",
			to:      "2024-01-01",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := b.ByRange(tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ByRange error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !email.IsKind(err, email.KindValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if plan.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", plan.Query, tt.wantQuery)
			}
		})
	}
}

func TestSameDayRangeMatchesByDate(t *testing.T) {
	b := NewBuilder(20)

	day, _ := b.ByDate("2023-12-31")
	span, _ := b.ByRange("2023-12-31", "2023-12-31")

	if day.Query != span.Query || day.MaxResults != span.MaxResults {
		t.Errorf("ByDate = %+v, ByRange = %+v", day, span)
	}
}

func TestDay(t *testing.T) {
	b := NewBuilder(10)

	// Late evening in a zone east of UTC is still the previous UTC day
	loc := time.FixedZone("UTC+9", 9*3600)
	plan := b.Day(time.Date(2024, 2, 2, 5, 0, 0, 0, loc))

	if want := "after:1706745600 before:1706832000"; plan.Query != want {
		t.Errorf("Query = %q, want %q", plan.Query, want)
	}
}

func TestSearch(t *testing.T) {
	b := NewBuilder(100)

	plan, err := b.Search("from:boss@work.com subject:(budget review)")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if plan.Query != "from:boss@work.com subject:(budget review)" {
		t.Errorf("Query was modified: %q", plan.Query)
	}

	if _, err := b.Search("   "); !email.IsKind(err, email.KindValidation) {
		t.Errorf("expected validation error for blank query, got %v", err)
	}
}
