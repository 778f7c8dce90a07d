package scoring

import (
	"sync"
	"testing"

	"github.com/vijay-prabhu/gmail-triage/internal/config"
	"github.com/vijay-prabhu/gmail-triage/internal/email"
)

func TestScorer_Scenarios(t *testing.T) {
	s := NewScorer(DefaultRules())

	tests := []struct {
		name    string
		sender  string
		subject string
		labels  []string
		want    email.Importance
		rule    Rule
	}{
		{
			name:    "promotional newsletter",
			sender:  "newsletter@x.com",
			subject: "50% off",
			labels:  []string{"PROMOTIONS"},
			want:    email.ImportanceLow,
			rule:    RuleSpamLabel,
		},
		{
			name:    "urgent subject",
			sender:  "boss@work.com",
			subject: "URGENT: sign today",
			labels:  []string{"INBOX"},
			want:    email.ImportanceHigh,
			rule:    RuleUrgentKeyword,
		},
		{
			name:    "regular mail",
			sender:  "friend@gmail.com",
			subject: "hi",
			labels:  []string{"INBOX"},
			want:    email.ImportanceNormal,
			rule:    RuleDefault,
		},
		{
			name:    "noreply sender",
			sender:  "noreply@service.com",
			subject: "Your order confirmation",
			labels:  []string{"INBOX"},
			want:    email.ImportanceLow,
			rule:    RuleSpamSender,
		},
		{
			name:    "spam indicator is case-insensitive",
			sender:  "NoReply@Service.com",
			subject: "hello",
			want:    email.ImportanceLow,
			rule:    RuleSpamSender,
		},
		{
			name:    "spam label",
			sender:  "someone@example.com",
			subject: "critical",
			labels:  []string{"SPAM"},
			want:    email.ImportanceLow,
			rule:    RuleSpamLabel,
		},
		{
			name:    "gmail category promotions",
			sender:  "shop@store.com",
			subject: "deals",
			labels:  []string{"CATEGORY_PROMOTIONS", "INBOX"},
			want:    email.ImportanceLow,
			rule:    RuleSpamLabel,
		},
		{
			name:    "provider important flag",
			sender:  "friend@gmail.com",
			subject: "lunch?",
			labels:  []string{"INBOX", "IMPORTANT"},
			want:    email.ImportanceHigh,
			rule:    RuleImportantLabel,
		},
		{
			name:    "multi-word keyword",
			sender:  "hr@corp.com",
			subject: "Action Required: update your details",
			want:    email.ImportanceHigh,
			rule:    RuleUrgentKeyword,
		},
		{
			name:    "empty inputs",
			want:    email.ImportanceNormal,
			rule:    RuleDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.Explain(tt.sender, tt.subject, tt.labels)
			if result.Score != tt.want {
				t.Errorf("Score = %v, want %v (%s)", result.Score, tt.want, result.Reason)
			}
			if result.Rule != tt.rule {
				t.Errorf("Rule = %v, want %v", result.Rule, tt.rule)
			}
			if got := s.Score(tt.sender, tt.subject, tt.labels); got != result.Score {
				t.Errorf("Score() = %v disagrees with Explain() = %v", got, result.Score)
			}
		})
	}
}

func TestScorer_ImportantDomain(t *testing.T) {
	s := NewScorer(NewRules([]string{"work.com"}, DefaultUrgentKeywords, DefaultSpamIndicators))

	if got := s.Score("colleague@work.com", "Meeting notes", []string{"INBOX"}); got != email.ImportanceHigh {
		t.Errorf("important domain score = %v, want high", got)
	}

	// Exact domain match only: subdomains and lookalikes are not important
	for _, sender := range []string{"a@mail.work.com", "a@work.com.evil.io", "a@notwork.com"} {
		if got := s.Score(sender, "Meeting notes", nil); got != email.ImportanceNormal {
			t.Errorf("Score(%q) = %v, want normal", sender, got)
		}
	}
}

func TestScorer_SpamPrecedence(t *testing.T) {
	s := NewScorer(NewRules([]string{"work.com"}, DefaultUrgentKeywords, DefaultSpamIndicators))

	tests := []struct {
		sender  string
		subject string
		labels  []string
	}{
		{"newsletter@work.com", "weekly update", nil},
		{"boss@work.com", "URGENT", []string{"SPAM"}},
		{"marketing@corp.com", "critical: act now", []string{"IMPORTANT"}},
		{"boss@work.com", "hello", []string{"PROMOTIONS", "IMPORTANT"}},
	}

	for _, tt := range tests {
		if got := s.Score(tt.sender, tt.subject, tt.labels); got != email.ImportanceLow {
			t.Errorf("Score(%q, %q, %v) = %v, want low", tt.sender, tt.subject, tt.labels, got)
		}
	}
}

func TestScorer_DeterministicAndTotal(t *testing.T) {
	s := NewScorer(NewRules([]string{"work.com"}, DefaultUrgentKeywords, DefaultSpamIndicators))

	senders := []string{"", "x", "@", "boss@work.com", "promo@shop.com", "a@b@work.com"}
	subjects := []string{"", "hi", "URGENT", "Important!", "asap please"}
	labelSets := [][]string{nil, {}, {"INBOX"}, {"IMPORTANT"}, {"SPAM"}, {"UNREAD", "PROMOTIONS"}}

	for _, sender := range senders {
		for _, subject := range subjects {
			for _, labels := range labelSets {
				first := s.Score(sender, subject, labels)
				if !first.Valid() {
					t.Fatalf("Score(%q, %q, %v) = %d out of range", sender, subject, labels, first)
				}
				for i := 0; i < 3; i++ {
					if again := s.Score(sender, subject, labels); again != first {
						t.Fatalf("Score not deterministic: %v then %v", first, again)
					}
				}
			}
		}
	}
}

func TestScorer_AddImportantDomain(t *testing.T) {
	s := NewScorer(DefaultRules())
	before := s.Rules()

	if got := s.Score("ceo@acme.io", "hello", nil); got != email.ImportanceNormal {
		t.Fatalf("before add: %v", got)
	}

	if !s.AddImportantDomain("Acme.io") {
		t.Fatal("expected domain to be added")
	}
	if s.AddImportantDomain("acme.io") {
		t.Error("adding the same domain twice should report false")
	}

	if got := s.Score("ceo@acme.io", "hello", nil); got != email.ImportanceHigh {
		t.Errorf("after add: %v, want high", got)
	}

	// The previous table is untouched
	if before.HasDomain("acme.io") {
		t.Error("AddImportantDomain mutated the previous rule table")
	}
}

func TestScorer_ConcurrentAdd(t *testing.T) {
	s := NewScorer(DefaultRules())
	domains := []string{"a.com", "b.com", "c.com", "d.com", "e.com", "f.com", "g.com", "h.com"}

	var wg sync.WaitGroup
	for _, d := range domains {
		wg.Add(2)
		go func(d string) {
			defer wg.Done()
			s.AddImportantDomain(d)
		}(d)
		go func(d string) {
			defer wg.Done()
			_ = s.Score("x@"+d, "hi", nil)
		}(d)
	}
	wg.Wait()

	if got := len(s.Rules().ImportantDomains()); got != len(domains) {
		t.Errorf("expected %d domains, got %d", len(domains), got)
	}
}

func TestFromConfig(t *testing.T) {
	rules := FromConfig(config.ScoringConfig{ImportantDomains: []string{" Work.com "}})

	if !rules.HasDomain("work.com") {
		t.Error("expected work.com to be important")
	}
	if len(rules.UrgentKeywords()) != len(DefaultUrgentKeywords) {
		t.Error("empty keyword config should fall back to defaults")
	}
	if len(rules.SpamIndicators()) != len(DefaultSpamIndicators) {
		t.Error("empty spam config should fall back to defaults")
	}
}

func TestValidateDomain(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"work.com", "work.com", true},
		{"@Work.COM", "work.com", true},
		{"", "", false},
		{"localhost", "", false},
		{"a@b.com", "", false},
		{"has space.com", "", false},
	}

	for _, tt := range tests {
		got, ok := ValidateDomain(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ValidateDomain(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestScore_DomainCaseFolded(t *testing.T) {
	s := NewScorer(NewRules([]string{"Work.com"}, nil, nil))

	for _, sender := range []string{"boss@work.com", "boss@Work.COM", "BOSS@WORK.COM"} {
		r := s.Explain(sender, "hi", []string{"INBOX"})
		if r.Score != email.ImportanceHigh || r.Rule != RuleImportantDomain {
			t.Errorf("Explain(%q) = %+v, want important_domain 3", sender, r)
		}
	}
	if got := s.Score("boss@work.co", "hi", nil); got != email.ImportanceNormal {
		t.Errorf("Score(work.co) = %v, want normal", got)
	}
}
