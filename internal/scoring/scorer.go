// Package scoring classifies messages into a deterministic 1-3 importance score.
package scoring

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
)

// Rule identifies which check decided a score
type Rule string

const (
	RuleSpamLabel       Rule = "spam_label"
	RuleSpamSender      Rule = "spam_sender"
	RuleImportantDomain Rule = "important_domain"
	RuleUrgentKeyword   Rule = "urgent_keyword"
	RuleImportantLabel  Rule = "important_label"
	RuleDefault         Rule = "default"
)

// lowLabels mark a message as spam or promotional
var lowLabels = []string{
	email.LabelSpam,
	email.LabelPromotions,
	email.LabelCategoryPromotions,
}

// Result explains a scoring decision
type Result struct {
	Score  email.Importance `json:"score"`
	Rule   Rule             `json:"rule"`
	Match  string           `json:"match,omitempty"`
	Reason string           `json:"reason"`
}

// Scorer applies the rule table. It is safe for concurrent use; the only
// mutation path is AddImportantDomain, which swaps in a rebuilt table.
type Scorer struct {
	rules atomic.Pointer[Rules]
}

// NewScorer creates a Scorer over rules
func NewScorer(rules *Rules) *Scorer {
	s := &Scorer{}
	if rules == nil {
		rules = DefaultRules()
	}
	s.rules.Store(rules)
	return s
}

// Rules returns the current rule table
func (s *Scorer) Rules() *Rules {
	return s.rules.Load()
}

// AddImportantDomain adds domain to the important set. It reports false when
// the domain was already present.
func (s *Scorer) AddImportantDomain(domain string) bool {
	for {
		current := s.rules.Load()
		if current.HasDomain(domain) {
			return false
		}
		if s.rules.CompareAndSwap(current, current.WithDomain(domain)) {
			return true
		}
	}
}

// Score returns the importance of a message
func (s *Scorer) Score(senderEmail, subject string, labels []string) email.Importance {
	return s.Explain(senderEmail, subject, labels).Score
}

// Explain runs the checks in order and returns the first match.
// Spam checks always precede importance checks.
func (s *Scorer) Explain(senderEmail, subject string, labels []string) Result {
	rules := s.rules.Load()

	// Layer 1: spam/promotions labels
	for _, l := range lowLabels {
		if hasLabel(labels, l) {
			return Result{
				Score:  email.ImportanceLow,
				Rule:   RuleSpamLabel,
				Match:  l,
				Reason: "Labelled " + l,
			}
		}
	}

	// Layer 2: spam indicators in the sender address
	if match, ok := containsAny(senderEmail, rules.spamIndicators); ok {
		return Result{
			Score:  email.ImportanceLow,
			Rule:   RuleSpamSender,
			Match:  match,
			Reason: fmt.Sprintf("Sender matches spam indicator %q", match),
		}
	}

	// Layer 3: important sender domain. Exact match on the lowercased domain:
	// DNS names are case-insensitive, so boss@Work.COM counts for work.com.
	if domain := senderDomain(senderEmail); domain != "" && rules.HasDomain(domain) {
		return Result{
			Score:  email.ImportanceHigh,
			Rule:   RuleImportantDomain,
			Match:  domain,
			Reason: "Important domain: " + domain,
		}
	}

	// Layer 4: urgent keywords in the subject
	if match, ok := containsAny(subject, rules.urgentKeywords); ok {
		return Result{
			Score:  email.ImportanceHigh,
			Rule:   RuleUrgentKeyword,
			Match:  match,
			Reason: fmt.Sprintf("Subject contains %q", match),
		}
	}

	// Layer 5: provider importance flag
	if hasLabel(labels, email.LabelImportant) {
		return Result{
			Score:  email.ImportanceHigh,
			Rule:   RuleImportantLabel,
			Match:  email.LabelImportant,
			Reason: "Marked important by provider",
		}
	}

	return Result{
		Score:  email.ImportanceNormal,
		Rule:   RuleDefault,
		Reason: "No rule matched",
	}
}

func hasLabel(labels []string, label string) bool {
	for _, l := range labels {
		if strings.EqualFold(l, label) {
			return true
		}
	}
	return false
}
