package scoring

import (
	"sort"
	"strings"

	"github.com/vijay-prabhu/gmail-triage/internal/config"
)

// Default rule lists used when configuration leaves them empty
var (
	DefaultUrgentKeywords = []string{
		"urgent",
		"important",
		"asap",
		"action required",
		"critical",
	}
	DefaultSpamIndicators = []string{
		"noreply",
		"newsletter",
		"marketing",
		"promo",
		"unsubscribe",
	}
)

// Rules is the immutable classification table shared by all scoring calls.
// Never modify a Rules value after it has been handed to a Scorer; use
// WithDomain to derive a new one.
type Rules struct {
	importantDomains map[string]struct{}
	urgentKeywords   []string
	spamIndicators   []string
}

// NewRules builds a rule table. Entries are lowercased; empty entries are dropped.
func NewRules(domains, keywords, spamIndicators []string) *Rules {
	r := &Rules{
		importantDomains: make(map[string]struct{}, len(domains)),
		urgentKeywords:   normalize(keywords),
		spamIndicators:   normalize(spamIndicators),
	}
	for _, d := range normalize(domains) {
		r.importantDomains[d] = struct{}{}
	}
	return r
}

// FromConfig builds rules from the [scoring] configuration section
func FromConfig(cfg config.ScoringConfig) *Rules {
	keywords := cfg.UrgentKeywords
	if len(keywords) == 0 {
		keywords = DefaultUrgentKeywords
	}
	spam := cfg.SpamIndicators
	if len(spam) == 0 {
		spam = DefaultSpamIndicators
	}
	return NewRules(cfg.ImportantDomains, keywords, spam)
}

// DefaultRules returns the built-in keyword and spam lists with no important domains
func DefaultRules() *Rules {
	return NewRules(nil, DefaultUrgentKeywords, DefaultSpamIndicators)
}

// WithDomain returns a copy of r with domain added to the important set
func (r *Rules) WithDomain(domain string) *Rules {
	cp := &Rules{
		importantDomains: make(map[string]struct{}, len(r.importantDomains)+1),
		urgentKeywords:   r.urgentKeywords,
		spamIndicators:   r.spamIndicators,
	}
	for d := range r.importantDomains {
		cp.importantDomains[d] = struct{}{}
	}
	cp.importantDomains[normalizeDomain(domain)] = struct{}{}
	return cp
}

// HasDomain reports whether domain is in the important set
func (r *Rules) HasDomain(domain string) bool {
	_, ok := r.importantDomains[normalizeDomain(domain)]
	return ok
}

// ImportantDomains returns the important domains in sorted order
func (r *Rules) ImportantDomains() []string {
	domains := make([]string, 0, len(r.importantDomains))
	for d := range r.importantDomains {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}

// UrgentKeywords returns a copy of the ordered keyword list
func (r *Rules) UrgentKeywords() []string {
	return append([]string(nil), r.urgentKeywords...)
}

// SpamIndicators returns a copy of the ordered spam indicator list
func (r *Rules) SpamIndicators() []string {
	return append([]string(nil), r.spamIndicators...)
}

func normalize(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// normalizeDomain lowercases so stored and sender domains compare case-insensitively
func normalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "@"))
}
