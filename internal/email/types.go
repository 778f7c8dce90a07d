package email

import (
	"strings"
	"time"
)

// Provider label identifiers the pipeline reacts to
const (
	LabelInbox              = "INBOX"
	LabelUnread             = "UNREAD"
	LabelImportant          = "IMPORTANT"
	LabelSpam               = "SPAM"
	LabelPromotions         = "PROMOTIONS"
	LabelCategoryPromotions = "CATEGORY_PROMOTIONS"
)

// Summary is the canonical, provider-agnostic view of one message.
// It is built at fetch time and never mutated afterwards; a later fetch
// produces a new Summary reflecting current provider state.
type Summary struct {
	ID          string     `json:"id"`
	Subject     string     `json:"subject"`
	Sender      string     `json:"sender"`
	SenderEmail string     `json:"sender_email"`
	Date        time.Time  `json:"date"`
	Snippet     string     `json:"snippet"`
	IsRead      bool       `json:"is_read"`
	Labels      []string   `json:"labels"`
	Importance  Importance `json:"importance_score"`
}

// HasLabel reports whether the summary carries the given label
func (s *Summary) HasLabel(label string) bool {
	return containsLabel(s.Labels, label)
}

// Header is one name/value pair from a raw message
type Header struct {
	Name  string
	Value string
}

// RawMessage is a message as returned by the provider, before normalization
type RawMessage struct {
	ID           string
	Headers      []Header
	LabelIDs     []string
	Snippet      string
	InternalDate int64 // milliseconds since epoch, 0 when unknown
}

// Header returns the value of the first header with exactly the given name
func (m *RawMessage) Header(name string) (string, bool) {
	for _, h := range m.Headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}

// Address represents an email address with its display name
type Address struct {
	Name  string
	Email string
}

// String returns the formatted address
func (a Address) String() string {
	if a.Name == "" || a.Name == a.Email {
		return a.Email
	}
	return a.Name + " <" + a.Email + ">"
}

// Domain returns the text after the first "@" of the address, lowercased
func (a Address) Domain() string {
	_, domain, ok := strings.Cut(a.Email, "@")
	if !ok {
		return ""
	}
	return strings.ToLower(domain)
}

// ParseAddress parses a From-style value like "Name <email@example.com>".
// Without a bracketed address the whole value is used as both name and email.
func ParseAddress(s string) Address {
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "<"); start != -1 {
		if end := strings.Index(s[start:], ">"); end != -1 {
			return Address{
				Name:  strings.TrimSpace(s[:start]),
				Email: strings.TrimSpace(s[start+1 : start+end]),
			}
		}
	}

	return Address{Name: s, Email: s}
}

// containsLabel checks if a label is present
func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
