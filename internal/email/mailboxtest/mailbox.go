// Package mailboxtest provides an in-memory email.Mailbox for tests.
package mailboxtest

import (
	"context"
	"slices"
	"sync"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
)

// Mailbox is an in-memory email.Mailbox. Messages are listed in insertion
// order regardless of the query; the last query seen is recorded.
type Mailbox struct {
	mu       sync.Mutex
	order    []string
	messages map[string]*email.RawMessage
	trashed  map[string]bool

	// Errors returned by GetMessage, ModifyLabels or Trash for an id
	GetErrors    map[string]error
	MutateErrors map[string]error
	// ListError fails ListMessageIDs when set
	ListError error

	LastQuery      string
	LastMaxResults int
	Calls          map[string]int
}

// New creates a mailbox holding msgs in listing order
func New(msgs ...*email.RawMessage) *Mailbox {
	m := &Mailbox{
		messages:     make(map[string]*email.RawMessage),
		trashed:      make(map[string]bool),
		GetErrors:    make(map[string]error),
		MutateErrors: make(map[string]error),
		Calls:        make(map[string]int),
	}
	for _, msg := range msgs {
		m.Add(msg)
	}
	return m
}

// Add appends a message to the listing
func (m *Mailbox) Add(msg *email.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.messages[msg.ID]; !ok {
		m.order = append(m.order, msg.ID)
	}
	m.messages[msg.ID] = msg
}

// Message builds a raw message with From and Subject headers
func Message(id, from, subject string, internalDate int64, labels ...string) *email.RawMessage {
	return &email.RawMessage{
		ID: id,
		Headers: []email.Header{
			{Name: "From", Value: from},
			{Name: "Subject", Value: subject},
		},
		LabelIDs:     labels,
		Snippet:      subject,
		InternalDate: internalDate,
	}
}

func (m *Mailbox) ListMessageIDs(ctx context.Context, query string, maxResults int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["list"]++
	m.LastQuery = query
	m.LastMaxResults = maxResults

	if m.ListError != nil {
		return nil, m.ListError
	}

	ids := make([]string, 0, len(m.order))
	for _, id := range m.order {
		if m.trashed[id] {
			continue
		}
		ids = append(ids, id)
		if maxResults > 0 && len(ids) >= maxResults {
			break
		}
	}
	return ids, nil
}

func (m *Mailbox) GetMessage(ctx context.Context, id string) (*email.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["get"]++

	if err := ctx.Err(); err != nil {
		return nil, email.ProviderFailure("get", err)
	}
	if err := m.GetErrors[id]; err != nil {
		return nil, err
	}
	msg, ok := m.messages[id]
	if !ok {
		return nil, email.NotFound(id, nil)
	}
	cp := *msg
	cp.LabelIDs = slices.Clone(msg.LabelIDs)
	return &cp, nil
}

func (m *Mailbox) ModifyLabels(ctx context.Context, id string, add, remove []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["modify"]++

	if err := m.MutateErrors[id]; err != nil {
		return err
	}
	msg, ok := m.messages[id]
	if !ok {
		return email.NotFound(id, nil)
	}

	labels := slices.DeleteFunc(slices.Clone(msg.LabelIDs), func(l string) bool {
		return slices.Contains(remove, l)
	})
	for _, l := range add {
		if !slices.Contains(labels, l) {
			labels = append(labels, l)
		}
	}
	msg.LabelIDs = labels
	return nil
}

func (m *Mailbox) Trash(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls["trash"]++

	if err := m.MutateErrors[id]; err != nil {
		return err
	}
	if _, ok := m.messages[id]; !ok {
		return email.NotFound(id, nil)
	}
	m.trashed[id] = true
	return nil
}

// Labels returns the current labels of a message
func (m *Mailbox) Labels(id string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.messages[id]; ok {
		return slices.Clone(msg.LabelIDs)
	}
	return nil
}

// Trashed reports whether id was moved to the trash
func (m *Mailbox) Trashed(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trashed[id]
}

// CallCount returns how often an operation ("list", "get", "modify", "trash") ran
func (m *Mailbox) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[op]
}
