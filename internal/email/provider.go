package email

import (
	"context"
)

// Mailbox is the set of remote calls the pipeline needs from a mail provider.
// Implementations must be safe for concurrent use.
type Mailbox interface {
	// ListMessageIDs returns message identifiers matching a provider query,
	// in provider order, bounded by maxResults
	ListMessageIDs(ctx context.Context, query string, maxResults int) ([]string, error)

	// GetMessage retrieves one raw message
	GetMessage(ctx context.Context, id string) (*RawMessage, error)

	// ModifyLabels adds and removes labels on one message
	ModifyLabels(ctx context.Context, id string, add, remove []string) error

	// Trash moves one message to the provider's trash
	Trash(ctx context.Context, id string) error
}

// Provider is an authenticated Mailbox for a single account
type Provider interface {
	Mailbox

	// Name returns the provider identifier
	Name() string

	// Authenticate performs OAuth or credential validation
	Authenticate(ctx context.Context) error

	// GetUserEmail returns the authenticated user's email address
	GetUserEmail(ctx context.Context) (string, error)
}

// Scorer classifies a message from its sender address, subject and labels
type Scorer interface {
	Score(senderEmail, subject string, labels []string) Importance
}

// BulkResult aggregates a batch of single-item mutations
type BulkResult struct {
	Action    string   `json:"action"`
	Requested int      `json:"requested"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	FailedIDs []string `json:"failed_ids"`
}
