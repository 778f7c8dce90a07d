package database

import (
	"encoding/json"
	"time"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
)

// ImportantDomain is a domain added to the scoring rules at runtime
type ImportantDomain struct {
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"created_at"`
}

// BulkOperation is the recorded outcome of one bulk mutation
type BulkOperation struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Requested int       `json:"requested"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	FailedIDs []string  `json:"failed_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// Result converts the record back into a bulk result
func (op *BulkOperation) Result() email.BulkResult {
	return email.BulkResult{
		Action:    op.Action,
		Requested: op.Requested,
		Succeeded: op.Succeeded,
		Failed:    op.Failed,
		FailedIDs: op.FailedIDs,
	}
}

// HistoryOptions contains options for listing bulk operations
type HistoryOptions struct {
	Action string
	Limit  int
}

// DefaultHistoryLimit is used when HistoryOptions.Limit is not positive
const DefaultHistoryLimit = 20

func encodeIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeIDs(s string) ([]string, error) {
	ids := []string{}
	if s == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
