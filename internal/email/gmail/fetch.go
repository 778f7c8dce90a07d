package gmail

import (
	"google.golang.org/api/gmail/v1"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
)

// metadataHeaders are the only headers requested with format=metadata
var metadataHeaders = []string{"From", "Subject", "Date"}

// maxPageSize is the largest page messages.list accepts
const maxPageSize = 500

// toRaw converts a Gmail message into the provider-neutral raw form.
// Header names are kept as sent; matching is the parser's concern.
func toRaw(msg *gmail.Message) *email.RawMessage {
	raw := &email.RawMessage{
		ID:           msg.Id,
		Snippet:      msg.Snippet,
		InternalDate: msg.InternalDate,
		LabelIDs:     append([]string(nil), msg.LabelIds...),
	}

	if msg.Payload != nil {
		raw.Headers = make([]email.Header, 0, len(msg.Payload.Headers))
		for _, h := range msg.Payload.Headers {
			if h == nil {
				continue
			}
			raw.Headers = append(raw.Headers, email.Header{Name: h.Name, Value: h.Value})
		}
	}

	return raw
}

// pageSize returns how many ids to request for the next page
func pageSize(remaining int) int64 {
	if remaining > maxPageSize {
		return maxPageSize
	}
	return int64(remaining)
}
