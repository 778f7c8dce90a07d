package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
)

// fakeGmail serves the subset of the Gmail REST API the provider uses
type fakeGmail struct {
	mu       sync.Mutex
	order    []string
	messages map[string]*gmail.Message
	pageCap  int

	// failures holds status codes returned, in order, before a route succeeds.
	// Keys are "<op>:<id>" or "list".
	failures map[string][]int
	reasons  map[string]string
	calls    map[string]int

	modified map[string]*gmail.ModifyMessageRequest
	trashed  []string
}

func newFakeGmail() *fakeGmail {
	return &fakeGmail{
		messages: make(map[string]*gmail.Message),
		failures: make(map[string][]int),
		reasons:  make(map[string]string),
		calls:    make(map[string]int),
		modified: make(map[string]*gmail.ModifyMessageRequest),
		pageCap:  maxPageSize,
	}
}

func (f *fakeGmail) add(msg *gmail.Message) {
	f.order = append(f.order, msg.Id)
	f.messages[msg.Id] = msg
}

func (f *fakeGmail) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func writeAPIError(w http.ResponseWriter, code int, reason string) {
	if reason == "" {
		reason = "backendError"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error":{"code":%d,"message":"%s","errors":[{"reason":"%s","message":"%s"}]}}`,
		code, http.StatusText(code), reason, http.StatusText(code))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeGmail) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	const marker = "/users/me/"
	idx := strings.Index(r.URL.Path, marker)
	if idx < 0 {
		writeAPIError(w, http.StatusNotFound, "notFound")
		return
	}
	parts := strings.Split(r.URL.Path[idx+len(marker):], "/")

	var key string
	switch {
	case parts[0] == "profile":
		key = "profile"
	case len(parts) == 1:
		key = "list"
	case len(parts) == 2:
		key = "get:" + parts[1]
	default:
		key = parts[2] + ":" + parts[1]
	}
	f.calls[key]++

	if queue := f.failures[key]; len(queue) > 0 {
		f.failures[key] = queue[1:]
		writeAPIError(w, queue[0], f.reasons[key])
		return
	}

	switch {
	case key == "profile":
		writeJSON(w, map[string]string{"emailAddress": "me@example.com"})
	case key == "list":
		f.list(w, r)
	case strings.HasPrefix(key, "get:"):
		msg, ok := f.messages[parts[1]]
		if !ok {
			writeAPIError(w, http.StatusNotFound, "notFound")
			return
		}
		writeJSON(w, msg)
	case strings.HasPrefix(key, "modify:"):
		msg, ok := f.messages[parts[1]]
		if !ok {
			writeAPIError(w, http.StatusNotFound, "notFound")
			return
		}
		var req gmail.ModifyMessageRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.modified[parts[1]] = &req
		writeJSON(w, msg)
	case strings.HasPrefix(key, "trash:"):
		msg, ok := f.messages[parts[1]]
		if !ok {
			writeAPIError(w, http.StatusNotFound, "notFound")
			return
		}
		f.trashed = append(f.trashed, parts[1])
		writeJSON(w, msg)
	default:
		writeAPIError(w, http.StatusNotFound, "notFound")
	}
}

func (f *fakeGmail) list(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("pageToken"))
	size, _ := strconv.Atoi(r.URL.Query().Get("maxResults"))
	if size <= 0 || size > f.pageCap {
		size = f.pageCap
	}

	end := min(offset+size, len(f.order))
	resp := &gmail.ListMessagesResponse{}
	for _, id := range f.order[offset:end] {
		resp.Messages = append(resp.Messages, &gmail.Message{Id: id})
	}
	if end < len(f.order) {
		resp.NextPageToken = strconv.Itoa(end)
	}
	writeJSON(w, resp)
}

func newTestProvider(t *testing.T, fake *fakeGmail, opts Options) *Provider {
	t.Helper()

	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)

	svc, err := gmail.NewService(context.Background(),
		option.WithEndpoint(ts.URL+"/"),
		option.WithHTTPClient(ts.Client()),
	)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	if opts.RetryBackoff == 0 {
		opts.RetryBackoff = time.Millisecond
	}
	return NewWithService(svc, opts)
}

func seed(fake *fakeGmail, n int) {
	for i := 1; i <= n; i++ {
		fake.add(&gmail.Message{
			Id:       fmt.Sprintf("m%d", i),
			Snippet:  fmt.Sprintf("snippet %d", i),
			LabelIds: []string{"INBOX"},
		})
	}
}

func TestListMessageIDs_Pagination(t *testing.T) {
	fake := newFakeGmail()
	fake.pageCap = 3
	seed(fake, 7)
	p := newTestProvider(t, fake, Options{})

	ids, err := p.ListMessageIDs(context.Background(), "after:1 before:2", 5)
	if err != nil {
		t.Fatalf("ListMessageIDs() error: %v", err)
	}

	want := []string{"m1", "m2", "m3", "m4", "m5"}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if n := fake.callCount("list"); n != 2 {
		t.Errorf("expected 2 list calls, got %d", n)
	}
}

func TestListMessageIDs_Exhausted(t *testing.T) {
	fake := newFakeGmail()
	fake.pageCap = 3
	seed(fake, 7)
	p := newTestProvider(t, fake, Options{})

	ids, err := p.ListMessageIDs(context.Background(), "", 100)
	if err != nil {
		t.Fatalf("ListMessageIDs() error: %v", err)
	}
	if len(ids) != 7 {
		t.Errorf("expected all 7 ids, got %d", len(ids))
	}
}

func TestGetMessage_Converts(t *testing.T) {
	fake := newFakeGmail()
	fake.add(&gmail.Message{
		Id:           "abc",
		Snippet:      "see you tomorrow",
		LabelIds:     []string{"INBOX", "UNREAD"},
		InternalDate: 1706788800000,
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "Boss <boss@work.com>"},
				{Name: "Subject", Value: "URGENT: sign today"},
			},
		},
	})
	p := newTestProvider(t, fake, Options{})

	raw, err := p.GetMessage(context.Background(), "abc")
	if err != nil {
		t.Fatalf("GetMessage() error: %v", err)
	}

	if raw.ID != "abc" || raw.Snippet != "see you tomorrow" {
		t.Errorf("unexpected message: %+v", raw)
	}
	if raw.InternalDate != 1706788800000 {
		t.Errorf("InternalDate = %d", raw.InternalDate)
	}
	if len(raw.LabelIDs) != 2 {
		t.Errorf("LabelIDs = %v", raw.LabelIDs)
	}
	if from, ok := raw.Header("From"); !ok || from != "Boss <boss@work.com>" {
		t.Errorf("From header = %q, %v", from, ok)
	}
}

func TestProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reason string
		want   email.Kind
	}{
		{"not found", http.StatusNotFound, "notFound", email.KindNotFound},
		{"unauthorized", http.StatusUnauthorized, "authError", email.KindAuthentication},
		{"forbidden", http.StatusForbidden, "forbidden", email.KindAuthentication},
		{"forbidden rate limit", http.StatusForbidden, "userRateLimitExceeded", email.KindRateLimit},
		{"too many requests", http.StatusTooManyRequests, "rateLimitExceeded", email.KindRateLimit},
		{"server error", http.StatusInternalServerError, "backendError", email.KindProvider},
		{"bad request", http.StatusBadRequest, "badRequest", email.KindProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeGmail()
			seed(fake, 1)
			fake.failures["get:m1"] = []int{tt.status}
			fake.reasons["get:m1"] = tt.reason
			p := newTestProvider(t, fake, Options{MaxRetries: 0})

			_, err := p.GetMessage(context.Background(), "m1")
			if err == nil {
				t.Fatal("expected error")
			}
			if got := email.KindOf(err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v (%v)", got, tt.want, err)
			}
		})
	}
}

func TestProvider_RetriesTransientFailures(t *testing.T) {
	fake := newFakeGmail()
	seed(fake, 1)
	fake.failures["get:m1"] = []int{http.StatusServiceUnavailable, http.StatusTooManyRequests}
	p := newTestProvider(t, fake, Options{MaxRetries: 2})

	if _, err := p.GetMessage(context.Background(), "m1"); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if n := fake.callCount("get:m1"); n != 3 {
		t.Errorf("expected 3 attempts, got %d", n)
	}
}

func TestProvider_NoRetryWhenDisabled(t *testing.T) {
	fake := newFakeGmail()
	seed(fake, 1)
	fake.failures["get:m1"] = []int{http.StatusServiceUnavailable}
	p := newTestProvider(t, fake, Options{MaxRetries: 0})

	_, err := p.GetMessage(context.Background(), "m1")
	if !email.IsKind(err, email.KindProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if n := fake.callCount("get:m1"); n != 1 {
		t.Errorf("expected a single attempt, got %d", n)
	}
}

func TestProvider_NoRetryOnClientError(t *testing.T) {
	fake := newFakeGmail()
	p := newTestProvider(t, fake, Options{MaxRetries: 3})

	_, err := p.GetMessage(context.Background(), "missing")
	if !email.IsKind(err, email.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if n := fake.callCount("get:missing"); n != 1 {
		t.Errorf("not found should not be retried, got %d attempts", n)
	}
}

func TestProvider_RetryHonoursContext(t *testing.T) {
	fake := newFakeGmail()
	seed(fake, 1)
	fake.failures["get:m1"] = []int{503, 503, 503, 503}
	p := newTestProvider(t, fake, Options{MaxRetries: 3, RetryBackoff: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.GetMessage(ctx, "m1")
	if err == nil {
		t.Fatal("expected error")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("retry wait ignored context cancellation")
	}
}

func TestModifyLabelsAndTrash(t *testing.T) {
	fake := newFakeGmail()
	seed(fake, 2)
	p := newTestProvider(t, fake, Options{})
	ctx := context.Background()

	if err := p.ModifyLabels(ctx, "m1", nil, []string{"UNREAD"}); err != nil {
		t.Fatalf("ModifyLabels() error: %v", err)
	}
	req := fake.modified["m1"]
	if req == nil || len(req.RemoveLabelIds) != 1 || req.RemoveLabelIds[0] != "UNREAD" {
		t.Errorf("unexpected modify request: %+v", req)
	}

	if err := p.Trash(ctx, "m2"); err != nil {
		t.Fatalf("Trash() error: %v", err)
	}
	if len(fake.trashed) != 1 || fake.trashed[0] != "m2" {
		t.Errorf("trashed = %v", fake.trashed)
	}

	if err := p.Trash(ctx, "nope"); !email.IsKind(err, email.KindNotFound) {
		t.Errorf("expected not found for unknown id, got %v", err)
	}
}

func TestProvider_NotAuthenticated(t *testing.T) {
	p := New(Options{})

	if _, err := p.ListMessageIDs(context.Background(), "", 10); !email.IsKind(err, email.KindAuthentication) {
		t.Errorf("expected authentication error, got %v", err)
	}
	if _, err := p.GetUserEmail(context.Background()); !email.IsKind(err, email.KindAuthentication) {
		t.Errorf("expected authentication error, got %v", err)
	}
}

func TestProvider_CircuitBreaker(t *testing.T) {
	fake := newFakeGmail()
	seed(fake, 2)
	fake.failures["get:m1"] = []int{500, 500, 500}
	p := newTestProvider(t, fake, Options{MaxRetries: 0, BreakerFailureThreshold: 2})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := p.GetMessage(ctx, "m1"); err == nil {
			t.Fatal("expected failure")
		}
	}

	// Breaker is open: the healthy message is rejected without a request
	_, err := p.GetMessage(ctx, "m2")
	if !email.IsKind(err, email.KindProvider) {
		t.Fatalf("expected provider error from open breaker, got %v", err)
	}
	if n := fake.callCount("get:m2"); n != 0 {
		t.Errorf("open breaker should short-circuit, got %d calls", n)
	}
}

func TestProvider_ClientErrorsDoNotTripBreaker(t *testing.T) {
	fake := newFakeGmail()
	seed(fake, 1)
	p := newTestProvider(t, fake, Options{MaxRetries: 0, BreakerFailureThreshold: 2})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = p.GetMessage(ctx, "missing")
	}

	if _, err := p.GetMessage(ctx, "m1"); err != nil {
		t.Errorf("not-found errors should leave the breaker closed, got %v", err)
	}
}
