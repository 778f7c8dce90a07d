package gmail

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/vijay-prabhu/gmail-triage/internal/config"
	"github.com/vijay-prabhu/gmail-triage/internal/email"
	"github.com/vijay-prabhu/gmail-triage/internal/metrics"
)

const userID = "me"

// Options configures a Provider
type Options struct {
	CredentialsPath string
	TokenPath       string

	ServiceAccountPath string
	DelegatedUser      string

	MaxRetries              int
	RetryBackoff            time.Duration
	BreakerFailureThreshold int

	Logger *zap.Logger
}

// OptionsFromConfig builds provider options from the [gmail] section
func OptionsFromConfig(cfg config.GmailConfig, logger *zap.Logger) Options {
	return Options{
		CredentialsPath:         cfg.CredentialsPath,
		TokenPath:               cfg.TokenPath,
		ServiceAccountPath:      cfg.ServiceAccountPath,
		DelegatedUser:           cfg.DelegatedUser,
		MaxRetries:              cfg.MaxRetries,
		RetryBackoff:            cfg.RetryBackoff(),
		BreakerFailureThreshold: cfg.BreakerFailureThreshold,
		Logger:                  logger,
	}
}

// Provider implements the email.Provider interface for Gmail
type Provider struct {
	opts      Options
	logger    *zap.Logger
	breaker   *gobreaker.CircuitBreaker
	service   *gmail.Service
	userEmail string
}

// New creates a new Gmail provider. Call Authenticate before use.
func New(opts Options) *Provider {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.BreakerFailureThreshold < 1 {
		opts.BreakerFailureThreshold = 5
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	p := &Provider{
		opts:   opts,
		logger: opts.Logger.Named("gmail"),
	}

	threshold := uint32(opts.BreakerFailureThreshold)
	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gmail-api",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return !tripsBreaker(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return p
}

// NewWithService creates a provider over an already authenticated service
func NewWithService(service *gmail.Service, opts Options) *Provider {
	p := New(opts)
	p.service = service
	return p
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "gmail"
}

// IsAuthenticated checks if usable credentials exist
func (p *Provider) IsAuthenticated() bool {
	if p.service != nil {
		return true
	}
	if p.opts.ServiceAccountPath != "" {
		return fileExists(p.opts.ServiceAccountPath)
	}
	_, err := loadToken(p.opts.TokenPath)
	return err == nil
}

// Authenticate builds the Gmail service from a service account with
// delegation when configured, otherwise from the installed-app OAuth token
func (p *Provider) Authenticate(ctx context.Context) error {
	var (
		svc *gmail.Service
		err error
	)

	if p.opts.ServiceAccountPath != "" {
		svc, err = p.serviceAccountService(ctx)
	} else {
		svc, err = p.oauthService(ctx)
	}
	if err != nil {
		return email.Authentication("gmail authentication failed", err)
	}

	p.service = svc

	// Get and cache user email
	var address string
	err = p.call(ctx, "profile", "", func(ctx context.Context) error {
		profile, err := svc.Users.GetProfile(userID).Context(ctx).Do()
		if err != nil {
			return err
		}
		address = profile.EmailAddress
		return nil
	})
	if err != nil {
		p.service = nil
		return err
	}

	p.userEmail = address
	p.logger.Info("authenticated", zap.String("user", address))
	return nil
}

func (p *Provider) oauthService(ctx context.Context) (*gmail.Service, error) {
	cfg, err := loadCredentials(p.opts.CredentialsPath)
	if err != nil {
		return nil, err
	}

	client, err := getClient(ctx, cfg, p.opts.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get OAuth client: %w", err)
	}

	service, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return service, nil
}

func (p *Provider) serviceAccountService(ctx context.Context) (*gmail.Service, error) {
	client, err := serviceAccountClient(ctx, p.opts.ServiceAccountPath, p.opts.DelegatedUser)
	if err != nil {
		return nil, err
	}

	service, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return service, nil
}

// GetUserEmail returns the authenticated user's email address
func (p *Provider) GetUserEmail(ctx context.Context) (string, error) {
	if p.userEmail == "" {
		return "", email.Authentication("not authenticated", nil)
	}
	return p.userEmail, nil
}

// ListMessageIDs returns ids matching query in Gmail's order, following
// pages until maxResults ids are collected or the listing ends
func (p *Provider) ListMessageIDs(ctx context.Context, query string, maxResults int) ([]string, error) {
	svc, err := p.svc()
	if err != nil {
		return nil, err
	}
	if maxResults <= 0 {
		maxResults = maxPageSize
	}

	ids := make([]string, 0, min(maxResults, maxPageSize))
	pageToken := ""

	for {
		var resp *gmail.ListMessagesResponse
		err := p.call(ctx, "list", "", func(ctx context.Context) error {
			req := svc.Users.Messages.List(userID).
				MaxResults(pageSize(maxResults - len(ids)))
			if query != "" {
				req = req.Q(query)
			}
			if pageToken != "" {
				req = req.PageToken(pageToken)
			}
			var err error
			resp, err = req.Context(ctx).Do()
			return err
		})
		if err != nil {
			return nil, err
		}

		for _, m := range resp.Messages {
			ids = append(ids, m.Id)
			if len(ids) >= maxResults {
				return ids, nil
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return ids, nil
		}
	}
}

// GetMessage retrieves the headers, labels and snippet of one message
func (p *Provider) GetMessage(ctx context.Context, id string) (*email.RawMessage, error) {
	svc, err := p.svc()
	if err != nil {
		return nil, err
	}

	var msg *gmail.Message
	err = p.call(ctx, "get", id, func(ctx context.Context) error {
		var err error
		msg, err = svc.Users.Messages.Get(userID, id).
			Format("metadata").
			MetadataHeaders(metadataHeaders...).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	return toRaw(msg), nil
}

// ModifyLabels adds and removes labels on one message
func (p *Provider) ModifyLabels(ctx context.Context, id string, add, remove []string) error {
	svc, err := p.svc()
	if err != nil {
		return err
	}

	return p.call(ctx, "modify", id, func(ctx context.Context) error {
		_, err := svc.Users.Messages.Modify(userID, id, &gmail.ModifyMessageRequest{
			AddLabelIds:    add,
			RemoveLabelIds: remove,
		}).Context(ctx).Do()
		return err
	})
}

// Trash moves one message to the trash
func (p *Provider) Trash(ctx context.Context, id string) error {
	svc, err := p.svc()
	if err != nil {
		return err
	}

	return p.call(ctx, "trash", id, func(ctx context.Context) error {
		_, err := svc.Users.Messages.Trash(userID, id).Context(ctx).Do()
		return err
	})
}

func (p *Provider) svc() (*gmail.Service, error) {
	if p.service == nil {
		return nil, email.Authentication("not authenticated - call Authenticate() first", nil)
	}
	return p.service, nil
}

// call runs fn through the circuit breaker, retrying throttled and
// server-side failures with exponential backoff, and classifies the final
// error
func (p *Provider) call(ctx context.Context, op, id string, fn func(context.Context) error) error {
	for attempt := 0; ; attempt++ {
		start := time.Now()
		_, err := p.breaker.Execute(func() (interface{}, error) {
			return nil, fn(ctx)
		})
		metrics.RecordProviderCall(op, err, time.Since(start))

		if err == nil {
			return nil
		}

		if attempt >= p.opts.MaxRetries || !retryable(err) {
			return mapError(op, id, err)
		}

		delay := p.opts.RetryBackoff << attempt
		metrics.RecordRetry(op)
		p.logger.Debug("retrying provider call",
			zap.String("op", op),
			zap.String("id", id),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return mapError(op, id, err)
		case <-timer.C:
		}
	}
}
