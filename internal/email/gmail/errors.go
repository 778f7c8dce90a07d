package gmail

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"
	"google.golang.org/api/googleapi"

	"github.com/vijay-prabhu/gmail-triage/internal/email"
)

// Gmail error reasons reported for throttling on a 403
var rateLimitReasons = map[string]bool{
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
	"quotaExceeded":         true,
	"dailyLimitExceeded":    true,
}

// mapError classifies a failed Gmail call. id is the message the call
// targeted, empty for list and profile calls.
func mapError(op, id string, err error) error {
	if err == nil {
		return nil
	}

	var classified *email.Error
	if errors.As(err, &classified) {
		return err
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return email.ProviderFailure(op, err)
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return email.ProviderFailure(op+" (circuit open)", err)
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return email.ProviderFailure(op, err)
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests, isRateLimit(apiErr):
		return email.RateLimited(err)
	case apiErr.Code == http.StatusUnauthorized, apiErr.Code == http.StatusForbidden:
		return email.Authentication("gmail rejected the credentials", err)
	case apiErr.Code == http.StatusNotFound && id != "":
		return email.NotFound(id, err)
	case apiErr.Code == http.StatusBadRequest && id != "" && isInvalidID(apiErr):
		return email.NotFound(id, err)
	}

	return email.ProviderFailure(op, err).WithDetail("status", apiErr.Code)
}

func isRateLimit(apiErr *googleapi.Error) bool {
	if apiErr.Code != http.StatusForbidden {
		return false
	}
	for _, item := range apiErr.Errors {
		if rateLimitReasons[item.Reason] {
			return true
		}
	}
	return false
}

func isInvalidID(apiErr *googleapi.Error) bool {
	if strings.Contains(strings.ToLower(apiErr.Message), "invalid id") {
		return true
	}
	for _, item := range apiErr.Errors {
		if strings.Contains(strings.ToLower(item.Message), "invalid id") {
			return true
		}
	}
	return false
}

// retryable reports whether a raw Gmail error is worth another attempt:
// throttling or a server-side failure
func retryable(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusTooManyRequests ||
		apiErr.Code >= http.StatusInternalServerError ||
		isRateLimit(apiErr)
}

// tripsBreaker reports whether err counts as a failure for the circuit
// breaker. Client errors other than throttling leave it closed.
func tripsBreaker(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code < http.StatusInternalServerError {
		return retryable(err)
	}
	return true
}
