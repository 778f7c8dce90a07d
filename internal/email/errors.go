package email

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for callers and for the wire
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindAuthentication
	KindRateLimit
	KindProvider
)

// Code returns the machine-readable error code exposed to clients
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	case KindAuthentication:
		return "AUTHENTICATION_ERROR"
	case KindRateLimit:
		return "RATE_LIMIT_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// HTTPStatus returns the status code used by the REST surface
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuthentication:
		return "authentication"
	case KindRateLimit:
		return "rate_limit"
	case KindProvider:
		return "provider"
	default:
		return "internal"
	}
}

// Error is a classified failure. Err is the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail returns a copy of e with an extra detail entry
func (e *Error) WithDetail(key string, value any) *Error {
	cp := *e
	cp.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	cp.Details[key] = value
	return &cp
}

// KindOf returns the kind of the first *Error in err's chain, KindInternal otherwise
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err is classified as k
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// Validationf creates a validation error; these are raised before any remote call
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not-found error for a message identifier
func NotFound(id string, cause error) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("email not found: %s", id),
		Details: map[string]any{"id": id},
		Err:     cause,
	}
}

// Authentication wraps a credential or handshake failure
func Authentication(msg string, cause error) *Error {
	return &Error{Kind: KindAuthentication, Message: msg, Err: cause}
}

// RateLimited wraps a provider throttling response
func RateLimited(cause error) *Error {
	return &Error{Kind: KindRateLimit, Message: "rate limit exceeded", Err: cause}
}

// ProviderFailure wraps any other failed remote call
func ProviderFailure(op string, cause error) *Error {
	return &Error{Kind: KindProvider, Message: "provider call failed: " + op, Err: cause}
}
