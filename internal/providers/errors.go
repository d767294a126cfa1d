package providers

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a provider failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindRateLimited
	KindServerError
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "Bad Request"
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	case KindNotFound:
		return "Not Found"
	case KindRateLimited:
		return "Too Many Requests"
	case KindServerError:
		return "Server Error"
	default:
		return "Unknown"
	}
}

// Label returns a metric-safe form of the kind.
func (k Kind) Label() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindServerError:
		return "server_error"
	default:
		return "unknown"
	}
}

// KindFromStatus maps an HTTP status code to a Kind.
func KindFromStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return KindServerError
	default:
		return KindUnknown
	}
}

// Error is a failed provider call translated to the common taxonomy.
type Error struct {
	Source     string
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s | %s: status: %d, %s", e.Source, e.Kind, e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error with the kind derived from status.
func NewError(source string, status int, message string) *Error {
	return &Error{
		Source:     source,
		Kind:       KindFromStatus(status),
		StatusCode: status,
		Message:    message,
	}
}

// IsKind reports whether err is a provider Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind == kind
	}
	return false
}

// ActivePairNotFoundError is returned when a token has no active trading pair.
type ActivePairNotFoundError struct {
	Token string
}

func (e *ActivePairNotFoundError) Error() string {
	return fmt.Sprintf("active pair not found for token %s", e.Token)
}
