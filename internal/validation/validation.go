// Package validation checks decoded provider fields before they reach a token view.
// Every failure is a *Error naming the offending field; values are never coerced.
package validation

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"solana-scan-bot/internal/solana"
)

// Error reports a field that failed structural or semantic validation.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

func fail(field, format string, args ...interface{}) error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Address checks an address-like field: 32-44 base58 characters decoding to a 32-byte key.
func Address(field, value string) error {
	if n := len(value); n < solana.MinAddressLen || n > solana.MaxAddressLen {
		return fail(field, "length %d outside [%d, %d]", n, solana.MinAddressLen, solana.MaxAddressLen)
	}
	if _, err := solana.DecodeAddress(value); err != nil {
		return fail(field, "not a base58 public key")
	}
	return nil
}

// NonEmpty checks that a required string field is present.
func NonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fail(field, "must not be empty")
	}
	return nil
}

// URL checks that value is an absolute http(s) URL.
func URL(field, value string) error {
	u, err := url.ParseRequestURI(value)
	if err != nil {
		return fail(field, "malformed url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fail(field, "unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fail(field, "url has no host")
	}
	return nil
}

// OptionalURL is URL for fields where an empty value means absent.
func OptionalURL(field, value string) error {
	if value == "" {
		return nil
	}
	return URL(field, value)
}

// NonNegative checks a monetary, volume or count value.
func NonNegative(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fail(field, "not a finite number")
	}
	if value < 0 {
		return fail(field, "must be non-negative, got %v", value)
	}
	return nil
}

// Finite checks a signed value such as a percentage change.
func Finite(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fail(field, "not a finite number")
	}
	return nil
}

// Decimal parses a string-encoded monetary amount and checks it is non-negative.
func Decimal(field, value string) (float64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, fail(field, "must not be empty")
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fail(field, "not a decimal number")
	}
	if d.IsNegative() {
		return 0, fail(field, "must be non-negative, got %s", d.String())
	}
	return d.InexactFloat64(), nil
}
