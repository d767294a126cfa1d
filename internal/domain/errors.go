package domain

import "fmt"

// MissingRequiredFieldError is returned when a merged token view lacks a
// field every rendering depends on.
type MissingRequiredFieldError struct {
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}
