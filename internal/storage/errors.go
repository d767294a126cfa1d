package storage

import "errors"

// Storage errors shared by every ScanStore implementation.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a scan for the same (guild, token)
	// already exists. Scan rows are never updated.
	ErrDuplicateKey = errors.New("duplicate key: scan already recorded for token in guild")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
