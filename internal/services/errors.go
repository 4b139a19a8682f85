package services

import "errors"

// Service errors carry a kind so handlers can map them to HTTP codes
// without string matching. Wrap with fmt.Errorf("...: %w", ErrKind).
var (
	// ErrValidation marks precondition failures (incomplete profile,
	// malformed input). Not retriable.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks lookups of unknown entities.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks state-conflict failures (signal already
	// accepted or expired, duplicate membership). Not retriable.
	ErrConflict = errors.New("conflict")
	// ErrRetryConflict marks concurrent-write conflicts. The client may
	// retry the request.
	ErrRetryConflict = errors.New("conflict, retry")
)
