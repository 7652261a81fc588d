package types

import (
	"errors"
	"strings"
)

// Store failure taxonomy. Gateways wrap driver errors with one of these so
// callers can branch with errors.Is while the cause stays inspectable.
var (
	// ErrConnection: the store cannot be reached or refused the session.
	ErrConnection = errors.New("store connection failed")
	// ErrQuery: a statement failed against a reachable store.
	ErrQuery = errors.New("store query failed")
)

// Gateway errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrTableNotFound = errors.New("table not found")
	ErrUnknownColumn = errors.New("unknown column")
	ErrInvalidData   = errors.New("invalid record data")
	ErrInvalidID     = errors.New("invalid record id")
	ErrValidation    = errors.New("validation failed")
)

// ValidationError reports every problem found in caller-supplied data, not
// just the first one.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Messages, "; ")
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IsNotFound reports whether err marks a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
