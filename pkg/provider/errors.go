package provider

import (
	"errors"
	"fmt"
)

// Common errors returned by the provider clients.
var (
	// ErrNoData is wrapped by shape errors when an upstream answered
	// successfully but without the records the caller asked for.
	ErrNoData = errors.New("no data received")

	// ErrInvalidField is returned when a requested GraphQL field name is not an identifier.
	ErrInvalidField = errors.New("invalid field name")
)

// Kind classifies upstream failures.
type Kind string

const (
	// KindFetch means the provider was unreachable or answered non-2xx.
	KindFetch Kind = "upstream_fetch"

	// KindShape means the response lacked the expected structure.
	KindShape Kind = "upstream_shape"
)

// Error is a provider failure with additional context.
type Error struct {
	Provider   string
	Operation  string
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := fmt.Sprintf("%s %s %s error", e.Provider, e.Operation, e.Kind)
	if e.StatusCode > 0 {
		prefix = fmt.Sprintf("%s (status %d)", prefix, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// NewShapeError reports a structurally invalid upstream payload.
func NewShapeError(provider, operation, message string) *Error {
	return &Error{
		Provider:  provider,
		Operation: operation,
		Kind:      KindShape,
		Message:   message,
		Err:       ErrNoData,
	}
}
