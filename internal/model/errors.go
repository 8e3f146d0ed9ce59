package model

import (
	"errors"
	"fmt"
	"strings"
)

// Domain error vocabulary. Every error is request-scoped and caller-visible;
// the HTTP layer maps them to status codes.
var (
	ErrSlotUnavailable   = errors.New("slot already held by an active appointment")
	ErrNotFound          = errors.New("appointment not found")
	ErrInvalidTransition = errors.New("status transition not permitted")
)

// ValidationError names the missing or malformed request fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request fields: %s", strings.Join(e.Fields, ", "))
}

func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
