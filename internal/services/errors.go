package services

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrSessionNotOpen        = errors.New("session is not open")
	ErrSessionFull           = errors.New("session is full")
	ErrSessionExpired        = errors.New("session has expired")
	ErrAlreadyJoined         = errors.New("participant has already joined this session")
	ErrSessionNotComplete    = errors.New("session is not complete")
	ErrAlreadyAdjudicated    = errors.New("session has already been adjudicated")
	ErrAdjudicationNotFound  = errors.New("session has no adjudication")
	ErrAdjudicationFailed    = errors.New("adjudication failed")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailTaken            = errors.New("email is already registered")
	ErrPoolEntryNotFound     = errors.New("pool entry not found")
	ErrPoolEntryUsed         = errors.New("pool entry has already been activated")
	errTicketAllocationRetry = errors.New("could not allocate a ticket number")
)

// ValidationError reports a request field the service refused
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
