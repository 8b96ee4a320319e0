package domain

import "errors"

// Error taxonomy shared by every service. Services wrap these with context
// (fmt.Errorf("...: %w", ErrNotFound)) and handlers map them to HTTP status
// codes with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidOperation = errors.New("invalid operation")
)
