package service

import "errors"

// Error classes the handlers map onto HTTP statuses. Services wrap these
// with context via fmt.Errorf("%w: ...", ...).
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrUnsupportedCommand = errors.New("unsupported command")
	ErrExternalAPI        = errors.New("external api failure")
)
