package domain

import "errors"

// Sentinel errors shared by the service layer. Handlers translate them to
// HTTP statuses at the route boundary; everything else becomes a 500.
var (
	ErrValidation        = errors.New("validation")
	ErrNotFound          = errors.New("not found")
	ErrExpired           = errors.New("expired")
	ErrRateLimited       = errors.New("too many attempts")
	ErrInvalidCredential = errors.New("invalid credential")
)
