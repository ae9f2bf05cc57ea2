package errors

import "errors"

// Domain error kinds. Services wrap these with fmt.Errorf("%w") context and
// handlers map them onto HTTP status codes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("resource not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal server error")
)
