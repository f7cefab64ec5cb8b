package application

import "errors"

// Rejections callers are expected to branch on with errors.Is. The
// transport shell maps ErrNotFound to 404 and the other two to 400.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidReference    = errors.New("invalid reference")
	ErrConstraintViolation = errors.New("constraint violation")
)
