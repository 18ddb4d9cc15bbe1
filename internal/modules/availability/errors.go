package availability

import "errors"

var (
	ErrValidation       = errors.New("invalid availability query")
	ErrResourceNotFound = errors.New("resource not found")
)
