package errors

import "errors"

var (
	ErrInvalidTTL        = errors.New("ttl must be positive")
	ErrInvalidMaxEntries = errors.New("max entries must be positive")
)
