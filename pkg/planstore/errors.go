package planstore

import "errors"

var (
	ErrQueryFailed      = errors.New("plan store query failed")
	ErrCacheUnavailable = errors.New("tier cache unavailable")
)
