package types

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnknownOwner        = errors.New("unknown owner")
	ErrNotFound            = errors.New("not found")
	ErrCodeConflict        = errors.New("short code already taken")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrCacheUnavailable    = errors.New("cache unavailable")
	ErrCacheMiss           = errors.New("cache miss")
	ErrGenerationExhausted = errors.New("short code generation exhausted")
)
