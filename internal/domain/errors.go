package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrKeyFetchFailed     = errors.New("key fetch failed")
	ErrRefreshTooYoung    = errors.New("key refreshed too recently")
	ErrAlreadyRevoked     = errors.New("token already revoked")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrInvalidKeyMaterial = errors.New("invalid key material")
)
