package services

import "errors"

// Business-rule failures are expected control flow; callers branch on them
// to pick a user-facing message. Store failures wrap ErrStoreUnavailable and
// must never be reported as ErrNotFound.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrInvalidState      = errors.New("invalid state")
	ErrStoreUnavailable  = errors.New("store unavailable")
)
