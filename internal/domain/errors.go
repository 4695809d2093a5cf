package domain

import "errors"

// Domain errors
var (
	ErrBookNotFound     = errors.New("book not found")
	ErrNoProgress       = errors.New("no saved progress")
	ErrNotReading       = errors.New("no active reading session")
	ErrNoCredential     = errors.New("no stored credential")
	ErrStaleResponse    = errors.New("stale response discarded")
	ErrInvalidPage      = errors.New("page out of range")
	ErrProfileMalformed = errors.New("malformed profile payload")
)
