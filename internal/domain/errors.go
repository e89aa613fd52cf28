package domain

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoActiveSession = errors.New("no active session")
	ErrStoreNotReady   = errors.New("conversation store not ready")
	ErrBlobNotFound    = errors.New("blob not found")
	ErrNotSignedIn     = errors.New("not signed in")
	ErrInvalidAPIKey   = errors.New("invalid api key")
)
