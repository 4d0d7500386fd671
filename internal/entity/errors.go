package entity

import "errors"

var (
	// ErrShortCodeExists is returned when a short code is already used by another URL.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrURLNotFound is returned when a URL with the specified short code or id cannot be found.
	ErrURLNotFound = errors.New("url not found")
	// ErrInvalidURL is returned for malformed URLs or URLs without an http/https scheme.
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidShortCode is returned when a custom short code breaks the code format.
	ErrInvalidShortCode = errors.New("invalid short code")
	// ErrURLInactive is returned when resolving a deactivated URL.
	ErrURLInactive = errors.New("url inactive")
	// ErrURLExpired is returned when resolving a URL past its expiry.
	ErrURLExpired = errors.New("url expired")
	// ErrStorage marks failures of the underlying storage.
	ErrStorage = errors.New("storage failure")
)
