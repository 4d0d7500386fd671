// Package entity defines the entities and errors used in the application.
// It includes the URL struct, which represents a short link record, along with its
// associated metadata, the partial update and listing filter types, and the
// error definitions shared by every layer.
package entity

import "time"

// URL represents a short link record.
type URL struct {
	ID          int64      // ID is the unique identifier of the URL in the database.
	ShortCode   string     // ShortCode is the code that resolves to the original URL.
	OriginalURL string     // OriginalURL is the full URL that the short code redirects to.
	URLStats               // URLStats contains usage statistics of the URL.
	ExpiresAt   *time.Time // ExpiresAt is the moment after which the URL stops redirecting. Nil means never.
	Active      bool       // Active reports whether the URL may redirect at all.
	CreatedAt   time.Time  // CreatedAt is the timestamp when the URL was created.
}

// URLStats contains statistics related to a short link.
type URLStats struct {
	Clicks      int64      // Clicks is the number of accounted redirects.
	LastClickAt *time.Time // LastClickAt is the time of the latest accounted redirect.
}

// IsExpired reports whether the URL has an expiry strictly before now.
func (u *URL) IsExpired(now time.Time) bool {
	return u.ExpiresAt != nil && u.ExpiresAt.Before(now)
}

// ShortenParams holds the input of a create request.
type ShortenParams struct {
	OriginalURL string
	ShortCode   string     // ShortCode is optional; a code is generated when empty.
	ExpiresAt   *time.Time // ExpiresAt is optional.
}

// OptionalTime distinguishes an absent timestamp from an explicit null.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// URLUpdate is a partial set of mutable URL fields. Nil fields are left untouched.
type URLUpdate struct {
	OriginalURL *string
	ShortCode   *string
	ExpiresAt   OptionalTime // A Set value with nil Value clears the expiry.
	Active      *bool
}

// IsEmpty reports whether no field is supplied.
func (u URLUpdate) IsEmpty() bool {
	return u.OriginalURL == nil && u.ShortCode == nil && !u.ExpiresAt.Set && u.Active == nil
}

// ListFilter narrows and paginates URL listings.
type ListFilter struct {
	Query           string // Query matches code or url as a case-sensitive substring.
	Limit           uint64
	Offset          uint64
	IncludeInactive bool
}
