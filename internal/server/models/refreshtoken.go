package models

import "time"

// RefreshToken is an opaque single-use token that trades for a new session.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Expired reports whether the token is no longer redeemable at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
