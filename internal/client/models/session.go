// Package models defines the client-side data models of the Veil terminal
// client.
package models

import "time"

// Session is an authenticated session as held by the client. At most one
// exists per process.
type Session struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	// ExpiresAt is the access-token expiry.
	ExpiresAt time.Time
}

type SessionEventKind string

const (
	SessionSignedIn       SessionEventKind = "signed_in"
	SessionSignedOut      SessionEventKind = "signed_out"
	SessionTokenRefreshed SessionEventKind = "token_refreshed"
)

// SessionEvent is delivered to session-change listeners. Session is nil
// for SessionSignedOut.
type SessionEvent struct {
	Kind    SessionEventKind
	Session *Session
}
