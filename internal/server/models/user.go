// Package models defines server-side data models persisted in PostgreSQL.
package models

import "time"

// User is an account. PasswordHash is the argon2id key derived from the
// password under Salt.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Salt         []byte
	Confirmed    bool
	CreatedAt    time.Time
}
