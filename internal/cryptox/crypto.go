// Package cryptox implements the backend's password hashing. Passwords are
// stretched with argon2id under a per-user random salt; only the salt and
// the derived key are stored.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/veil/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SaltSize = 32
	KeySize  = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// DeriveKey stretches password with salt using argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, KeySize)
}

// HashPassword returns a fresh random salt and the derived key for password.
func HashPassword(password []byte) (hash []byte, salt []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	return DeriveKey(password, salt), salt
}

// VerifyPassword reports whether password derives to hash under salt.
// The comparison runs in constant time.
func VerifyPassword(password, salt, hash []byte) bool {
	candidate := DeriveKey(password, salt)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}
