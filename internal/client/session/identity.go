package session

import (
	"strings"

	"github.com/dmitrijs2005/veil/internal/client/models"
	"github.com/dmitrijs2005/veil/internal/client/state"
)

// FallbackDisplayName is shown when the session carries no email.
const FallbackDisplayName = "operator"

const (
	addressBodyLen = 40
	addressKeep    = 36
)

// DeriveAddress builds the placeholder wallet address for userID: the
// alphanumeric characters of the id, cut to 36, padded with 'f' to 40 and
// prefixed with "0x".
func DeriveAddress(userID string) string {
	var b strings.Builder
	b.Grow(addressBodyLen + 2)
	b.WriteString("0x")
	n := 0
	for _, r := range userID {
		if n == addressKeep {
			break
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			n++
		}
	}
	for ; n < addressBodyLen; n++ {
		b.WriteByte('f')
	}
	return b.String()
}

// DisplayName returns the local part of email.
func DisplayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return FallbackDisplayName
	}
	return local
}

// IdentityFor derives the identity shown for s.
func IdentityFor(s *models.Session) *state.Identity {
	return &state.Identity{
		UserID:      s.UserID,
		Email:       s.Email,
		DisplayName: DisplayName(s.Email),
		Address:     DeriveAddress(s.UserID),
	}
}
