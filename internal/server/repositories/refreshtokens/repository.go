// Package refreshtokens stores the opaque refresh tokens handed out with
// every session. A token is single use: refreshing deletes it and issues a
// new one. Signing out revokes every token of the user.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/veil/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, t *models.RefreshToken) error

	// Find returns common.ErrorNotFound for unknown tokens.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete revokes token. Unknown tokens are not an error.
	Delete(ctx context.Context, token string) error

	// DeleteByUser revokes all tokens of userID.
	DeleteByUser(ctx context.Context, userID string) error

	// DeleteExpired drops userID's tokens that expired before now and
	// reports how many were removed.
	DeleteExpired(ctx context.Context, userID string, now time.Time) (int64, error)
}
