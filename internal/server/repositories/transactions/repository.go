// Package transactions persists transaction rows.
package transactions

import (
	"context"

	"github.com/dmitrijs2005/veil/internal/server/models"
)

type Repository interface {
	// Insert stores t and returns the stored row with ID and CreatedAt set.
	Insert(ctx context.Context, t *models.Transaction) (*models.Transaction, error)

	// ListByUser returns the user's rows, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error)

	// UpdateStatus changes only the status column of the user's row id and
	// returns the updated row, or common.ErrorNotFound.
	UpdateStatus(ctx context.Context, userID string, id int64, status string) (*models.Transaction, error)
}
