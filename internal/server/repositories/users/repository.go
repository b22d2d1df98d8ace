// Package users declares and implements persistence for accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/veil/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in ID and CreatedAt. A taken email
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Confirm marks the account's email as confirmed.
	Confirm(ctx context.Context, id string) error
}
