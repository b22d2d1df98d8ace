package client

import (
	"context"

	"github.com/dmitrijs2005/veil/internal/client/models"
)

// AuthProvider is the auth collaborator.
type AuthProvider interface {
	// GetSession returns the current session, restoring a persisted one if
	// needed, or (nil, nil) when there is none.
	GetSession(ctx context.Context) (*models.Session, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	// SignUp returns a nil session when the account awaits email confirmation.
	SignUp(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context) error
	// OnSessionChange registers fn and returns a func that unregisters it.
	OnSessionChange(fn func(models.SessionEvent)) (unsubscribe func())
}

// TransactionTable is the persistence collaborator for transaction rows.
type TransactionTable interface {
	Insert(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	// ListByUser returns rows newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error)
	UpdateStatus(ctx context.Context, id int64, status models.Status) error
}
