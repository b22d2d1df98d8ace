package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/veil/internal/common"
	"github.com/dmitrijs2005/veil/internal/logging"
	"github.com/dmitrijs2005/veil/internal/server/models"
	"github.com/dmitrijs2005/veil/internal/server/receipts"
	"github.com/dmitrijs2005/veil/internal/server/repositories/repomanager"
)

// TransactionService is the persistence collaborator for transaction rows.
// Every operation is scoped to the calling user.
type TransactionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	archiver    receipts.Archiver
	logger      logging.Logger
}

func NewTransactionService(db *sql.DB, m repomanager.RepositoryManager, archiver receipts.Archiver, l logging.Logger) *TransactionService {
	if archiver == nil {
		archiver = receipts.Nop{}
	}
	return &TransactionService{
		db:          db,
		repomanager: m,
		archiver:    archiver,
		logger:      l.With("module", "transactions"),
	}
}

// Insert stores t for userID and returns the stored row.
func (s *TransactionService) Insert(ctx context.Context, userID string, t *models.Transaction) (*models.Transaction, error) {
	if !models.ValidType(t.Type) {
		return nil, fmt.Errorf("%w: unknown type %q", common.ErrorInvalidArgument, t.Type)
	}
	if t.Status == "" {
		t.Status = models.StatusSending
	}
	if !models.ValidStatus(t.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorInvalidArgument, t.Status)
	}

	t.UserID = userID
	row, err := s.repomanager.Transactions(s.db).Insert(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("error inserting transaction: %w", err)
	}
	return row, nil
}

// ListByUser returns the user's rows, newest first.
func (s *TransactionService) ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	rows, err := s.repomanager.Transactions(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}
	return rows, nil
}

// UpdateStatus writes status to the user's row id. Rows reaching Completed
// are archived; archive failures are logged and do not fail the update.
func (s *TransactionService) UpdateStatus(ctx context.Context, userID string, id int64, status string) (*models.Transaction, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorInvalidArgument, status)
	}

	row, err := s.repomanager.Transactions(s.db).UpdateStatus(ctx, userID, id, status)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating transaction: %w", err)
	}

	if row.Status == models.StatusCompleted {
		if err := s.archiver.Archive(ctx, row); err != nil {
			s.logger.Warn(ctx, "receipt archive failed", "id", row.ID, "error", err)
		} else {
			s.logger.Debug(ctx, "receipt archived", "key", receipts.Key(row))
		}
	}

	return row, nil
}
