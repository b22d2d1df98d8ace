package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/veil/internal/common"
	"github.com/dmitrijs2005/veil/internal/dbx"
	"github.com/dmitrijs2005/veil/internal/server/models"
)

const columns = `id, user_id, type, amount, recipient, from_user, memo, status, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (*models.Transaction, error) {
	var (
		t         models.Transaction
		recipient sql.NullString
		fromUser  sql.NullString
	)
	if err := s.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &recipient, &fromUser, &t.Memo, &t.Status, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Recipient = recipient.String
	t.FromUser = fromUser.String
	return &t, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *PostgresRepository) Insert(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, type, amount, recipient, from_user, memo, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + columns

	row := r.db.QueryRowContext(ctx, query,
		t.UserID, t.Type, t.Amount, nullable(t.Recipient), nullable(t.FromUser), t.Memo, t.Status)

	out, err := scanRow(row)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	query := `
		SELECT ` + columns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Transaction, 0)
	for rows.Next() {
		t, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, userID string, id int64, status string) (*models.Transaction, error) {
	query := `
		UPDATE transactions SET status = $1
		WHERE id = $2 AND user_id = $3
		RETURNING ` + columns

	out, err := scanRow(r.db.QueryRowContext(ctx, query, status, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
