package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/veil/internal/common"
	"github.com/dmitrijs2005/veil/internal/dbx"
	"github.com/dmitrijs2005/veil/internal/logging"
	"github.com/dmitrijs2005/veil/internal/server/models"
	refreshtokensrepo "github.com/dmitrijs2005/veil/internal/server/repositories/refreshtokens"
	transactionsrepo "github.com/dmitrijs2005/veil/internal/server/repositories/transactions"
	usersrepo "github.com/dmitrijs2005/veil/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	lastCreated *models.User
	createErr   error

	byEmail    *models.User
	byEmailErr error

	byID    *models.User
	byIDErr error

	lastConfirmed string
	confirmErr    error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.lastCreated = u
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "u-new"
	u.CreatedAt = time.Now()
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	if f.byEmail == nil || f.byEmail.Email != email {
		return nil, common.ErrorNotFound
	}
	return f.byEmail, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	if f.byID == nil {
		return nil, common.ErrorNotFound
	}
	return f.byID, nil
}

func (f *fakeUsersRepo) Confirm(ctx context.Context, id string) error {
	f.lastConfirmed = id
	return f.confirmErr
}

type fakeRefreshRepo struct {
	created []string

	findOut *models.RefreshToken
	findErr error

	deleted []string
	delErr  error

	createErr  error
	lastCreate *models.RefreshToken

	revokedUsers []string
	revokeErr    error

	purgedUsers []string
	purgeErr    error
}

func (f *fakeRefreshRepo) Create(ctx context.Context, t *models.RefreshToken) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.lastCreate = t
	f.created = append(f.created, t.Token)
	return nil
}

func (f *fakeRefreshRepo) DeleteByUser(ctx context.Context, userID string) error {
	f.revokedUsers = append(f.revokedUsers, userID)
	return f.revokeErr
}

func (f *fakeRefreshRepo) DeleteExpired(ctx context.Context, userID string, now time.Time) (int64, error) {
	if f.purgeErr != nil {
		return 0, f.purgeErr
	}
	f.purgedUsers = append(f.purgedUsers, userID)
	return 0, nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return f.delErr
}

type fakeTxRepo struct {
	lastInsert *models.Transaction
	insertErr  error

	listOut []*models.Transaction
	listErr error

	lastUpdateUser   string
	lastUpdateID     int64
	lastUpdateStatus string
	updateErr        error
}

func (f *fakeTxRepo) Insert(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	f.lastInsert = t
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	out := *t
	out.ID = 1
	out.CreatedAt = time.Now()
	return &out, nil
}

func (f *fakeTxRepo) ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	return f.listOut, f.listErr
}

func (f *fakeTxRepo) UpdateStatus(ctx context.Context, userID string, id int64, status string) (*models.Transaction, error) {
	f.lastUpdateUser, f.lastUpdateID, f.lastUpdateStatus = userID, id, status
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.Transaction{ID: id, UserID: userID, Status: status}, nil
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	r  *fakeRefreshRepo
	tx *fakeTxRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error            { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Transactions(db dbx.DBTX) transactionsrepo.Repository   { return m.tx }

type fakeArchiver struct {
	archived []*models.Transaction
	err      error
}

func (f *fakeArchiver) Archive(ctx context.Context, t *models.Transaction) error {
	f.archived = append(f.archived, t)
	return f.err
}
