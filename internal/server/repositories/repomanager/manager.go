package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/veil/internal/dbx"
	"github.com/dmitrijs2005/veil/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/veil/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/veil/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a *sql.DB or an open *sql.Tx,
// so services can run several repositories inside one dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Transactions(db dbx.DBTX) transactions.Repository
}
