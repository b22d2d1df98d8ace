// Package server initializes and runs the Veil backend: it opens the
// database, applies migrations and serves the gRPC service and the HTTP
// routes until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/veil/internal/logging"
	"github.com/dmitrijs2005/veil/internal/server/config"
	"github.com/dmitrijs2005/veil/internal/server/httpapi"
	"github.com/dmitrijs2005/veil/internal/server/receipts"
	"github.com/dmitrijs2005/veil/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/veil/internal/server/services"

	gs "github.com/dmitrijs2005/veil/internal/server/grpc"
)

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	servers map[string]runner
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	var archiver receipts.Archiver = receipts.Nop{}
	if c.ReceiptsEnabled() {
		a, err := receipts.NewS3ArchiverFromConfig(ctx, c)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("receipts init error: %w", err)
		}
		archiver = a
		logger.Info(ctx, "Receipt archive enabled", "bucket", c.S3Bucket)
	}

	us := services.NewUserService(db, rm, c)
	ts := services.NewTransactionService(db, rm, archiver, logger)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		servers: map[string]runner{
			"grpc": gs.NewGRPCServer(c.EndpointAddrGRPC, logger, us, ts, c.SecretKey),
			"http": httpapi.NewServer(c.EndpointAddrHTTP, httpapi.NewHandler(us, db, logger), logger),
		},
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks until every server has stopped. A server failing to start
// cancels the others.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	for name, s := range app.servers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Run(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err)
				cancelFunc()
			}
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
