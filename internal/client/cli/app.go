package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/veil/internal/client/bridge"
	"github.com/dmitrijs2005/veil/internal/client/client"
	"github.com/dmitrijs2005/veil/internal/client/config"
	"github.com/dmitrijs2005/veil/internal/client/explain"
	"github.com/dmitrijs2005/veil/internal/client/ledger"
	"github.com/dmitrijs2005/veil/internal/client/models"
	"github.com/dmitrijs2005/veil/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/veil/internal/client/scheduler"
	"github.com/dmitrijs2005/veil/internal/client/session"
	"github.com/dmitrijs2005/veil/internal/client/state"
	"github.com/dmitrijs2005/veil/internal/client/vault"
	"github.com/dmitrijs2005/veil/internal/filex"
	"github.com/dmitrijs2005/veil/internal/logging"
	"github.com/jonboulle/clockwork"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const onlineCheckInterval = 15 * time.Second

type sessionController interface {
	Establish(ctx context.Context) error
	SignIn(ctx context.Context, email, password string) error
	Logout(ctx context.Context)
	Subscribe(fn func(*state.Identity)) (unsubscribe func())
	Close()
}

type transactionLedger interface {
	LoadHistory(ctx context.Context, userID string) error
	Submit(ctx context.Context, userID string, kind models.Kind, f ledger.Fields, done func(*models.Transaction, error)) error
	List() []models.Transaction
	Loading() bool
	Reset()
	Notify(fn func(models.Transaction))
}

type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config  *config.Config
	state   *state.AppState
	session sessionController
	ledger  transactionLedger
	vault   *vault.Vault
	wizard  *bridge.Wizard
	pinger  pinger
	clock   clockwork.Clock
	logger  logging.Logger
	reader  *bufio.Reader

	// sleep paces the passkey and login animations.
	sleep func(time.Duration)

	mu   sync.Mutex
	Mode Mode

	closers []func() error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewText(os.Stderr, slog.LevelWarn)

	if c.LocalDBPath != ":memory:" {
		if _, err := filex.EnsureParentDir(c.LocalDBPath); err != nil {
			return nil, err
		}
	}

	db, err := client.InitDatabase(ctx, c.LocalDBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	api, err := client.NewVeilClient(c.ServerEndpointAddr, metadata.NewSQLiteRepository(db), logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	gen, err := explain.New(ctx, c.GenAIAPIKey, c.GenAIModel)
	if err != nil {
		_ = api.Close()
		_ = db.Close()
		return nil, err
	}

	clock := clockwork.NewRealClock()
	st := state.New()

	a := &App{
		config:  c,
		state:   st,
		session: session.NewController(api, st, clock, c.SessionTimeout, logger),
		ledger:  ledger.New(api, scheduler.New(clock), c.SettleAfter, c.CompleteAfter, logger),
		vault:   vault.New(gen, logger),
		wizard:  bridge.NewWizard(),
		pinger:  api,
		clock:   clock,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		sleep:   clock.Sleep,
		closers: []func() error{api.Close, db.Close},
	}
	a.ledger.Notify(a.onLedgerChange)
	return a, nil
}

// Run restores any persisted session, then serves the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("VEIL :: Confidential Finance Protocol (type 'help' for commands)")

	unsub := a.session.Subscribe(a.onIdentityChange)
	defer unsub()

	if err := a.session.Establish(ctx); err != nil {
		if errors.Is(err, session.ErrSessionTimeout) {
			printlnFn("Session lookup is taking too long; continuing signed out.")
		} else {
			a.logger.Warn(ctx, "restore session", "error", err)
		}
	}
	if id := a.identity(); id != nil {
		printlnFn(fmt.Sprintf("Welcome back, @%s", id.DisplayName))
		a.loadHistory(ctx)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, onlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	a.session.Close()
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn(context.Background(), "close", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.state.Snapshot().Auth == state.AuthAuthenticated
}

func (a *App) identity() *state.Identity {
	return a.state.Snapshot().Identity
}

func (a *App) getStatus() string {
	s := ""
	if id := a.identity(); id != nil {
		s = "@" + id.DisplayName + " "
	}
	a.mu.Lock()
	mode := a.Mode
	a.mu.Unlock()
	if mode != "" {
		s += string(mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()
	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

// StartOnlineStatusWatcher pings the backend every interval and keeps Mode
// current until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := a.clock.NewTicker(interval)
	defer ticker.Stop()

	a.checkOnline(ctx)
	for {
		select {
		case <-ticker.Chan():
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.pinger.Ping(pctx)
	cancel()
	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// onIdentityChange follows session changes reported by the backend client,
// such as a refresh token being rejected.
func (a *App) onIdentityChange(id *state.Identity) {
	if id == nil {
		a.ledger.Reset()
		a.wizard.Cancel()
	}
}

// onLedgerChange reports settlement progress; creation is reported by submit.
func (a *App) onLedgerChange(t models.Transaction) {
	if t.Status == models.StatusSending {
		return
	}
	printlnFn(fmt.Sprintf("[ledger] #%d %s %s", t.ID, t.Kind, t.Status))
}

func (a *App) loadHistory(ctx context.Context) {
	id := a.identity()
	if id == nil {
		return
	}
	if err := a.ledger.LoadHistory(ctx, id.UserID); err != nil {
		printlnFn("Could not load the ledger; showing cached records.")
	}
}
