// Package session owns the client session lifecycle: establishing a
// persisted session on start-up, signing in (with automatic sign-up for new
// identities), following session changes reported by the auth provider and
// logging out. Every outcome is published through state.AppState.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/veil/internal/client/client"
	"github.com/dmitrijs2005/veil/internal/client/models"
	"github.com/dmitrijs2005/veil/internal/client/state"
	"github.com/dmitrijs2005/veil/internal/common"
	"github.com/dmitrijs2005/veil/internal/logging"
	"github.com/jonboulle/clockwork"
)

var (
	ErrSessionTimeout      = errors.New("session lookup timed out")
	ErrConfirmationPending = errors.New("check your email for the confirmation link")
	ErrClosed              = errors.New("session controller closed")
)

type Controller struct {
	auth    client.AuthProvider
	state   *state.AppState
	clock   clockwork.Clock
	timeout time.Duration
	logger  logging.Logger

	mu     sync.Mutex
	closed bool
	done   chan struct{}
	timer  clockwork.Timer
	unsubs []func()
}

func NewController(auth client.AuthProvider, st *state.AppState, clock clockwork.Clock, timeout time.Duration, l logging.Logger) *Controller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Controller{
		auth:    auth,
		state:   st,
		clock:   clock,
		timeout: timeout,
		logger:  l.With("module", "session"),
		done:    make(chan struct{}),
	}
}

type lookup struct {
	session *models.Session
	err     error
}

// Establish asks the auth provider for an existing session and leaves the
// loading state within the configured timeout. A lookup that answers after
// the timeout still signs the user in, unless the controller was closed.
func (c *Controller) Establish(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	timer := c.clock.NewTimer(c.timeout)
	c.timer = timer
	c.mu.Unlock()
	defer timer.Stop()

	ch := make(chan lookup, 1)
	go func() {
		s, err := c.auth.GetSession(ctx)
		ch <- lookup{s, err}
	}()

	select {
	case r := <-ch:
		return c.applyLookup(ctx, r)

	case <-timer.Chan():
		c.logger.Warn(ctx, "session lookup timed out", "timeout", c.timeout)
		c.markUnauthenticated()
		go c.lateLookup(ctx, ch)
		return ErrSessionTimeout

	case <-c.done:
		return ErrClosed

	case <-ctx.Done():
		c.markUnauthenticated()
		return ctx.Err()
	}
}

func (c *Controller) applyLookup(ctx context.Context, r lookup) error {
	if r.err != nil {
		c.logger.Warn(ctx, "session lookup failed", "error", r.err)
		c.markUnauthenticated()
		return r.err
	}
	if r.session == nil {
		c.markUnauthenticated()
		return nil
	}
	c.authenticate(r.session)
	return nil
}

func (c *Controller) lateLookup(ctx context.Context, ch <-chan lookup) {
	var r lookup
	select {
	case r = <-ch:
	case <-c.done:
		return
	}
	if r.err != nil || r.session == nil {
		return
	}
	if c.isClosed() {
		return
	}
	c.logger.Info(ctx, "late session restored", "user", r.session.UserID)
	c.authenticate(r.session)
}

// Subscribe follows session changes from the auth provider. Each change
// updates the shared state first and then calls fn (which may be nil) with
// the new identity, nil after sign-out.
func (c *Controller) Subscribe(fn func(*state.Identity)) (unsubscribe func()) {
	unsub := c.auth.OnSessionChange(func(ev models.SessionEvent) {
		if c.isClosed() {
			return
		}
		var id *state.Identity
		switch ev.Kind {
		case models.SessionSignedOut:
			c.markUnauthenticated()
		default:
			if ev.Session == nil {
				return
			}
			id = IdentityFor(ev.Session)
			c.authenticate(ev.Session)
		}
		if fn != nil {
			fn(id)
		}
	})

	c.mu.Lock()
	c.unsubs = append(c.unsubs, unsub)
	c.mu.Unlock()
	return unsub
}

// SignIn authenticates email/password. Unknown credentials are treated as a
// new identity and signed up. ErrConfirmationPending means the account was
// created but needs email confirmation first.
func (c *Controller) SignIn(ctx context.Context, email, password string) error {
	s, err := c.auth.SignIn(ctx, email, password)
	if err == nil {
		c.authenticate(s)
		return nil
	}
	if !errors.Is(err, common.ErrInvalidCredentials) {
		return err
	}

	c.logger.Debug(ctx, "sign-in rejected, trying sign-up", "email", email)
	s, err = c.auth.SignUp(ctx, email, password)
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		return common.ErrInvalidCredentials
	case err != nil:
		return fmt.Errorf("sign up: %w", err)
	case s == nil:
		return ErrConfirmationPending
	}
	c.authenticate(s)
	return nil
}

// Logout signs out remotely, then resets the local state regardless of the
// outcome.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.auth.SignOut(ctx); err != nil {
		c.logger.Warn(ctx, "sign out", "error", err)
	}
	c.state.Update(func(sn *state.Snapshot) {
		sn.Auth = state.AuthUnauthenticated
		sn.Identity = nil
		sn.View = state.ViewDashboard
	})
}

// Close drops every subscription and the pending establish timeout.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.done)
	if c.timer != nil {
		c.timer.Stop()
	}
	unsubs := c.unsubs
	c.unsubs = nil
	c.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) authenticate(s *models.Session) {
	id := IdentityFor(s)
	c.state.Update(func(sn *state.Snapshot) {
		sn.Auth = state.AuthAuthenticated
		sn.Identity = id
	})
}

func (c *Controller) markUnauthenticated() {
	c.state.Update(func(sn *state.Snapshot) {
		sn.Auth = state.AuthUnauthenticated
		sn.Identity = nil
	})
}
