package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/veil/internal/client/bridge"
	"github.com/dmitrijs2005/veil/internal/client/config"
	"github.com/dmitrijs2005/veil/internal/client/ledger"
	"github.com/dmitrijs2005/veil/internal/client/models"
	"github.com/dmitrijs2005/veil/internal/client/session"
	"github.com/dmitrijs2005/veil/internal/client/state"
	"github.com/dmitrijs2005/veil/internal/client/vault"
	"github.com/dmitrijs2005/veil/internal/logging"
	"github.com/jonboulle/clockwork"
)

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	if len(lines) == 0 || lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

type output struct {
	mu    sync.Mutex
	lines []string
}

func (o *output) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return strings.Join(o.lines, "\n")
}

// captureOutput redirects printlnFn and prompts for the duration of the test.
func captureOutput(t *testing.T) *output {
	t.Helper()
	out := &output{}
	origPrint, origW := printlnFn, inputWriter
	printlnFn = func(a ...any) (int, error) {
		s := strings.TrimSuffix(fmt.Sprintln(a...), "\n")
		out.mu.Lock()
		out.lines = append(out.lines, s)
		out.mu.Unlock()
		return len(s), nil
	}
	inputWriter = io.Discard
	t.Cleanup(func() {
		printlnFn = origPrint
		inputWriter = origW
	})
	return out
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

// ------------ fakes ------------

type fakeSession struct {
	state *state.AppState

	signInErr   error
	signInEmail string
	signInPass  string
	session     *models.Session

	establishErr    error
	establishCalled bool
	logoutCalled    bool
	closed          bool
	subscribed      bool
}

func (f *fakeSession) Establish(context.Context) error {
	f.establishCalled = true
	return f.establishErr
}

func (f *fakeSession) SignIn(_ context.Context, email, password string) error {
	f.signInEmail, f.signInPass = email, password
	if f.signInErr != nil {
		return f.signInErr
	}
	s := f.session
	if s == nil {
		s = &models.Session{UserID: "a1b2-c3d4-e5f6", Email: email}
	}
	id := session.IdentityFor(s)
	f.state.Update(func(sn *state.Snapshot) {
		sn.Auth = state.AuthAuthenticated
		sn.Identity = id
	})
	return nil
}

func (f *fakeSession) Logout(context.Context) {
	f.logoutCalled = true
	f.state.Update(func(sn *state.Snapshot) {
		sn.Auth = state.AuthUnauthenticated
		sn.Identity = nil
		sn.View = state.ViewDashboard
	})
}

func (f *fakeSession) Subscribe(func(*state.Identity)) func() {
	f.subscribed = true
	return func() {}
}

func (f *fakeSession) Close() { f.closed = true }

type submission struct {
	userID string
	kind   models.Kind
	fields ledger.Fields
}

type fakeLedger struct {
	mu sync.Mutex

	items   []models.Transaction
	loadUID string
	loadErr error

	submitted []submission
	submitErr error
	doneTx    *models.Transaction
	doneErr   error

	resetCalled bool
	notify      func(models.Transaction)
}

func (f *fakeLedger) LoadHistory(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadUID = userID
	return f.loadErr
}

func (f *fakeLedger) Submit(_ context.Context, userID string, kind models.Kind, fields ledger.Fields, done func(*models.Transaction, error)) error {
	f.mu.Lock()
	if f.submitErr != nil {
		f.mu.Unlock()
		return f.submitErr
	}
	f.submitted = append(f.submitted, submission{userID, kind, fields})
	tx, err := f.doneTx, f.doneErr
	f.mu.Unlock()

	if tx == nil && err == nil {
		tx = &models.Transaction{ID: 1, Kind: kind, Counterparty: fields.Recipient + fields.Bank + fields.Network}
	}
	if done != nil {
		done(tx, err)
	}
	return nil
}

func (f *fakeLedger) List() []models.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Transaction(nil), f.items...)
}

func (f *fakeLedger) Loading() bool { return false }

func (f *fakeLedger) Reset() {
	f.mu.Lock()
	f.resetCalled = true
	f.items = nil
	f.mu.Unlock()
}

func (f *fakeLedger) Notify(fn func(models.Transaction)) { f.notify = fn }

func (f *fakeLedger) lastSubmission() (submission, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.submitted) == 0 {
		return submission{}, false
	}
	return f.submitted[len(f.submitted)-1], true
}

type fakeGen struct {
	text  string
	err   error
	calls int
}

func (f *fakeGen) Generate(context.Context, string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakePinger struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *fakePinger) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakePinger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestApp(sess *fakeSession, led *fakeLedger, lines ...string) *App {
	st := state.New()
	if sess == nil {
		sess = &fakeSession{}
	}
	sess.state = st
	if led == nil {
		led = &fakeLedger{}
	}
	return &App{
		config:  &config.Config{SignDelay: time.Millisecond},
		state:   st,
		session: sess,
		ledger:  led,
		vault:   vault.New(&fakeGen{text: "re-encrypted to your passkey"}, logging.Discard()),
		wizard:  bridge.NewWizard(),
		pinger:  &fakePinger{},
		clock:   clockwork.NewFakeClock(),
		logger:  logging.Discard(),
		reader:  readerFromLines(lines...),
		sleep:   func(time.Duration) {},
	}
}

// signIn puts app into the authenticated state.
func signIn(t *testing.T, app *App) {
	t.Helper()
	if err := app.session.SignIn(context.Background(), "alice@veil.io", "pw"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
}
