package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/veil/internal/client/session"
	"github.com/dmitrijs2005/veil/internal/common"
)

// getSimpleText, getPassword and getChoice are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getChoice     = GetChoice
)

// Login prompts for an email and password and opens a session. Unknown
// identities are registered on the fly; when the backend requires email
// confirmation the user is told to check their inbox.
//
// The password is wiped before returning. Authentication failures are
// printed, not returned.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		printlnFn("Already signed in. Use 'logout' first.")
		return nil
	}

	email, err := a.prompt("Identity (email)")
	if err != nil {
		return err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		printlnFn("Email is required.")
		return nil
	}

	password, err := getPassword(inputWriter)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	printlnFn("Requesting Passkey...")
	printlnFn("Communicating with Secure Enclave...")

	err = a.session.SignIn(ctx, email, string(password))
	switch {
	case errors.Is(err, session.ErrConfirmationPending):
		printlnFn(err.Error())
		return nil
	case err != nil:
		a.logger.Info(ctx, "login failed", "error", err)
		printlnFn("Login failed:", describeAuthError(err))
		return nil
	}

	a.pause()
	printlnFn("Verifying Biometrics...")
	if id := a.identity(); id != nil {
		printlnFn(fmt.Sprintf("Validating @%s credential...", id.DisplayName))
	}
	a.pause()
	printlnFn("Vault Sync Successful")
	printlnFn("Accessing encrypted TFHE state...")

	a.loadHistory(ctx)
	return a.Dashboard(ctx)
}

func describeAuthError(err error) string {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, common.ErrEmailNotConfirmed):
		return "email not confirmed yet"
	case errors.Is(err, common.ErrorInvalidArgument):
		return err.Error()
	}
	return "service unavailable, try again later"
}

// Logout ends the session. It always succeeds locally.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.ledger.Reset()
	a.wizard.Cancel()
	printlnFn("Session closed.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	id := a.identity()
	if id == nil {
		printlnFn("Not signed in.")
		return nil
	}
	a.mu.Lock()
	mode := a.Mode
	a.mu.Unlock()

	printlnFn(fmt.Sprintf("@%s <%s>", id.DisplayName, id.Email))
	printlnFn("User ID:", id.UserID)
	printlnFn("Wallet: ", id.Address)
	if mode != "" {
		printlnFn("Network:", mode)
	}
	return nil
}

func (a *App) Address(ctx context.Context) error {
	id := a.identity()
	if id == nil {
		printlnFn("Not signed in.")
		return nil
	}
	printlnFn(id.Address)
	return nil
}

func (a *App) pause() {
	if a.sleep != nil && a.config != nil {
		a.sleep(a.config.SignDelay)
	}
}

// inputWriter is where prompts go.
var inputWriter io.Writer = os.Stdout

func (a *App) prompt(text string) (string, error) {
	if a.reader == nil {
		a.reader = bufio.NewReader(os.Stdin)
	}
	return getSimpleText(a.reader, text, inputWriter)
}
