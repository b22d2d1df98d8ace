package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/veil/internal/client/ledger"
	"github.com/dmitrijs2005/veil/internal/client/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NGNPerUnit is the display rate used for the withdrawal preview.
const NGNPerUnit = 1550

var ngnPrinter = message.NewPrinter(language.English)

// Send prompts for a recipient handle and an amount and submits an
// outbound transfer.
func (a *App) Send(ctx context.Context) error {
	to, err := a.prompt("Recipient (@handle)")
	if err != nil {
		return err
	}
	amount, err := a.prompt("Amount (cUSDT)")
	if err != nil {
		return err
	}
	_, err = a.submit(ctx, models.KindOut, ledger.Fields{Recipient: to, Amount: amount})
	return err
}

// Withdraw prompts for a bank, a 10-digit account number and an amount,
// previews the NGN payout and submits the withdrawal.
func (a *App) Withdraw(ctx context.Context) error {
	bank, err := getChoice(a.reader, "Bank (number or name)", ledger.Banks, inputWriter)
	if err != nil {
		return err
	}
	account, err := a.prompt("Account number (10 digits)")
	if err != nil {
		return err
	}
	amount, err := a.prompt("Amount (cUSDT)")
	if err != nil {
		return err
	}
	printlnFn("Payout preview: " + NGNPreview(amount))

	_, err = a.submit(ctx, models.KindWithdraw, ledger.Fields{Bank: bank, AccountNumber: account, Amount: amount})
	return err
}

// NGNPreview converts a cUSDT amount to the naira payout shown before a
// withdrawal. Unparsable input previews as zero.
func NGNPreview(amount string) string {
	n, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		n = 0
	}
	return ngnPrinter.Sprintf("₦%.2f NGN", n*NGNPerUnit)
}

// submit signs with the simulated passkey and hands the record to the
// ledger, reporting whether the ledger took it. The outcome of an accepted
// record is reported asynchronously.
func (a *App) submit(ctx context.Context, kind models.Kind, f ledger.Fields) (bool, error) {
	id := a.identity()
	if id == nil {
		return false, errors.New("not signed in")
	}

	printlnFn("Biometric Verification: confirming identity with Veil Secure Enclave...")
	a.pause()

	err := a.ledger.Submit(ctx, id.UserID, kind, f, func(t *models.Transaction, err error) {
		switch {
		case errors.Is(err, ledger.ErrInvalidForm):
			printlnFn("Rejected:", strings.TrimPrefix(err.Error(), ledger.ErrInvalidForm.Error()+": "))
		case err != nil:
			printlnFn("Transaction failed, see log for details.")
		default:
			printlnFn(fmt.Sprintf("Submitted %s #%d to %s", t.Kind, t.ID, t.Counterparty))
		}
	})
	if errors.Is(err, ledger.ErrBusy) {
		printlnFn("Still processing the previous transaction.")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	printlnFn("Processing...")
	return true, nil
}
