package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/veil/internal/client/ledger"
	"github.com/dmitrijs2005/veil/internal/client/models"
	"github.com/dmitrijs2005/veil/internal/client/state"
	"github.com/dmitrijs2005/veil/internal/docs"
)

const dashboardHistoryRows = 5

// Dashboard switches to the dashboard view and prints the vault card and
// the latest ledger rows.
func (a *App) Dashboard(ctx context.Context) error {
	a.state.SetView(state.ViewDashboard)

	printlnFn("SCA Vault Balance")
	printlnFn("  " + a.vault.Display())
	if e := a.vault.Explanation(); e != "" {
		printlnFn("SCA & FHE Protocol")
		printlnFn("  " + e)
	}
	if id := a.identity(); id != nil {
		printlnFn("Wallet ID: " + id.Address)
	}
	printlnFn("")

	rows := a.ledger.List()
	if len(rows) > dashboardHistoryRows {
		rows = rows[:dashboardHistoryRows]
	}
	printlnFn(renderLedger(rows, a.ledger.Loading()))
	return nil
}

func (a *App) History(ctx context.Context) error {
	a.loadHistory(ctx)
	printlnFn(renderLedger(a.ledger.List(), a.ledger.Loading()))
	return nil
}

// Docs switches to the architecture view and prints the document.
func (a *App) Docs(ctx context.Context) error {
	a.state.SetView(state.ViewArchitecture)
	printlnFn(docs.Markdown())
	return nil
}

func (a *App) Banks(ctx context.Context) error {
	for i, b := range ledger.Banks {
		printlnFn(fmt.Sprintf("  %d) %s", i+1, b))
	}
	return nil
}

// Privacy toggles the vault between revealed and encrypted.
func (a *App) Privacy(ctx context.Context) error {
	if a.vault.Toggle(ctx) {
		printlnFn("🔒 Vault encrypted: " + a.vault.Display())
		if e := a.vault.Explanation(); e != "" {
			printlnFn("SCA & FHE Protocol")
			printlnFn("  " + e)
		}
		return nil
	}
	printlnFn("🔓 Vault revealed: " + a.vault.Display())
	return nil
}

// renderLedger formats rows as the Ledger Index table.
func renderLedger(rows []models.Transaction, loading bool) string {
	var b strings.Builder
	title := "Ledger Index"
	if loading {
		title += " (syncing...)"
	}
	b.WriteString(title + "\n")
	if len(rows) == 0 {
		b.WriteString("  no transactions yet")
		return b.String()
	}

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tEVENT\tIDENTITY\tAMOUNT\tSTATUS")
	for _, t := range rows {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\n", t.ID, t.Kind, t.Counterparty, t.Amount, t.Status)
	}
	_ = tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}
