package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/veil/internal/client/bridge"
	"github.com/dmitrijs2005/veil/internal/client/ledger"
	"github.com/dmitrijs2005/veil/internal/client/models"
	"github.com/dmitrijs2005/veil/internal/client/state"
	"github.com/dmitrijs2005/veil/internal/client/vault"
	"github.com/dmitrijs2005/veil/internal/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard(t *testing.T) {
	out := captureOutput(t)
	led := &fakeLedger{}
	for i := 7; i >= 1; i-- {
		led.items = append(led.items, models.Transaction{ID: int64(i), Kind: models.KindOut,
			Counterparty: "@bob", Amount: "Encrypted", Status: models.StatusCompleted})
	}
	app := newTestApp(nil, led)
	signIn(t, app)
	app.state.SetView(state.ViewArchitecture)

	require.NoError(t, app.Dashboard(context.Background()))

	assert.Equal(t, state.ViewDashboard, app.state.Snapshot().View)
	text := out.String()
	assert.Contains(t, text, vault.Balance)
	assert.Contains(t, text, "Wallet ID: 0xa1b2c3d4e5f6")
	assert.Contains(t, text, "Ledger Index")
	assert.Contains(t, text, "  7 ")
	assert.NotContains(t, text, "  2 ")
}

func TestHistory_ReloadsAndRendersAll(t *testing.T) {
	out := captureOutput(t)
	led := &fakeLedger{items: []models.Transaction{
		{ID: 2, Kind: models.KindBridge, Counterparty: "Solana (SPL)", Amount: "100.00", Status: models.StatusSettling},
		{ID: 1, Kind: models.KindWithdraw, Counterparty: "GTBank", Amount: "Encrypted", Status: models.StatusCompleted},
	}}
	app := newTestApp(nil, led)
	signIn(t, app)

	require.NoError(t, app.History(context.Background()))
	assert.Equal(t, "a1b2-c3d4-e5f6", led.loadUID)

	text := out.String()
	assert.Contains(t, text, "Solana (SPL)")
	assert.Contains(t, text, "GTBank")
	assert.Contains(t, text, "Settling")
}

func TestHistory_LoadFailure(t *testing.T) {
	out := captureOutput(t)
	app := newTestApp(nil, &fakeLedger{loadErr: errors.New("down")})
	signIn(t, app)

	require.NoError(t, app.History(context.Background()))
	assert.Contains(t, out.String(), "Could not load the ledger")
	assert.Contains(t, out.String(), "no transactions yet")
}

func TestRenderLedger(t *testing.T) {
	got := renderLedger([]models.Transaction{
		{ID: 12, Kind: models.KindOut, Counterparty: "@bob", Amount: "Encrypted", Status: models.StatusSending},
	}, true)

	want := strings.Join([]string{
		"Ledger Index (syncing...)",
		"  ID  EVENT  IDENTITY  AMOUNT     STATUS",
		"  12  Out    @bob      Encrypted  Sending",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("renderLedger mismatch (-want +got):\n%s", diff)
	}
}

func TestDocs(t *testing.T) {
	out := captureOutput(t)
	app := newTestApp(nil, nil)

	require.NoError(t, app.Docs(context.Background()))
	assert.Equal(t, state.ViewArchitecture, app.state.Snapshot().View)
	assert.Contains(t, out.String(), "# Veil Infrastructure")
}

func TestBanks(t *testing.T) {
	out := captureOutput(t)
	app := newTestApp(nil, nil)

	require.NoError(t, app.Banks(context.Background()))
	for i, b := range ledger.Banks {
		assert.Contains(t, out.String(), fmt.Sprintf("%d) %s", i+1, b))
	}
}

func TestPrivacy_TogglesAndExplainsOnce(t *testing.T) {
	out := captureOutput(t)
	gen := &fakeGen{text: "Values are re-encrypted to your passkey."}
	app := newTestApp(nil, nil)
	app.vault = vault.New(gen, logging.Discard())

	require.NoError(t, app.Privacy(context.Background()))
	require.NoError(t, app.Privacy(context.Background()))
	require.NoError(t, app.Privacy(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Vault encrypted: "+vault.Masked)
	assert.Contains(t, text, "Vault revealed: "+vault.Balance)
	assert.Contains(t, text, gen.text)
	assert.Equal(t, 1, gen.calls)
}

func TestSend(t *testing.T) {
	out := captureOutput(t)
	led := &fakeLedger{}
	app := newTestApp(nil, led, "@bob", "10")
	signIn(t, app)

	require.NoError(t, app.Send(context.Background()))

	sub, ok := led.lastSubmission()
	require.True(t, ok)
	assert.Equal(t, submission{
		userID: "a1b2-c3d4-e5f6",
		kind:   models.KindOut,
		fields: ledger.Fields{Recipient: "@bob", Amount: "10"},
	}, sub)
	assert.Contains(t, out.String(), "Biometric Verification")
	assert.Contains(t, out.String(), "Submitted Out #1 to @bob")
}

func TestSend_Rejected(t *testing.T) {
	out := captureOutput(t)
	led := &fakeLedger{doneErr: fmt.Errorf("%w: amount must be a positive number", ledger.ErrInvalidForm)}
	app := newTestApp(nil, led, "@bob", "0")
	signIn(t, app)

	require.NoError(t, app.Send(context.Background()))
	assert.Contains(t, out.String(), "Rejected: amount must be a positive number")
}

func TestSend_Busy(t *testing.T) {
	out := captureOutput(t)
	app := newTestApp(nil, &fakeLedger{submitErr: ledger.ErrBusy}, "@bob", "1")
	signIn(t, app)

	require.NoError(t, app.Send(context.Background()))
	assert.Contains(t, out.String(), "Still processing the previous transaction.")
}

func TestSend_PersistenceFailure(t *testing.T) {
	out := captureOutput(t)
	app := newTestApp(nil, &fakeLedger{doneErr: errors.New("db down")}, "@bob", "1")
	signIn(t, app)

	require.NoError(t, app.Send(context.Background()))
	assert.Contains(t, out.String(), "Transaction failed")
}

func TestWithdraw(t *testing.T) {
	out := captureOutput(t)
	led := &fakeLedger{}
	app := newTestApp(nil, led, "3", "0123456789", "10")
	signIn(t, app)

	require.NoError(t, app.Withdraw(context.Background()))

	sub, ok := led.lastSubmission()
	require.True(t, ok)
	assert.Equal(t, models.KindWithdraw, sub.kind)
	assert.Equal(t, ledger.Fields{Bank: "GTBank", AccountNumber: "0123456789", Amount: "10"}, sub.fields)
	assert.Contains(t, out.String(), "Payout preview: ₦15,500.00 NGN")
}

func TestNGNPreview(t *testing.T) {
	assert.Equal(t, "₦15,500.00 NGN", NGNPreview("10"))
	assert.Equal(t, "₦775.00 NGN", NGNPreview(" 0.5 "))
	assert.Equal(t, "₦0.00 NGN", NGNPreview("abc"))
	assert.Equal(t, "₦1,550,000.00 NGN", NGNPreview("1000"))
}

func TestBridge_Wizard(t *testing.T) {
	out := captureOutput(t)
	led := &fakeLedger{}
	app := newTestApp(nil, led)
	signIn(t, app)
	ctx := context.Background()

	require.NoError(t, app.Bridge(ctx, nil))
	assert.Contains(t, out.String(), "Bridge is closed.")

	require.NoError(t, app.Bridge(ctx, []string{"start"}))
	assert.Contains(t, out.String(), "Step 1/3 Authorization: Initializing Secure Bridging on ETH")

	require.NoError(t, app.Bridge(ctx, []string{"select", "trc"}))
	assert.Contains(t, out.String(), "Step 1/3 Authorization: Initializing Secure Bridging on TRX")
	assert.Contains(t, out.String(), "Secured Vault Address: TY6vA...Xk92")

	require.NoError(t, app.Bridge(ctx, []string{"next"}))
	assert.Contains(t, out.String(), "Step 2/3 Proof of Lock")
	require.NoError(t, app.Bridge(ctx, []string{"next"}))
	assert.Contains(t, out.String(), "Step 3/3 Minting Encrypted")
	assert.Contains(t, out.String(), "[Finalize Inflow]")

	_, ok := led.lastSubmission()
	assert.False(t, ok)

	require.NoError(t, app.Bridge(ctx, []string{"next"}))
	sub, ok := led.lastSubmission()
	require.True(t, ok)
	assert.Equal(t, models.KindBridge, sub.kind)
	assert.Equal(t, ledger.Fields{Network: "Tron (TRC20)", Symbol: "TRX"}, sub.fields)
	assert.Contains(t, out.String(), "Inflow finalized on Tron (TRC20)")
}

func TestBridge_BusyLedgerKeepsMintingStep(t *testing.T) {
	out := captureOutput(t)
	led := &fakeLedger{submitErr: ledger.ErrBusy}
	app := newTestApp(nil, led)
	signIn(t, app)
	ctx := context.Background()

	require.NoError(t, app.Bridge(ctx, []string{"start"}))
	require.NoError(t, app.Bridge(ctx, []string{"select", "sol"}))
	for i := 0; i < 3; i++ {
		require.NoError(t, app.Bridge(ctx, []string{"next"}))
	}
	assert.Contains(t, out.String(), "Still processing the previous transaction.")
	assert.NotContains(t, out.String(), "Inflow finalized")

	step, n := app.wizard.Current()
	assert.Equal(t, bridge.StepMinting, step)
	assert.Equal(t, "sol", n.ID)

	led.mu.Lock()
	led.submitErr = nil
	led.mu.Unlock()

	require.NoError(t, app.Bridge(ctx, []string{"next"}))
	sub, ok := led.lastSubmission()
	require.True(t, ok)
	assert.Equal(t, models.KindBridge, sub.kind)
	assert.Equal(t, "Solana (SPL)", sub.fields.Network)
	step, _ = app.wizard.Current()
	assert.Equal(t, bridge.StepIdle, step)
}

func TestBridge_ErrorsAndCancel(t *testing.T) {
	out := captureOutput(t)
	app := newTestApp(nil, nil)
	signIn(t, app)
	ctx := context.Background()

	require.NoError(t, app.Bridge(ctx, []string{"next"}))
	assert.Contains(t, out.String(), "Run 'bridge start' first.")

	require.NoError(t, app.Bridge(ctx, []string{"select"}))
	assert.Contains(t, out.String(), bridgeUsage)

	require.NoError(t, app.Bridge(ctx, []string{"select", "btc"}))
	assert.Contains(t, out.String(), `Unknown network "btc". Choose one of: eth, trc, bsc, sol`)

	require.NoError(t, app.Bridge(ctx, []string{"start"}))
	require.NoError(t, app.Bridge(ctx, []string{"cancel"}))
	assert.Contains(t, out.String(), "Bridge closed.")

	require.NoError(t, app.Bridge(ctx, []string{"warp"}))
	assert.Contains(t, out.String(), bridgeUsage)
}
