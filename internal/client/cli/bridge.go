package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/veil/internal/client/bridge"
	"github.com/dmitrijs2005/veil/internal/client/ledger"
	"github.com/dmitrijs2005/veil/internal/client/models"
)

const bridgeUsage = "Usage: bridge [start|select <id>|next|cancel]"

// Bridge drives the multi-chain inflow wizard. Without arguments it shows
// the current step.
func (a *App) Bridge(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.renderBridge()
		return nil
	}

	switch args[0] {
	case "start":
		a.wizard.Start()
	case "select":
		if len(args) < 2 {
			printlnFn(bridgeUsage)
			return nil
		}
		if err := a.wizard.Select(args[1]); err != nil {
			printlnFn(fmt.Sprintf("Unknown network %q. Choose one of: %s", args[1], networkIDs()))
			return nil
		}
	case "next":
		req, err := a.wizard.Next()
		if errors.Is(err, bridge.ErrNotStarted) {
			printlnFn("Bridge is closed. Run 'bridge start' first.")
			return nil
		}
		if err != nil {
			return err
		}
		if req != nil {
			return a.submitBridge(ctx, req)
		}
	case "cancel":
		a.wizard.Cancel()
		printlnFn("Bridge closed.")
		return nil
	default:
		printlnFn(bridgeUsage)
		return nil
	}

	a.renderBridge()
	return nil
}

// submitBridge hands the finalized inflow to the ledger. When the ledger
// does not take it the wizard stays on the minting step.
func (a *App) submitBridge(ctx context.Context, req *bridge.Request) error {
	accepted, err := a.submit(ctx, models.KindBridge, ledger.Fields{
		Network: req.Network.Name,
		Symbol:  req.Network.Symbol,
	})
	if !accepted {
		a.wizard.Restore(req)
		a.renderBridge()
		return err
	}
	printlnFn("Inflow finalized on " + req.Network.Name)
	return err
}

func (a *App) renderBridge() {
	step, current := a.wizard.Current()
	if step == bridge.StepIdle {
		printlnFn("Bridge is closed. Run 'bridge start' to bridge USDT from " + current.Name + ".")
		return
	}

	printlnFn("Bridge: Multi-Chain Inflow")
	printlnFn("Select Source")
	for _, n := range bridge.Networks {
		marker := " "
		if n.ID == current.ID {
			marker = "*"
		}
		printlnFn(fmt.Sprintf("  %s %-4s %s (%s Network)", marker, n.ID, n.Name, n.Symbol))
	}
	printlnFn("Secured Vault Address: " + current.Address)
	printlnFn("  " + bridge.DepositHint(current))

	title, detail := bridge.Caption(step, current)
	printlnFn(fmt.Sprintf("Step %d/3 %s: %s", step, title, detail))
	printlnFn(fmt.Sprintf("[%s] type 'bridge next'", bridge.ActionLabel(step)))
}

func networkIDs() string {
	ids := ""
	for i, n := range bridge.Networks {
		if i > 0 {
			ids += ", "
		}
		ids += n.ID
	}
	return ids
}
