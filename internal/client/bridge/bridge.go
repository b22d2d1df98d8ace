// Package bridge implements the three-step inflow wizard that turns a
// deposit on an external network into a Bridge record.
package bridge

import (
	"errors"
	"fmt"
	"sync"
)

type Network struct {
	ID      string
	Name    string
	Symbol  string
	Address string
}

// Networks are the supported source networks. The first one is selected by
// default.
var Networks = []Network{
	{ID: "eth", Name: "Ethereum (Sepolia)", Symbol: "ETH", Address: "0x71C2...4f21"},
	{ID: "trc", Name: "Tron (TRC20)", Symbol: "TRX", Address: "TY6vA...Xk92"},
	{ID: "bsc", Name: "Binance Smart Chain", Symbol: "BEP20", Address: "0x71C2...4f21"},
	{ID: "sol", Name: "Solana (SPL)", Symbol: "SOL", Address: "6xPqW...mZ3L"},
}

// Step is the wizard position; StepIdle means closed.
type Step int

const (
	StepIdle Step = iota
	StepAuthorization
	StepProofOfLock
	StepMinting
)

var (
	ErrUnknownNetwork = errors.New("unknown network")
	ErrNotStarted     = errors.New("bridge not started")
)

// Request is produced when the last step is confirmed.
type Request struct {
	Network Network
}

// Caption returns the title and subtitle shown for a step.
func Caption(s Step, n Network) (title, detail string) {
	switch s {
	case StepAuthorization:
		return "Authorization", fmt.Sprintf("Initializing Secure Bridging on %s", n.Symbol)
	case StepProofOfLock:
		return "Proof of Lock", "Securing your cross-chain asset metadata"
	case StepMinting:
		return "Minting Encrypted", "Finalizing TFHE conversion in Veil Mainnet"
	}
	return "", ""
}

// ActionLabel is the label of the advance action at step s.
func ActionLabel(s Step) string {
	if s == StepMinting {
		return "Finalize Inflow"
	}
	return "Process Network Step"
}

// DepositHint tells the user where to send funds on n.
func DepositHint(n Network) string {
	return fmt.Sprintf("Transfer USDT on %s to this address. Our relayer will lock and mint encrypted cUSDT to your @handle.", n.Name)
}

func Lookup(id string) (Network, bool) {
	for _, n := range Networks {
		if n.ID == id {
			return n, true
		}
	}
	return Network{}, false
}

type Wizard struct {
	mu      sync.Mutex
	step    Step
	network Network
}

func NewWizard() *Wizard {
	return &Wizard{network: Networks[0]}
}

// Start opens the wizard at the first step with the current network.
func (w *Wizard) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step = StepAuthorization
}

// Select switches the source network and restarts at the first step.
func (w *Wizard) Select(id string) error {
	n, ok := Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNetwork, id)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.network = n
	w.step = StepAuthorization
	return nil
}

// Next advances one step. Confirming the last step closes the wizard and
// returns the completed request; earlier steps return nil.
func (w *Wizard) Next() (*Request, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.step {
	case StepIdle:
		return nil, ErrNotStarted
	case StepMinting:
		w.step = StepIdle
		return &Request{Network: w.network}, nil
	default:
		w.step++
		return nil, nil
	}
}

// Restore reopens a closed wizard at the last step for req, so a request
// that could not be submitted can be confirmed again. It does nothing when
// the wizard was reopened in the meantime.
func (w *Wizard) Restore(req *Request) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepIdle {
		return
	}
	w.network = req.Network
	w.step = StepMinting
}

// Cancel closes the wizard without producing a request.
func (w *Wizard) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step = StepIdle
}

// Current returns the step and the selected network.
func (w *Wizard) Current() (Step, Network) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step, w.network
}
