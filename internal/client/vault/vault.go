// Package vault implements the balance privacy toggle. Hiding the balance
// the first time fetches an explanation of how the hidden value stays
// readable only to its owner; the explanation is kept for the session.
package vault

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/veil/internal/client/explain"
	"github.com/dmitrijs2005/veil/internal/logging"
	"golang.org/x/sync/singleflight"
)

const (
	Balance = "4,250.00 cUSDT"
	Masked  = "••••••••"

	ExplainPrompt = "Explain briefly how Zama fhEVM handles client-side re-encryption using a Passkey-derived public key for viewing private state without revealing it to the validator."
)

type Vault struct {
	gen    explain.Generator
	logger logging.Logger
	group  singleflight.Group

	mu          sync.Mutex
	obscured    bool
	explanation string
	// asked is set once the generator has been called; a failed or empty
	// answer is not retried.
	asked bool
}

func New(gen explain.Generator, l logging.Logger) *Vault {
	return &Vault{gen: gen, logger: l.With("module", "vault")}
}

// Toggle flips between revealed and obscured and returns the new state.
// The first entry into the obscured state fetches the explanation, at most
// once per session; concurrent toggles share the same fetch.
func (v *Vault) Toggle(ctx context.Context) (obscured bool) {
	v.mu.Lock()
	v.obscured = !v.obscured
	obscured = v.obscured
	need := obscured && v.explanation == ""
	v.mu.Unlock()

	if need {
		v.fetch(ctx)
	}
	return obscured
}

func (v *Vault) fetch(ctx context.Context) {
	_, _, _ = v.group.Do("explain", func() (any, error) {
		v.mu.Lock()
		cached, asked := v.explanation, v.asked
		v.asked = true
		v.mu.Unlock()
		if asked {
			return cached, nil
		}

		text, err := v.gen.Generate(ctx, ExplainPrompt)
		if err != nil {
			v.logger.Warn(ctx, "privacy explanation unavailable", "error", err)
			return "", err
		}
		if text != "" {
			v.mu.Lock()
			v.explanation = text
			v.mu.Unlock()
		}
		return text, nil
	})
}

// Display returns the balance as it should be shown.
func (v *Vault) Display() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.obscured {
		return Masked
	}
	return Balance
}

func (v *Vault) Obscured() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.obscured
}

// Explanation is shown only while obscured.
func (v *Vault) Explanation() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.obscured {
		return ""
	}
	return v.explanation
}
