// Package cli provides the interactive Veil terminal client.
//
// It wires configuration, the local session store, the backend client and
// the client-side components (session controller, ledger, vault, bridge
// wizard) behind a REPL. Typical flow: restore or create a session, browse
// the dashboard, send or withdraw funds, bridge deposits from another
// network and watch records settle.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
