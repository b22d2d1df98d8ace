// Package logging defines the structured-logging interface used across Veil.
// SlogLogger wraps log/slog; tests use Discard.
package logging

import "context"

// Logger takes a message plus alternating key/value args:
//
//	l.Info(ctx, "Transaction created", "id", id, "kind", kind)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn is for conditions the program recovers from on its own,
	// such as a timed-out session lookup.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying args on every record.
	With(args ...any) Logger
}
