// Package client talks to the Veil backend on behalf of the terminal client.
//
// # Overview
//
// The package provides:
//  1. The collaborator contracts the rest of the client depends on:
//     AuthProvider (sessions) and TransactionTable (transaction rows).
//  2. GRPCClient, a gRPC implementation of both. It injects the access token
//     through an interceptor, refreshes expired tokens transparently, keeps
//     the session in the local metadata store under SessionStorageKey so a
//     restarted client resumes it, and notifies session-change listeners.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations): an SQLite
//     database with embedded goose migrations.
//
// # Error Handling
//
// gRPC status codes are mapped to sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, and the shared ones in internal/common
// (ErrInvalidCredentials, ErrEmailNotConfirmed, ErrorAlreadyExists, ...).
//
// GRPCClient is safe for concurrent use.
package client
