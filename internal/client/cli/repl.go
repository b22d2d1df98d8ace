package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Address(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Docs(ctx context.Context) error
	History(ctx context.Context) error
	Send(ctx context.Context) error
	Withdraw(ctx context.Context) error
	Banks(ctx context.Context) error
	Bridge(ctx context.Context, args []string) error
	Privacy(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: login, docs, help, exit"
	helpSignedIn  = "Available commands: dashboard, history, send, withdraw, banks, " +
		"bridge [start|select <id>|next|cancel], privacy, address, whoami, docs, logout, exit"
)

// commands that work without a session
var publicCommands = map[string]bool{
	"help": true, "login": true, "docs": true, "exit": true, "quit": true,
}

// runREPL starts a simple read–eval–print loop for the Veil CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands other than login, docs and help
// require a session. Command prompts read from the same reader, so no input
// is buffered away from them. The loop exits on EOF, on ctx cancellation or
// when the user types "exit" or "quit".
//
// Errors returned by command handlers are printed on one line; handlers
// log details themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for eof := false; !eof; {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("veil%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil {
			if line == "" {
				return
			}
			eof = true
			err = nil
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if !publicCommands[cmd] && !a.isLoggedIn() {
			if isKnown(cmd) {
				printlnFn("Please login first.")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)
		case "address":
			err = a.Address(ctx)
		case "dashboard":
			err = a.Dashboard(ctx)
		case "docs":
			err = a.Docs(ctx)
		case "history":
			err = a.History(ctx)
		case "send":
			err = a.Send(ctx)
		case "withdraw":
			err = a.Withdraw(ctx)
		case "banks":
			err = a.Banks(ctx)
		case "bridge":
			err = a.Bridge(ctx, args)
		case "privacy":
			err = a.Privacy(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

func isKnown(cmd string) bool {
	switch cmd {
	case "logout", "whoami", "address", "dashboard", "history", "send",
		"withdraw", "banks", "bridge", "privacy":
		return true
	}
	return false
}
