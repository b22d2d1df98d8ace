package models

import "time"

const (
	TransactionTypeOut      = "Out"
	TransactionTypeIn       = "In"
	TransactionTypeWithdraw = "Withdraw"
	TransactionTypeBridge   = "Bridge"
)

const (
	StatusSending   = "Sending"
	StatusSettling  = "Settling"
	StatusCompleted = "Completed"
)

// Transaction is one row of the transactions table. Recipient is set for
// Out and Withdraw rows, FromUser for Bridge rows; both are stored as NULL
// when empty.
type Transaction struct {
	ID        int64
	UserID    string
	Type      string
	Amount    string
	Recipient string
	FromUser  string
	Memo      string
	Status    string
	CreatedAt time.Time
}

// ValidType reports whether t is a known transaction type.
func ValidType(t string) bool {
	switch t {
	case TransactionTypeOut, TransactionTypeIn, TransactionTypeWithdraw, TransactionTypeBridge:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s string) bool {
	switch s {
	case StatusSending, StatusSettling, StatusCompleted:
		return true
	}
	return false
}
