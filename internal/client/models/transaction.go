package models

import "time"

type Kind string

const (
	KindOut      Kind = "Out"
	KindIn       Kind = "In"
	KindWithdraw Kind = "Withdraw"
	KindBridge   Kind = "Bridge"
)

type Status string

const (
	StatusSending   Status = "Sending"
	StatusSettling  Status = "Settling"
	StatusCompleted Status = "Completed"
)

var statusRank = map[Status]int{
	StatusSending:   0,
	StatusSettling:  1,
	StatusCompleted: 2,
}

// Rank orders statuses along Sending, Settling, Completed. Unknown
// statuses rank -1.
func (s Status) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

// Transaction is one ledger row. Counterparty is the recipient for Out and
// Withdraw and the source (from_user) for In and Bridge.
type Transaction struct {
	ID           int64
	UserID       string
	Kind         Kind
	Amount       string
	Counterparty string
	Memo         string
	Status       Status
	CreatedAt    time.Time
}

// CounterpartyIsSource reports whether Counterparty names the sender.
func (t *Transaction) CounterpartyIsSource() bool {
	return t.Kind == KindIn || t.Kind == KindBridge
}
