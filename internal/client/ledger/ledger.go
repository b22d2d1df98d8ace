// Package ledger keeps the signed-in user's transaction history in memory,
// creates new records through the transaction table and advances their
// settlement status on a timer.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/veil/internal/client/client"
	"github.com/dmitrijs2005/veil/internal/client/models"
	"github.com/dmitrijs2005/veil/internal/client/scheduler"
	"github.com/dmitrijs2005/veil/internal/logging"
	"github.com/go-playground/validator/v10"
)

var (
	ErrBusy              = errors.New("a transaction is already being processed")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Ledger struct {
	table         client.TransactionTable
	sched         *scheduler.Scheduler
	settleAfter   time.Duration
	completeAfter time.Duration
	logger        logging.Logger
	validate      *validator.Validate

	mu      sync.Mutex
	items   []*models.Transaction
	loading bool
	busy    bool
	notify  func(models.Transaction)
	// resets counts Reset calls so a load that straddles one is dropped.
	resets int
}

func New(table client.TransactionTable, sched *scheduler.Scheduler, settleAfter, completeAfter time.Duration, l logging.Logger) *Ledger {
	return &Ledger{
		table:         table,
		sched:         sched,
		settleAfter:   settleAfter,
		completeAfter: completeAfter,
		logger:        l.With("module", "ledger"),
		validate:      newValidator(),
	}
}

// Notify sets fn to be called after a record is added or changes status.
func (l *Ledger) Notify(fn func(models.Transaction)) {
	l.mu.Lock()
	l.notify = fn
	l.mu.Unlock()
}

// LoadHistory replaces the list with userID's records, newest first. On
// failure the current list is kept. Records created while the load was in
// flight stay on top, and a status never moves back to an earlier step.
func (l *Ledger) LoadHistory(ctx context.Context, userID string) error {
	l.mu.Lock()
	l.loading = true
	resets := l.resets
	known := make(map[int64]bool, len(l.items))
	for _, t := range l.items {
		known[t.ID] = true
	}
	l.mu.Unlock()

	items, err := l.table.ListByUser(ctx, userID)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	if err != nil {
		l.logger.Error(ctx, "load history", "user", userID, "error", err)
		return err
	}
	if l.resets != resets {
		return nil
	}
	l.items = merge(l.items, items, known)
	return nil
}

// merge returns fetched with the local status kept where it is further
// along, preceded by local records that were not known when the fetch
// started and are missing from it.
func merge(local, fetched []*models.Transaction, known map[int64]bool) []*models.Transaction {
	byID := make(map[int64]*models.Transaction, len(local))
	for _, t := range local {
		byID[t.ID] = t
	}

	out := make([]*models.Transaction, 0, len(fetched)+len(local))
	inFetched := make(map[int64]bool, len(fetched))
	for _, t := range fetched {
		inFetched[t.ID] = true
	}
	for _, t := range local {
		if !known[t.ID] && !inFetched[t.ID] {
			out = append(out, t)
		}
	}
	for _, t := range fetched {
		cp := *t
		if cur, ok := byID[t.ID]; ok && cur.Status.Rank() > cp.Status.Rank() {
			cp.Status = cur.Status
		}
		out = append(out, &cp)
	}
	return out
}

// CreateTransaction validates f, inserts a Sending record of kind and
// schedules its settlement. Invalid input never reaches the table.
func (l *Ledger) CreateTransaction(ctx context.Context, userID string, kind models.Kind, f Fields) (*models.Transaction, error) {
	t, err := build(l.validate, userID, kind, f)
	if err != nil {
		return nil, err
	}

	created, err := l.table.Insert(ctx, t)
	if err != nil {
		l.logger.Error(ctx, "insert transaction", "kind", kind, "error", err)
		return nil, fmt.Errorf("save transaction: %w", err)
	}

	l.mu.Lock()
	l.items = append([]*models.Transaction{created}, l.items...)
	notify := l.notify
	l.mu.Unlock()

	l.logger.Info(ctx, "transaction created", "id", created.ID, "kind", created.Kind)
	if notify != nil {
		notify(*created)
	}

	l.ScheduleSettlement(created.ID)
	cp := *created
	return &cp, nil
}

// Submit runs CreateTransaction in the background and reports through done,
// which may be nil. Only one submission may be in flight.
func (l *Ledger) Submit(ctx context.Context, userID string, kind models.Kind, f Fields, done func(*models.Transaction, error)) error {
	l.mu.Lock()
	if l.busy {
		l.mu.Unlock()
		return ErrBusy
	}
	l.busy = true
	l.mu.Unlock()

	go func() {
		t, err := l.CreateTransaction(ctx, userID, kind, f)

		l.mu.Lock()
		l.busy = false
		l.mu.Unlock()

		if done != nil {
			done(t, err)
		}
	}()
	return nil
}

// Busy reports whether a submission is in flight.
func (l *Ledger) Busy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.busy
}

// AdvanceStatus moves record id to st in memory and writes st to the table.
// Repeating the current status changes nothing locally but is still written;
// going backwards or skipping a step is rejected. Records missing from
// memory are still written.
func (l *Ledger) AdvanceStatus(ctx context.Context, id int64, st models.Status) error {
	return l.advance(ctx, id, st, false)
}

// advance is AdvanceStatus; with skip set a forward jump over a step is
// accepted, which lets the settlement timer catch up on a record whose
// earlier step was not saved.
func (l *Ledger) advance(ctx context.Context, id int64, st models.Status, skip bool) error {
	if st.Rank() < 0 {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, st)
	}

	var changed *models.Transaction
	l.mu.Lock()
	for _, t := range l.items {
		if t.ID != id {
			continue
		}
		switch cur := t.Status.Rank(); {
		case st.Rank() == cur:
		case st.Rank() == cur+1, skip && st.Rank() > cur:
			t.Status = st
			cp := *t
			changed = &cp
		default:
			from := t.Status
			l.mu.Unlock()
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, st)
		}
		break
	}
	notify := l.notify
	l.mu.Unlock()

	if changed != nil && notify != nil {
		notify(*changed)
	}

	if err := l.table.UpdateStatus(ctx, id, st); err != nil {
		l.logger.Error(ctx, "update status", "id", id, "status", st, "error", err)
		return err
	}
	return nil
}

// ScheduleSettlement arms the Settling and Completed steps for id. The
// returned task cancels whichever steps have not run yet.
func (l *Ledger) ScheduleSettlement(id int64) scheduler.Task {
	s := &settlement{settled: make(chan struct{}), stop: make(chan struct{})}

	s.settle = l.sched.After(l.settleAfter, func() {
		defer close(s.settled)
		l.step(id, models.StatusSettling)
	})
	s.complete = l.sched.After(l.completeAfter, func() {
		select {
		case <-s.settled:
		case <-s.stop:
			return
		}
		l.step(id, models.StatusCompleted)
	})
	return s
}

func (l *Ledger) step(id int64, st models.Status) {
	ctx := context.Background()
	if err := l.advance(ctx, id, st, true); err != nil {
		l.logger.Warn(ctx, "settlement step failed", "id", id, "status", st, "error", err)
	}
}

// List returns a copy of the records, newest first.
func (l *Ledger) List() []models.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Transaction, len(l.items))
	for i, t := range l.items {
		out[i] = *t
	}
	return out
}

func (l *Ledger) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Reset forgets the in-memory records.
func (l *Ledger) Reset() {
	l.mu.Lock()
	l.items = nil
	l.resets++
	l.mu.Unlock()
}

// settlement orders Completed after Settling even when both timers fire
// together.
type settlement struct {
	settle   scheduler.Task
	complete scheduler.Task
	settled  chan struct{}
	stop     chan struct{}
	once     sync.Once
}

func (s *settlement) Stop() bool {
	s.once.Do(func() { close(s.stop) })
	a := s.settle.Stop()
	b := s.complete.Stop()
	return a || b
}
