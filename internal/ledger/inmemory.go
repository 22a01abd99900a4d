package ledger

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/primestyle/primestyle/internal/apperr"
)

// Accounts is the balance side of the in-memory ledger. UpdateBalance must run
// fn and store its result while no other update or read can observe the user.
type Accounts interface {
	UpdateBalance(ctx context.Context, id string, fn func(current decimal.Decimal) (decimal.Decimal, error)) error
}

type inMemoryLedger struct {
	accounts Accounts
	mu       sync.RWMutex
	entries  []Entry
}

// NewInMemory creates a concurrency-safe in-memory ledger writing balances
// through accounts.
func NewInMemory(accounts Accounts) Repository {
	return &inMemoryLedger{accounts: accounts}
}

func (l *inMemoryLedger) AppendCredit(ctx context.Context, entry Entry) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := l.accounts.UpdateBalance(ctx, entry.UserID, func(current decimal.Decimal) (decimal.Decimal, error) {
		l.append(entry)
		balance = current.Add(entry.Amount)
		return balance, nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (l *inMemoryLedger) AppendDrain(ctx context.Context, entry Entry, minimum decimal.Decimal) (Entry, error) {
	err := l.accounts.UpdateBalance(ctx, entry.UserID, func(current decimal.Decimal) (decimal.Decimal, error) {
		if current.LessThan(minimum) {
			return current, apperr.New(apperr.InsufficientBalance, insufficientMessage(minimum))
		}
		entry.Amount = current.Neg()
		l.append(entry)
		return decimal.Zero, nil
	})
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (l *inMemoryLedger) ListByUser(_ context.Context, userID string, limit int) ([]Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := []Entry{}
	for i := len(l.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if l.entries[i].UserID == userID {
			out = append(out, l.entries[i])
		}
	}
	return out, nil
}

func (l *inMemoryLedger) append(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}
