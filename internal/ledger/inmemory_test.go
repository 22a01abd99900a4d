package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/primestyle/primestyle/internal/apperr"
	"github.com/primestyle/primestyle/internal/identity"
)

func TestInMemoryLedger_ListByUserIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	users := identity.NewMemoryRepository()
	_ = users.Create(ctx, identity.User{ID: "a", Email: "a@example.com"})
	_ = users.Create(ctx, identity.User{ID: "b", Email: "b@example.com"})
	l := NewInMemory(users)

	if err := SeedCredit(ctx, l, "a", decimal.NewFromInt(1)); err != nil {
		t.Fatalf("seed a: %v", err)
	}
	if err := SeedCredit(ctx, l, "b", decimal.NewFromInt(2)); err != nil {
		t.Fatalf("seed b: %v", err)
	}

	entries, err := l.ListByUser(ctx, "a", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].UserID != "a" {
		t.Fatalf("unexpected entries for a: %+v", entries)
	}
}

func TestInMemoryLedger_DrainUnknownUser(t *testing.T) {
	l := NewInMemory(identity.NewMemoryRepository())
	_, err := l.AppendDrain(context.Background(), Entry{ID: "p", UserID: "ghost", Kind: KindPayout, At: time.Now()}, MinimumPayout)
	if !errors.Is(err, apperr.NotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInMemoryLedger_DrainAtExactMinimum(t *testing.T) {
	ctx := context.Background()
	users := identity.NewMemoryRepository()
	_ = users.Create(ctx, identity.User{ID: "a", Email: "a@example.com"})
	l := NewInMemory(users)
	_ = SeedCredit(ctx, l, "a", MinimumPayout)

	entry, err := l.AppendDrain(ctx, Entry{ID: "p", UserID: "a", Kind: KindPayout, At: time.Now()}, MinimumPayout)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if !entry.Amount.Equal(MinimumPayout.Neg()) {
		t.Fatalf("expected -1.00, got %s", entry.Amount)
	}
}
