package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SeedCredit is a test helper that credits amount to a user through a regular
// attempt entry, so the balance still equals the entry sum.
func SeedCredit(ctx context.Context, repo Repository, userID string, amount decimal.Decimal) error {
	_, err := repo.AppendCredit(ctx, Entry{
		ID:     uuid.NewString(),
		UserID: userID,
		Kind:   KindAttempt,
		Amount: amount,
		At:     time.Now().UTC(),
	})
	return err
}
