package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the stored status of a ledger entry.
type Kind string

const (
	// KindAttempt credits part of a survey reward.
	KindAttempt Kind = "attempted"
	// KindPayout drains the whole balance.
	KindPayout Kind = "payout"
)

const (
	// ActivityLimit is the number of entries the activity feed returns.
	ActivityLimit = 25

	payoutLabel  = "Payout"
	attemptLabel = "Survey attempt"
	payoutNote   = "Manual payout request"
)

var (
	// CreditFraction is the share of a survey reward credited per attempt.
	CreditFraction = decimal.RequireFromString("0.5")
	// MinimumPayout is the smallest balance that can be paid out.
	MinimumPayout = decimal.RequireFromString("1.00")
)

// Entry is an immutable balance-affecting record. Attempts carry a positive
// amount and the survey id; payouts carry the negated balance they drained.
type Entry struct {
	ID       string
	UserID   string
	Kind     Kind
	Amount   decimal.Decimal
	SurveyID string
	At       time.Time
}

// Activity is the display projection of an Entry.
type Activity struct {
	ID     string
	Label  string
	Amount decimal.Decimal
	At     time.Time
	Note   *string
}

// Payout describes a completed payout request.
type Payout struct {
	Amount  decimal.Decimal
	Message string
}

// Repository stores entries together with the owning user's cached balance.
// Each append changes the entry list and the balance as one unit.
type Repository interface {
	// AppendCredit appends entry and adds entry.Amount to the owner's balance,
	// returning the new balance.
	AppendCredit(ctx context.Context, entry Entry) (decimal.Decimal, error)
	// AppendDrain fails with InsufficientBalance when the owner's balance is
	// below minimum. Otherwise it appends entry with the negated balance as its
	// amount, sets the balance to zero and returns the stored entry.
	AppendDrain(ctx context.Context, entry Entry, minimum decimal.Decimal) (Entry, error)
	// ListByUser returns the user's entries, newest first, at most limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error)
}

// CreditFor returns the amount credited for an attempt at a survey paying
// reward, rounded half away from zero to cents.
func CreditFor(reward decimal.Decimal) decimal.Decimal {
	return reward.Mul(CreditFraction).Round(2)
}

// Project converts an entry into its activity feed form.
func Project(e Entry) Activity {
	a := Activity{ID: e.ID, Label: attemptLabel, Amount: e.Amount, At: e.At}
	if e.Kind == KindPayout {
		note := payoutNote
		a.Label = payoutLabel
		a.Note = &note
	}
	return a
}
