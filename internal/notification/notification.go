// Package notification announces ledger events to the outside world. The demo
// has no real delivery channel, so events land in the structured log.
package notification

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
)

// KindPayoutRequested is emitted after a user drains their balance.
const KindPayoutRequested = "payout_requested"

// Event is one user-facing ledger notification.
type Event struct {
	Kind    string
	UserID  string
	EntryID string
	Amount  decimal.Decimal
	Text    string
}

// Notifier delivers events. Delivery failures never roll back the ledger.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// LogNotifier writes events as structured log lines.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, ev Event) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.InfoContext(ctx, "notification."+ev.Kind,
		slog.String("user_id", ev.UserID),
		slog.String("entry_id", ev.EntryID),
		slog.String("amount", ev.Amount.StringFixed(2)),
		slog.String("text", ev.Text),
	)
	return nil
}
