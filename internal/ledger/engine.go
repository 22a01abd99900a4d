package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/primestyle/primestyle/internal/apperr"
	"github.com/primestyle/primestyle/internal/catalog"
	"github.com/primestyle/primestyle/internal/notification"
)

// SurveySource resolves active surveys for crediting.
type SurveySource interface {
	GetActive(ctx context.Context, id string) (catalog.Survey, error)
}

// Engine records attempts and payouts against the ledger.
type Engine struct {
	repo     Repository
	surveys  SurveySource
	notifier notification.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewEngine builds a ledger engine. notifier and logger may be nil.
func NewEngine(repo Repository, surveys SurveySource, notifier notification.Notifier, logger *slog.Logger) *Engine {
	return &Engine{repo: repo, surveys: surveys, notifier: notifier, logger: logger, now: time.Now}
}

// RecordAttempt credits the user with CreditFraction of the survey reward.
// Repeated attempts at the same survey are credited each time.
func (e *Engine) RecordAttempt(ctx context.Context, userID, surveyID string) (decimal.Decimal, error) {
	if surveyID == "" {
		return decimal.Zero, apperr.New(apperr.InvalidInput, "surveyId required")
	}
	survey, err := e.surveys.GetActive(ctx, surveyID)
	if err != nil {
		return decimal.Zero, err
	}

	amount := CreditFor(survey.Reward)
	entry := Entry{
		ID:       uuid.NewString(),
		UserID:   userID,
		Kind:     KindAttempt,
		Amount:   amount,
		SurveyID: survey.ID,
		At:       e.now().UTC(),
	}
	balance, err := e.repo.AppendCredit(ctx, entry)
	if err != nil {
		return decimal.Zero, err
	}

	if e.logger != nil {
		e.logger.Info("ledger.attempt credited",
			slog.String("user_id", userID),
			slog.String("survey_id", survey.ID),
			slog.String("amount", amount.StringFixed(2)),
			slog.String("balance", balance.StringFixed(2)),
		)
	}
	return amount, nil
}

// RequestPayout drains the user's entire balance. Balances below
// MinimumPayout are rejected without any change.
func (e *Engine) RequestPayout(ctx context.Context, userID string) (Payout, error) {
	entry, err := e.repo.AppendDrain(ctx, Entry{
		ID:     uuid.NewString(),
		UserID: userID,
		Kind:   KindPayout,
		At:     e.now().UTC(),
	}, MinimumPayout)
	if err != nil {
		return Payout{}, err
	}

	amount := entry.Amount.Neg()
	payout := Payout{
		Amount:  amount,
		Message: fmt.Sprintf("Payout requested for $%s (demo)", amount.StringFixed(2)),
	}

	if e.logger != nil {
		e.logger.Info("ledger.payout requested", slog.String("user_id", userID), slog.String("amount", amount.StringFixed(2)))
	}
	if e.notifier != nil {
		ev := notification.Event{
			Kind:    notification.KindPayoutRequested,
			UserID:  userID,
			EntryID: entry.ID,
			Amount:  amount,
			Text:    payout.Message,
		}
		if err := e.notifier.Notify(ctx, ev); err != nil && e.logger != nil {
			e.logger.Warn("ledger.payout notify failed", slog.String("user_id", userID), slog.Any("error", err))
		}
	}
	return payout, nil
}

// ListActivity returns the user's most recent entries, newest first, in
// display form. A non-positive limit means ActivityLimit.
func (e *Engine) ListActivity(ctx context.Context, userID string, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = ActivityLimit
	}
	entries, err := e.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Activity, 0, len(entries))
	for _, entry := range entries {
		out = append(out, Project(entry))
	}
	return out, nil
}

func insufficientMessage(minimum decimal.Decimal) string {
	return fmt.Sprintf("Minimum payout is $%s in demo", minimum.StringFixed(2))
}
