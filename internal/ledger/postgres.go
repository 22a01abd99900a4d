package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/primestyle/primestyle/internal/apperr"
)

// PostgresLedger persists entries in the attempts table and keeps
// users.balance in step inside the same transaction.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a Postgres-backed ledger implementation.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// AppendCredit records an attempt entry and increments the balance.
func (l *PostgresLedger) AppendCredit(ctx context.Context, entry Entry) (decimal.Decimal, error) {
	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if _, err := lockBalance(ctx, tx, entry.UserID); err != nil {
		return decimal.Zero, err
	}

	if err := insertEntry(ctx, tx, entry); err != nil {
		return decimal.Zero, err
	}

	var balance decimal.Decimal
	if err := tx.QueryRow(ctx, `UPDATE users SET balance = balance + $1 WHERE id = $2 RETURNING balance`, entry.Amount, entry.UserID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("credit balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// AppendDrain records a payout of the whole balance and zeroes it.
func (l *PostgresLedger) AppendDrain(ctx context.Context, entry Entry, minimum decimal.Decimal) (Entry, error) {
	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Entry{}, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	balance, err := lockBalance(ctx, tx, entry.UserID)
	if err != nil {
		return Entry{}, err
	}
	if balance.LessThan(minimum) {
		return Entry{}, apperr.New(apperr.InsufficientBalance, insufficientMessage(minimum))
	}

	entry.Amount = balance.Neg()
	if err := insertEntry(ctx, tx, entry); err != nil {
		return Entry{}, err
	}
	if _, err := tx.Exec(ctx, `UPDATE users SET balance = 0 WHERE id = $1`, entry.UserID); err != nil {
		return Entry{}, fmt.Errorf("drain balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// ListByUser returns the newest entries first.
func (l *PostgresLedger) ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error) {
	rows, err := l.db.Query(ctx, `SELECT id, user_id, COALESCE(survey_id, ''), status, amount, at
        FROM attempts WHERE user_id = $1 ORDER BY seq DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e    Entry
			kind string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.SurveyID, &kind, &e.Amount, &e.At); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Kind = Kind(kind)
		e.At = e.At.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func lockBalance(ctx context.Context, tx pgx.Tx, userID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	if err := tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperr.New(apperr.NotFound, "User not found")
		}
		return decimal.Zero, fmt.Errorf("lock balance: %w", err)
	}
	return balance, nil
}

func insertEntry(ctx context.Context, tx pgx.Tx, e Entry) error {
	var surveyID *string
	if e.SurveyID != "" {
		surveyID = &e.SurveyID
	}
	_, err := tx.Exec(ctx, `INSERT INTO attempts (id, user_id, survey_id, status, amount, at)
        VALUES ($1, $2, $3, $4, $5, $6)`, e.ID, e.UserID, surveyID, string(e.Kind), e.Amount, e.At.UTC())
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}
