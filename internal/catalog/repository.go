package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/primestyle/primestyle/internal/apperr"
)

var errSurveyNotFound = apperr.New(apperr.NotFound, "Survey not found")

// Repository persists survey listings.
type Repository interface {
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, surveys []Survey) error
	ListActive(ctx context.Context) ([]Survey, error)
	GetActive(ctx context.Context, id string) (Survey, error)
}

// PostgresRepository stores surveys in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Count returns the number of stored surveys, active or not.
func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM surveys`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count surveys: %w", err)
	}
	return n, nil
}

// Insert stores surveys in a single transaction, keeping their order.
func (r *PostgresRepository) Insert(ctx context.Context, surveys []Survey) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	for _, s := range surveys {
		if _, err := tx.Exec(ctx, `INSERT INTO surveys (id, title, length, reward, country, category, active)
            VALUES ($1, $2, $3, $4, $5, $6, $7)`, s.ID, s.Title, s.Length, s.Reward, s.Country, s.Category, s.Active); err != nil {
			return fmt.Errorf("insert survey %q: %w", s.Title, err)
		}
	}
	return tx.Commit(ctx)
}

// ListActive returns active surveys in insertion order.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]Survey, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, length, reward, COALESCE(country, ''), COALESCE(category, ''), active
        FROM surveys WHERE active ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	defer rows.Close()

	surveys := []Survey{}
	for rows.Next() {
		var s Survey
		if err := rows.Scan(&s.ID, &s.Title, &s.Length, &s.Reward, &s.Country, &s.Category, &s.Active); err != nil {
			return nil, fmt.Errorf("scan survey: %w", err)
		}
		surveys = append(surveys, s)
	}
	return surveys, rows.Err()
}

// GetActive fetches an active survey by id.
func (r *PostgresRepository) GetActive(ctx context.Context, id string) (Survey, error) {
	row := r.db.QueryRow(ctx, `SELECT id, title, length, reward, COALESCE(country, ''), COALESCE(category, ''), active
        FROM surveys WHERE id = $1 AND active`, id)
	var s Survey
	if err := row.Scan(&s.ID, &s.Title, &s.Length, &s.Reward, &s.Country, &s.Category, &s.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Survey{}, errSurveyNotFound
		}
		return Survey{}, fmt.Errorf("scan survey: %w", err)
	}
	return s, nil
}
