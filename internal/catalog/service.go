package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service exposes the read-only survey catalog.
type Service struct {
	repo Repository
}

// NewService builds a catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListActive returns active surveys. The order is stable across calls.
func (s *Service) ListActive(ctx context.Context) ([]Survey, error) {
	return s.repo.ListActive(ctx)
}

// GetActive returns the survey with id, failing with NotFound when it is
// missing or inactive.
func (s *Service) GetActive(ctx context.Context, id string) (Survey, error) {
	return s.repo.GetActive(ctx, id)
}

// DefaultSurveys is the set inserted into an empty catalog.
func DefaultSurveys() []Survey {
	rows := []struct {
		title    string
		length   int
		reward   string
		country  string
		category string
	}{
		{"Consumer electronics study", 10, "0.75", "US", "Shopping"},
		{"Food delivery habits", 7, "0.60", "Any", "Food"},
		{"Mobile game test (fun!)", 12, "1.10", "Any", "Gaming"},
		{"Streaming services review", 9, "0.85", "CA/US", "Entertainment"},
	}
	surveys := make([]Survey, 0, len(rows))
	for _, row := range rows {
		surveys = append(surveys, Survey{
			ID:       uuid.NewString(),
			Title:    row.title,
			Length:   row.length,
			Reward:   decimal.RequireFromString(row.reward),
			Country:  row.country,
			Category: row.category,
			Active:   true,
		})
	}
	return surveys
}

// Seed inserts DefaultSurveys when the catalog is empty and reports whether
// anything was inserted.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err := s.repo.Insert(ctx, DefaultSurveys()); err != nil {
		return false, fmt.Errorf("seed surveys: %w", err)
	}
	return true, nil
}
