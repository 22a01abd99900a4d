package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/primestyle/primestyle/internal/apperr"
)

func TestSeedInsertsDefaultSetOnce(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	inserted, err := svc.Seed(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !inserted {
		t.Fatalf("expected first seed to insert")
	}
	inserted, err = svc.Seed(ctx)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if inserted {
		t.Fatalf("expected second seed to be a no-op")
	}

	surveys, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(surveys) != 4 {
		t.Fatalf("expected 4 surveys, got %d", len(surveys))
	}
	game := surveys[2]
	if game.Title != "Mobile game test (fun!)" || game.Length != 12 || game.Category != "Gaming" {
		t.Fatalf("unexpected seed row %+v", game)
	}
	if !game.Reward.Equal(decimal.RequireFromString("1.10")) {
		t.Fatalf("expected reward 1.10, got %s", game.Reward)
	}
}

func TestListActiveIsStableAndSkipsInactive(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	err := repo.Insert(ctx, []Survey{
		{ID: "a", Title: "A", Reward: decimal.NewFromInt(1), Active: true},
		{ID: "b", Title: "B", Reward: decimal.NewFromInt(1), Active: false},
		{ID: "c", Title: "C", Reward: decimal.NewFromInt(1), Active: true},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	first, _ := svc.ListActive(ctx)
	second, _ := svc.ListActive(ctx)
	if len(first) != 2 || first[0].ID != "a" || first[1].ID != "c" {
		t.Fatalf("unexpected listing %+v", first)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("listing order changed between calls")
		}
	}

	if _, err := svc.GetActive(ctx, "b"); !errors.Is(err, apperr.NotFound) {
		t.Fatalf("expected inactive survey to be not found, got %v", err)
	}
	if _, err := svc.GetActive(ctx, "zzz"); !errors.Is(err, apperr.NotFound) {
		t.Fatalf("expected unknown survey to be not found, got %v", err)
	}
	if s, err := svc.GetActive(ctx, "c"); err != nil || s.Title != "C" {
		t.Fatalf("expected survey C, got %+v, %v", s, err)
	}
}
