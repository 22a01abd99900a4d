package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/primestyle/primestyle/internal/apperr"
)

func TestRegisterAndVerifyCredentials(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !user.Balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", user.Balance)
	}
	if string(user.SecretHash) == "hunter22" {
		t.Fatalf("password stored in clear")
	}

	verified, err := svc.VerifyCredentials(ctx, "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, verified.ID)
	}

	if _, err := svc.VerifyCredentials(ctx, "ada@example.com", "hunter23"); !errors.Is(err, apperr.Unauthorized) {
		t.Fatalf("expected unauthorized for wrong password, got %v", err)
	}
}

func TestVerifyCredentialsDoesNotRevealUnknownEmail(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, unknownErr := svc.VerifyCredentials(ctx, "nobody@example.com", "pw")
	_, wrongErr := svc.VerifyCredentials(ctx, "ada@example.com", "nope")
	if !errors.Is(unknownErr, apperr.Unauthorized) || !errors.Is(wrongErr, apperr.Unauthorized) {
		t.Fatalf("expected unauthorized for both, got %v / %v", unknownErr, wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("messages differ: %q vs %q", unknownErr, wrongErr)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "pw-one"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Register(ctx, RegisterInput{Name: "Eve", Email: "ada@example.com", Password: "pw-two"}); !errors.Is(err, apperr.Conflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	stored, err := svc.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Name != "Ada" {
		t.Fatalf("first user was modified: %+v", stored)
	}
	if _, err := svc.VerifyCredentials(ctx, "ada@example.com", "pw-one"); err != nil {
		t.Fatalf("first user credentials no longer verify: %v", err)
	}
}

func TestRegisterEmailIsCaseSensitive(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "Ada@example.com", Password: "pw"}); err != nil {
		t.Fatalf("differently cased email should register: %v", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	inputs := []RegisterInput{
		{Email: "a@example.com", Password: "pw"},
		{Name: "A", Password: "pw"},
		{Name: "A", Email: "a@example.com"},
	}
	for _, in := range inputs {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, apperr.InvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", in, err)
		}
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, apperr.NotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPublicViewReflectsBalanceUpdates(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	err = repo.UpdateBalance(ctx, user.ID, func(current decimal.Decimal) (decimal.Decimal, error) {
		return current.Add(decimal.RequireFromString("0.55")), nil
	})
	if err != nil {
		t.Fatalf("update balance: %v", err)
	}

	fresh, err := svc.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	view := PublicView(fresh)
	if !view.Balance.Equal(decimal.RequireFromString("0.55")) {
		t.Fatalf("expected balance 0.55, got %s", view.Balance)
	}
	if view.Email != "ada@example.com" || view.ID != user.ID {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestUpdateBalanceLeavesStateOnError(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()
	user, _ := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "pw"})

	boom := errors.New("boom")
	err := repo.UpdateBalance(ctx, user.ID, func(decimal.Decimal) (decimal.Decimal, error) {
		return decimal.NewFromInt(99), boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	fresh, _ := svc.GetByID(ctx, user.ID)
	if !fresh.Balance.IsZero() {
		t.Fatalf("balance changed on failed update: %s", fresh.Balance)
	}
}
