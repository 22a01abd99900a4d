package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/primestyle/primestyle/internal/apperr"
)

var errInvalidCredentials = apperr.New(apperr.Unauthorized, "Invalid email or password")

// Service manages the user lifecycle.
type Service struct {
	repo     Repository
	hashCost int
	now      func() time.Time
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, hashCost: bcrypt.DefaultCost, now: time.Now}
}

// Register creates a user with a zero balance and a bcrypt password secret.
// The email must not already be registered.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return User{}, apperr.New(apperr.InvalidInput, "Missing fields")
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return User{}, errEmailTaken
	} else if !errors.Is(err, apperr.NotFound) {
		return User{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:         uuid.NewString(),
		Name:       input.Name,
		Email:      input.Email,
		SecretHash: hash,
		Balance:    decimal.Zero,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// VerifyCredentials returns the user matching email when rawPassword verifies
// against the stored secret. Unknown emails and wrong passwords fail alike.
func (s *Service) VerifyCredentials(ctx context.Context, email, rawPassword string) (User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.NotFound) {
			return User{}, errInvalidCredentials
		}
		return User{}, fmt.Errorf("lookup email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.SecretHash, []byte(rawPassword)); err != nil {
		return User{}, errInvalidCredentials
	}

	return user, nil
}

// GetByID loads the current user record, including the latest balance.
func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}
