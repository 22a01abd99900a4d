package identity

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// MemoryRepository is an in-memory user store for development and tests. It
// also exposes the balance book the in-memory ledger writes through.
type MemoryRepository struct {
	mu      sync.RWMutex
	users   map[string]User
	byEmail map[string]string
}

// NewMemoryRepository builds an in-memory user store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]User), byEmail: make(map[string]string)}
}

func (r *MemoryRepository) Create(_ context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return errEmailTaken
	}
	r.users[user.ID] = user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return User{}, errUserNotFound
	}
	return r.users[id], nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return User{}, errUserNotFound
	}
	return user, nil
}

// UpdateBalance runs fn with the user's current balance while holding the
// write lock and stores the balance it returns. If fn fails nothing changes.
func (r *MemoryRepository) UpdateBalance(_ context.Context, id string, fn func(current decimal.Decimal) (decimal.Decimal, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return errUserNotFound
	}
	next, err := fn(user.Balance)
	if err != nil {
		return err
	}
	user.Balance = next
	r.users[id] = user
	return nil
}
