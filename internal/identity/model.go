package identity

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered survey taker. Balance is a cache of the sum of
// the user's ledger entries and is only written by the ledger.
type User struct {
	ID         string
	Name       string
	Email      string
	SecretHash []byte
	Balance    decimal.Decimal
	CreatedAt  time.Time
}

// PublicUser is the projection of a User that is safe to return to clients.
type PublicUser struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Balance decimal.Decimal `json:"balance"`
}

// RegisterInput carries the fields required to create a user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// PublicView strips the verification secret from the user record.
func PublicView(u User) PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Balance: u.Balance}
}
