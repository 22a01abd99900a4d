package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/primestyle/primestyle/internal/apperr"
	"github.com/primestyle/primestyle/internal/identity"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Identity is the authenticated caller carried by a token.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// Claims is the signed token payload.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// TokenService issues and verifies HS256 bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a token service. A non-positive ttl means DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// IdentityOf returns the token identity for a user.
func IdentityOf(u identity.User) Identity {
	return Identity{ID: u.ID, Email: u.Email, Name: u.Name}
}

// Issue signs a token for id that expires after the configured ttl.
func (s *TokenService) Issue(id Identity) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: id.ID,
		Email:  id.Email,
		Name:   id.Name,
	})
	return token.SignedString(s.secret)
}

// Authenticate verifies a token and returns the identity it carries. Missing,
// malformed, forged and expired tokens all fail with Unauthenticated.
func (s *TokenService) Authenticate(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, apperr.New(apperr.Unauthenticated, "Missing token")
	}

	claims := &Claims{}
	keyFunc := func(*jwt.Token) (any, error) { return s.secret, nil }
	token, err := jwt.ParseWithClaims(tokenString, claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return Identity{}, errInvalidToken
	}
	if claims.UserID == "" {
		return Identity{}, errInvalidToken
	}
	return Identity{ID: claims.UserID, Email: claims.Email, Name: claims.Name}, nil
}

var errInvalidToken = apperr.New(apperr.Unauthenticated, "Invalid token")
