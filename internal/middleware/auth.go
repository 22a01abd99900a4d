package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/primestyle/primestyle/internal/auth"
)

// Locals keys populated by Authenticate.
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserNameKey  = "user_name"
)

// Authenticate validates the bearer token and stores the caller identity in
// request locals.
func Authenticate(tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		var tokenStr string
		if len(authz) > len("Bearer ") && strings.EqualFold(authz[:len("Bearer ")], "bearer ") {
			tokenStr = strings.TrimSpace(authz[len("Bearer "):])
		}
		id, err := tokens.Authenticate(tokenStr)
		if err != nil {
			return err
		}

		c.Locals(UserIDKey, id.ID)
		c.Locals(UserEmailKey, id.Email)
		c.Locals(UserNameKey, id.Name)
		return c.Next()
	}
}
