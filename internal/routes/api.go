package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/primestyle/primestyle/internal/auth"
	"github.com/primestyle/primestyle/internal/catalog"
	"github.com/primestyle/primestyle/internal/identity"
	"github.com/primestyle/primestyle/internal/ledger"
)

// Handlers groups the per-module HTTP handlers mounted under /api.
type Handlers struct {
	Auth     *auth.Handler
	Identity *identity.Handler
	Catalog  *catalog.Handler
	Ledger   *ledger.Handler
}

// RegisterPublicRoutes mounts registration and login. loginGuard, when set,
// runs in front of login only.
func RegisterPublicRoutes(r fiber.Router, h Handlers, loginGuard fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/register", h.Auth.Register)
	if loginGuard == nil {
		group.Post("/login", h.Auth.Login)
		return
	}
	group.Post("/login", loginGuard, h.Auth.Login)
}

// RegisterProtectedRoutes mounts everything that needs a bearer token. r is
// expected to already carry the Authenticate middleware.
func RegisterProtectedRoutes(r fiber.Router, h Handlers) {
	r.Get("/me", h.Identity.Me)

	r.Get("/surveys", h.Catalog.List)
	r.Post("/surveys/attempts", h.Ledger.Attempt)

	r.Get("/activity", h.Ledger.Activity)
	r.Post("/payouts/request", h.Ledger.Payout)
}
