package auth

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/primestyle/primestyle/internal/apperr"
	"github.com/primestyle/primestyle/internal/identity"
)

// Handler exposes register and login endpoints.
type Handler struct {
	ids    *identity.Service
	tokens *TokenService
	logger *slog.Logger
}

// NewHandler builds an auth handler.
func NewHandler(ids *identity.Service, tokens *TokenService, logger *slog.Logger) *Handler {
	return &Handler{ids: ids, tokens: tokens, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string                `json:"token"`
	User  identity.UserResponse `json:"user"`
}

// Register creates a user and returns a token for it.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.ids.Register(c.UserContext(), identity.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}
	token, err := h.tokens.Issue(IdentityOf(user))
	if err != nil {
		return err
	}
	if h.logger != nil {
		h.logger.Info("auth.register completed", slog.String("user_id", user.ID), slog.Int("status", http.StatusOK))
	}
	return c.Status(http.StatusOK).JSON(authResponse{Token: token, User: identity.ToResponse(identity.PublicView(user))})
}

// Login verifies credentials and returns a token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Email == "" || req.Password == "" {
		return apperr.New(apperr.InvalidInput, "Missing credentials")
	}
	user, err := h.ids.VerifyCredentials(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	token, err := h.tokens.Issue(IdentityOf(user))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(authResponse{Token: token, User: identity.ToResponse(identity.PublicView(user))})
}

func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return apperr.New(apperr.InvalidInput, "Invalid request body")
	}
	return nil
}
