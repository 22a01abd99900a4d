package identity

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes profile endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// UserResponse is the wire form of PublicUser with the balance as a number.
type UserResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Balance float64 `json:"balance"`
}

// ToResponse converts the public projection into its wire form.
func ToResponse(u PublicUser) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Balance: u.Balance.InexactFloat64()}
}

// Me returns the authenticated user's public view. The user id is read from
// the request locals populated by the auth middleware.
func (h *Handler) Me(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "Missing token")
	}
	user, err := h.service.GetByID(c.UserContext(), uid)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(ToResponse(PublicView(user)))
}
