package catalog

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a catalog HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type surveyResponse struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Length   int     `json:"length"`
	Reward   float64 `json:"reward"`
	Country  string  `json:"country"`
	Category string  `json:"category"`
	Active   bool    `json:"active"`
}

// List returns active surveys.
func (h *Handler) List(c *fiber.Ctx) error {
	surveys, err := h.service.ListActive(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]surveyResponse, 0, len(surveys))
	for _, s := range surveys {
		out = append(out, surveyResponse{
			ID:       s.ID,
			Title:    s.Title,
			Length:   s.Length,
			Reward:   s.Reward.InexactFloat64(),
			Country:  s.Country,
			Category: s.Category,
			Active:   s.Active,
		})
	}
	return c.Status(http.StatusOK).JSON(out)
}
