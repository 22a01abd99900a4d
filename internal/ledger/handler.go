package ledger

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/primestyle/primestyle/internal/apperr"
)

// Handler exposes attempt, activity and payout endpoints.
type Handler struct {
	engine *Engine
}

// NewHandler constructs a ledger handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

type attemptRequest struct {
	SurveyID string `json:"surveyId"`
}

type activityResponse struct {
	ID     string    `json:"id"`
	Type   string    `json:"type"`
	Amount float64   `json:"amount"`
	At     time.Time `json:"at"`
	Note   *string   `json:"note"`
}

// Attempt credits the caller for attempting a survey.
func (h *Handler) Attempt(c *fiber.Ctx) error {
	var req attemptRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperr.New(apperr.InvalidInput, "Invalid request body")
		}
	}
	uid, _ := c.Locals("user_id").(string)
	credited, err := h.engine.RecordAttempt(c.UserContext(), uid, req.SurveyID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"ok": true, "credited": credited.InexactFloat64()})
}

// Activity returns the caller's recent ledger entries.
func (h *Handler) Activity(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	acts, err := h.engine.ListActivity(c.UserContext(), uid, ActivityLimit)
	if err != nil {
		return err
	}
	out := make([]activityResponse, 0, len(acts))
	for _, a := range acts {
		out = append(out, activityResponse{ID: a.ID, Type: a.Label, Amount: a.Amount.InexactFloat64(), At: a.At, Note: a.Note})
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Payout drains the caller's balance.
func (h *Handler) Payout(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	payout, err := h.engine.RequestPayout(c.UserContext(), uid)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"ok": true, "message": payout.Message})
}
