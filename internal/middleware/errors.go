package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/primestyle/primestyle/internal/apperr"
)

// StatusFor maps handler errors, both *fiber.Error and the apperr taxonomy,
// onto an HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return apperr.HTTPStatus(err)
}

// ErrorHandler renders errors as {"message": "..."}. Internal failures get a
// generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	message := apperr.PublicMessage(err)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		message = fe.Message
	}
	return c.Status(status).JSON(fiber.Map{"message": message})
}
