package middlewares

import (
	"errors"
	"log"

	"schoolms-backend/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Fiber errors (use their status code + message)
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// 2) Validation errors (422 + per-field info)
	if ve, ok := err.(validator.ValidationErrors); ok {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			// fe.Field() is struct field name; you can map to json tag if you prefer
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	// 3) Ledger domain errors
	if status, ok := domainStatus(err); ok {
		return c.Status(status).JSON(fiber.Map{"message": err.Error()})
	}

	// 4) Unknown errors (500)
	log.Printf("internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}

// domainStatus maps fee ledger errors to HTTP codes. All of them mean the
// transaction rolled back with no partial effect.
func domainStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, services.ErrObligationExists),
		errors.Is(err, services.ErrDuplicateReceipt):
		return fiber.StatusConflict, true
	case errors.Is(err, services.ErrOverpayment),
		errors.Is(err, services.ErrInvalidDiscount):
		return fiber.StatusUnprocessableEntity, true
	}
	return 0, false
}
