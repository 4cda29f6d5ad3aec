package middlewares

import (
	"log"

	"schoolms-backend/database"

	"github.com/gofiber/fiber/v2"
)

// RequestTx opens a per-request DB transaction for mutating methods. Run
// AFTER IsAuthenticatedHeader() and AFTER Idempotency() (idempotency records
// must not be tied to the handler TX).
func RequestTx() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
		default:
			return c.Next()
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to begin transaction")
		}

		hooks := &[]func(){}

		// Ensure we always cleanup.
		defer func() {
			if r := recover(); r != nil {
				_ = tx.Rollback()
				panic(r) // re-panic after rollback so Fiber's handler can catch
			}
			if err != nil {
				_ = tx.Rollback()
				return
			}
			if e := tx.Commit().Error; e != nil {
				log.Printf("tx commit failed: %v", e)
				err = fiber.NewError(fiber.StatusInternalServerError, "transaction commit failed")
				return
			}
			// Only now is the work durable; run the deferred side effects.
			for _, fn := range *hooks {
				go fn()
			}
		}()

		// Make the TX available to handlers via GetRequestDB(c).
		c.Locals("tx", tx)
		c.Locals("txHooks", hooks)

		err = c.Next()
		return err
	}
}

// OnCommit defers fn until the request transaction has committed. Handlers use
// it for side effects that must not fire on rollback, like payment
// notifications. Outside a request transaction fn runs immediately in its own
// goroutine.
func OnCommit(c *fiber.Ctx, fn func()) {
	if hooks, ok := c.Locals("txHooks").(*[]func()); ok && hooks != nil {
		*hooks = append(*hooks, fn)
		return
	}
	go fn()
}
