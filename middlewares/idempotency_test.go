package middlewares

import (
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolms-backend/database"
	"schoolms-backend/models"
)

func newIdempotencyApp(t *testing.T) (*fiber.App, *int) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.IdempotencyKey{}))
	database.DB = db

	runs := 0
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", "user-1")
		return c.Next()
	})
	app.Use(Idempotency())
	app.Post("/pay", func(c *fiber.Ctx) error {
		runs++
		return c.JSON(fiber.Map{"receipt": fmt.Sprintf("RCP-%03d", runs)})
	})
	return app, &runs
}

func postPayment(t *testing.T, app *fiber.App, key, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/pay", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(out)
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	app, runs := newIdempotencyApp(t)

	status1, body1 := postPayment(t, app, "key-1", `{"amount":100}`)
	assert.Equal(t, fiber.StatusOK, status1)
	assert.Equal(t, 1, *runs)

	// The retry must get the stored response back without the handler running
	// a second time.
	status2, body2 := postPayment(t, app, "key-1", `{"amount":100}`)
	assert.Equal(t, status1, status2)
	assert.Equal(t, body1, body2)
	assert.Equal(t, 1, *runs)
}

func TestIdempotencyKeyReuseWithDifferentRequest(t *testing.T) {
	app, runs := newIdempotencyApp(t)

	status, _ := postPayment(t, app, "key-1", `{"amount":100}`)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = postPayment(t, app, "key-1", `{"amount":999}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, 1, *runs)
}

func TestIdempotencyWithoutKeyRunsEveryTime(t *testing.T) {
	app, runs := newIdempotencyApp(t)

	postPayment(t, app, "", `{"amount":100}`)
	postPayment(t, app, "", `{"amount":100}`)
	assert.Equal(t, 2, *runs)
}
