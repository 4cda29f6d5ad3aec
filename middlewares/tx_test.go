package middlewares

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolms-backend/database"
)

func newTxApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	database.DB = db

	app := fiber.New()
	app.Use(RequestTx())
	return app
}

func TestOnCommitRunsAfterCommit(t *testing.T) {
	app := newTxApp(t)
	fired := make(chan struct{}, 1)
	app.Post("/ok", func(c *fiber.Ctx) error {
		OnCommit(c, func() { fired <- struct{}{} })
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("post-commit hook did not run")
	}
}

func TestOnCommitSkippedOnRollback(t *testing.T) {
	app := newTxApp(t)
	fired := make(chan struct{}, 1)
	app.Post("/fail", func(c *fiber.Ctx) error {
		OnCommit(c, func() { fired <- struct{}{} })
		return fiber.NewError(fiber.StatusBadRequest, "nope")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	select {
	case <-fired:
		t.Fatal("hook must not run when the transaction rolls back")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestOnCommitWithoutTransactionRunsImmediately(t *testing.T) {
	app := fiber.New()
	fired := make(chan struct{}, 1)
	app.Get("/now", func(c *fiber.Ctx) error {
		OnCommit(c, func() { fired <- struct{}{} })
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/now", nil))
	require.NoError(t, err)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("hook did not run outside a transaction")
	}
}
