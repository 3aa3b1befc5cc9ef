package util

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fadilmartias/career-gateway/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func call(t *testing.T, app *fiber.App) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestPassthroughResponseKeepsBodyBytes(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return PassthroughResponse(c, fiber.StatusOK, []byte(`{"b":1,"a":2}`))
	})

	resp, body := call(t, app)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, fiber.MIMEApplicationJSON, resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, `{"b":1,"a":2}`, body)
}

func TestForwardErrorResponse(t *testing.T) {
	log := zaptest.NewLogger(t)

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{name: "forward error", err: usecase.BadRequest(usecase.MsgInvalidResume, nil), status: http.StatusBadRequest, body: `{"error":"No valid resume file provided"}`},
		{name: "backend status", err: &usecase.ForwardError{Status: http.StatusNotFound, Message: "Unknown role"}, status: http.StatusNotFound, body: `{"error":"Unknown role"}`},
		{name: "plain error is hidden", err: errors.New("dial tcp: secret-host:5001"), status: http.StatusInternalServerError, body: `{"error":"Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return ForwardErrorResponse(c, log, tt.err) })

			resp, body := call(t, app)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.JSONEq(t, tt.body, body)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	log := zaptest.NewLogger(t)

	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(log)})
	app.Get("/", func(c *fiber.Ctx) error { return fiber.ErrMethodNotAllowed })
	resp, body := call(t, app)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Method Not Allowed"}`, body)

	app = fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(log)})
	app.Get("/", func(c *fiber.Ctx) error { return errors.New("panic: runtime error: index out of range") })
	resp, body = call(t, app)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Internal server error"}`, body)
}
