package handler

import (
	"net/http"

	"barbershop/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
)

// TestHandler handles test endpoints for middleware validation
type TestHandler struct{}

// NewTestHandler creates a new TestHandler instance
func NewTestHandler() *TestHandler {
	return &TestHandler{}
}

// TestClientMiddleware echoes the client the cookie middleware resolved.
func (h *TestHandler) TestClientMiddleware(c echo.Context) error {
	client, err := currentClient(c)
	if err != nil {
		return err
	}

	snapshot := client.Auth.Snapshot()

	return response.Success(c, http.StatusOK, map[string]any{
		"message":          "Client middleware test successful",
		"client_id":        client.ID,
		"is_authenticated": snapshot.IsAuthenticated,
	})
}

// TestPublicEndpoint tests a public endpoint (no client cookie required)
func (h *TestHandler) TestPublicEndpoint(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]any{
		"message": "Public endpoint test successful",
		"status":  "public",
	})
}
