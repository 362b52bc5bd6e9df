package middleware

import (
	"log/slog"
	"net/http"

	"barbershop/config"
	deliverycontext "barbershop/internal/delivery/context"
	"barbershop/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const keyClient = "client"

// ClientMiddleware binds each request to the browser client named by the client cookie,
// issuing a new client ID when the cookie is missing or malformed.
type ClientMiddleware struct {
	registry usecase.ClientRegistry
	cfg      config.SessionConfig
	logger   *slog.Logger
}

// NewClientMiddleware is the constructor for ClientMiddleware.
func NewClientMiddleware(registry usecase.ClientRegistry, cfg *config.Config, logger *slog.Logger) *ClientMiddleware {
	return &ClientMiddleware{registry: registry, cfg: cfg.Session, logger: logger}
}

// Identify resolves the client and stores it, with a client-scoped logger, on the request.
func (m *ClientMiddleware) Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := m.clientID(c)
		if !ok {
			id = uuid.New()
		}

		// Refreshed on every request so the cookie outlives the session it points to.
		c.SetCookie(&http.Cookie{
			Name:     m.cfg.CookieName,
			Value:    id.String(),
			Path:     "/",
			MaxAge:   int(m.cfg.TokenTTL.Seconds()),
			HttpOnly: true,
			Secure:   m.cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})

		ctx := c.Request().Context()
		logger := deliverycontext.GetLoggerOrDefault(ctx, m.logger).With(slog.String("client_id", id.String()))
		ctx = deliverycontext.WithLogger(ctx, logger)
		c.SetRequest(c.Request().WithContext(ctx))

		c.Set(keyClient, m.registry.Get(ctx, id))

		return next(c)
	}
}

func (m *ClientMiddleware) clientID(c echo.Context) (uuid.UUID, bool) {
	cookie, err := c.Cookie(m.cfg.CookieName)
	if err != nil {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(cookie.Value)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}

	return id, true
}

// GetClient returns the client resolved by Identify.
func GetClient(c echo.Context) (*usecase.Client, bool) {
	client, ok := c.Get(keyClient).(*usecase.Client)

	return client, ok && client != nil
}
