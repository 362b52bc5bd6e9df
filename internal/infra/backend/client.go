// Package backend is the REST client of the remote booking backend. Every failure is
// returned as a classified domainerrors.BackendError.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"barbershop/config"
	deliverycontext "barbershop/internal/delivery/context"
	domainerrors "barbershop/internal/domain/errors"
	"barbershop/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// maxErrorBody bounds how much of a failed response is read for classification.
const maxErrorBody = 64 << 10

// client implements service.BookingBackend over net/http.
type client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Params holds dependencies for the backend client.
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// New creates the booking backend client from configuration.
func New(p Params) service.BookingBackend {
	return NewClient(p.Config.Backend.BaseURL, p.Config.Backend.Timeout, p.Logger)
}

// NewClient creates a booking backend client for baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) service.BookingBackend {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// call describes one backend request and how its failures are reported.
type call struct {
	method string
	path   string
	query  url.Values
	token  string
	body   any

	// fallback is the message used when the backend sends no detail.
	fallback string
	// offline is the message used when the backend cannot be reached; empty means the generic one.
	offline string
	// forbidden replaces the generic ownership message on 403.
	forbidden string
	// unauthorized replaces the backend detail on 401.
	unauthorized string
	// reservation enables the pending-slot keyword fallback.
	reservation bool
}

// do performs c and decodes a successful JSON body into out (when out is non-nil).
func (cl *client) do(ctx context.Context, c call, out any) error {
	logger := deliverycontext.GetLoggerOrDefault(ctx, cl.logger)

	endpoint := cl.baseURL + c.path
	if len(c.query) > 0 {
		endpoint += "?" + c.query.Encode()
	}

	var body io.Reader
	if c.body != nil {
		payload, err := json.Marshal(c.body)
		if err != nil {
			return errors.WithStack(err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, endpoint, body)
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Accept", "application/json")
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(deliverycontext.HeaderXRequestID, requestID)
	}

	started := time.Now()
	resp, err := cl.httpClient.Do(req)
	if err != nil {
		logger.Error("booking backend unreachable",
			slog.String("method", c.method),
			slog.String("path", c.path),
			slog.Any("error", err),
		)

		return domainerrors.NewBackendError(domainerrors.ErrBackendUnavailable, 0, c.offline, errors.WithStack(err))
	}
	defer resp.Body.Close()

	logger.Debug("booking backend call",
		slog.String("method", c.method),
		slog.String("path", c.path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return classify(resp.StatusCode, raw, c)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.Error("booking backend sent an undecodable body",
			slog.String("path", c.path),
			slog.Any("error", err),
		)

		return domainerrors.NewBackendError(domainerrors.ErrBackend, resp.StatusCode, c.fallback, errors.WithStack(err))
	}

	return nil
}
