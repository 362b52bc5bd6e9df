// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"barbershop/config"
	"barbershop/internal/delivery/api/middleware"
	"barbershop/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler        *handler.AuthHandler
	CatalogHandler     *handler.CatalogHandler
	ReservationHandler *handler.ReservationHandler
	PageHandler        *handler.PageHandler
	TestHandler        *handler.TestHandler
	ClientMiddleware   *middleware.ClientMiddleware
	Config             *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler        *handler.AuthHandler
	catalogHandler     *handler.CatalogHandler
	reservationHandler *handler.ReservationHandler
	pageHandler        *handler.PageHandler
	testHandler        *handler.TestHandler
	clientMiddleware   *middleware.ClientMiddleware
	config             *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:        params.AuthHandler,
		catalogHandler:     params.CatalogHandler,
		reservationHandler: params.ReservationHandler,
		pageHandler:        params.PageHandler,
		testHandler:        params.TestHandler,
		clientMiddleware:   params.ClientMiddleware,
		config:             params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Everything else belongs to a browser client identified by cookie
	identify := r.clientMiddleware.Identify

	authGroup := e.Group("/auth", identify)
	{
		authGroup.GET("/state", r.authHandler.State)
		authGroup.POST("/drawer/open", r.authHandler.OpenDrawer)
		authGroup.POST("/drawer/edit", r.authHandler.EditProfile)
		authGroup.POST("/drawer/close", r.authHandler.CloseDrawer)
		authGroup.POST("/otp/request", r.authHandler.RequestOtp)
		authGroup.POST("/otp/verify", r.authHandler.VerifyOtp)
		authGroup.PUT("/profile", r.authHandler.UpdateProfile)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.GET("/incomplete", r.authHandler.Incomplete)
		authGroup.GET("/status", r.authHandler.Status)
	}

	catalogGroup := e.Group("/catalog", identify)
	{
		catalogGroup.GET("/barbers", r.catalogHandler.Barbers)
		catalogGroup.GET("/services", r.catalogHandler.Services)
	}

	reservationGroup := e.Group("/reservation", identify)
	{
		reservationGroup.GET("", r.pageHandler.Reservation)
		reservationGroup.POST("/continue", r.pageHandler.Continue)
		reservationGroup.GET("/state", r.reservationHandler.State)
		reservationGroup.PUT("/barber", r.reservationHandler.SetBarber)
		reservationGroup.PUT("/date", r.reservationHandler.SetDate)
		reservationGroup.PUT("/time", r.reservationHandler.SetTime)
		reservationGroup.POST("/services/:id/toggle", r.reservationHandler.ToggleService)
		reservationGroup.GET("/slots", r.reservationHandler.Slots)

		// Page flows around payment
		reservationGroup.GET("/checkout", r.pageHandler.Checkout)
		reservationGroup.POST("/checkout", r.pageHandler.SubmitCheckout)
		reservationGroup.GET("/success", r.pageHandler.Success)
		reservationGroup.GET("/success/qr", r.pageHandler.SuccessQR)
		reservationGroup.GET("/failure", r.pageHandler.Failure)
	}

	e.GET("/profile", r.pageHandler.Profile, identify)
}

func (r *router) RegisterTestRoutes(e *echo.Echo) {
	// Test routes - only enabled when configured
	if r.config.TestRoutes != nil && r.config.TestRoutes.Enabled {
		testGroup := e.Group("/test")
		testGroup.GET("/public", r.testHandler.TestPublicEndpoint)

		testGroup.Use(r.clientMiddleware.Identify)
		{
			testGroup.GET("/client", r.testHandler.TestClientMiddleware)
		}
	}
}
