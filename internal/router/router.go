package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/house-reservation/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/house-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// The health endpoint can be used by load balancers or monitoring
	// systems to verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while the protected profile endpoint lives under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: register, login,
	// refresh (rotating) and logout by refresh token.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	// The profile endpoint requires a valid access token.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("GENERAL", "ADMIN"))
	auth.GET("/me", a.Me)
}

// RegisterCatalog registers the unauthenticated house catalog endpoints:
// browsing, keyword search and review reading.  These routes apply no JWT
// middleware so guests can inspect houses before signing up.
func RegisterCatalog(e *echo.Echo, h *handler.HouseHandler, rv *handler.ReviewHandler) {
	// List and search houses with pagination
	e.GET("/v1/houses", h.List)
	// House details by id
	e.GET("/v1/houses/:id", h.Get)
	// Reviews of a house
	e.GET("/v1/houses/:id/reviews", rv.List)
}

// RegisterBooking registers the reservation flow and the reservation
// listing for authenticated users, plus review posting.  All handlers
// registered on this group execute the JWTAuth middleware before being
// invoked.
func RegisterBooking(e *echo.Echo, r *handler.ReservationHandler, rv *handler.ReviewHandler, jwtSecret string) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("GENERAL", "ADMIN"))
	// Input stage: validate a booking intent against the house
	auth.POST("/houses/:id/reservations/input", r.Input)
	// Confirm stage: price the stay and open a payment session
	auth.GET("/houses/:id/reservations/confirm", r.Confirm)
	// Reservation history for the authenticated user
	auth.GET("/reservations", r.List)
	// Post a review for a house
	auth.POST("/houses/:id/reviews", rv.Create)
}

// RegisterWebhook registers the payment gateway callback endpoint.  The
// route is unauthenticated at the HTTP layer; the handler verifies the
// gateway signature itself before trusting anything in the payload.
func RegisterWebhook(e *echo.Echo, w *handler.WebhookHandler) {
	e.POST("/v1/stripe/webhook", w.Handle)
}
