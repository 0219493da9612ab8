// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-adoption-api/internal/handler"
	"github.com/iliyamo/pet-adoption-api/internal/middleware"
)

// RegisterRoutes registers routes that do not belong to any API group.
// Currently it exposes only a health check used by load balancers and
// monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session issuer and profile endpoints.
// Signup and login are open; the profile pair requires a valid session
// token of either role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	e.POST("/api/signup", a.Signup)
	e.POST("/api/login", a.Login)

	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("adopter", "rehomer"),
	)
	g.GET("/profile", a.GetProfile)
	g.PUT("/profile", a.UpdateProfile)
}

// RegisterPublic registers the unauthenticated browse endpoints. These
// return available listings with sanitized owner fields and are the routes
// the response cache middleware fronts.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	e.GET("/api/pets", p.ListPets, mw...)
	e.GET("/api/pets/:id", p.GetPet, mw...)
}
