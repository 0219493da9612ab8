package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-adoption-api/internal/handler"
	"github.com/iliyamo/pet-adoption-api/internal/middleware"
)

// RegisterRehomer registers rehomer-scoped listing management endpoints
// under /api. All routes require a valid session token with the rehomer
// role; ownership of the individual listing is checked further down.
func RegisterRehomer(e *echo.Echo, h *handler.RehomerHandler, jwtSecret string) {
	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("rehomer"),
	)

	g.POST("/pets", h.CreatePet)
	g.PUT("/pets/:id", h.UpdatePet)
	g.PATCH("/pets/:id", h.UpdatePet) // same merge semantics as PUT
	g.DELETE("/pets/:id", h.DeletePet)

	g.GET("/my-listings", h.MyListings)
	// Alias kept for clients built against the older path.
	g.GET("/rehomer/pets", h.MyListings)
}
