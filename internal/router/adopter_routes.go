package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-adoption-api/internal/handler"
	"github.com/iliyamo/pet-adoption-api/internal/middleware"
)

// RegisterAdopter registers adopter-scoped affinity endpoints under /api.
// All routes require a valid session token with the adopter role.
func RegisterAdopter(e *echo.Echo, h *handler.AdopterHandler, jwtSecret string) {
	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("adopter"),
	)

	g.POST("/pets/:id/like", h.LikePet)
	g.DELETE("/pets/:id/like", h.UnlikePet)
	g.GET("/liked-pets", h.ListLikedPets)
}
