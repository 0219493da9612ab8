// This file implements the adopter-only affinity endpoints: liking and
// unliking listings and reading back the liked set. Duplicate likes are an
// error (409); unliking something never liked is a silent success, so the two
// calls together always return the store to its pre-like state.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-adoption-api/internal/model"
	"github.com/iliyamo/pet-adoption-api/internal/repository"
)

// AdopterHandler bundles dependencies for affinity endpoints.
type AdopterHandler struct {
	Likes LikeStore
}

func NewAdopterHandler(likes LikeStore) *AdopterHandler {
	if likes == nil {
		panic("nil like store passed to NewAdopterHandler")
	}
	return &AdopterHandler{Likes: likes}
}

// LikePet handles POST /api/pets/:id/like.
func (h *AdopterHandler) LikePet(c echo.Context) error {
	adopterID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	petID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	if err := h.Likes.Like(ctx, adopterID, petID); err != nil {
		switch err {
		case repository.ErrPetNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "pet not found"})
		case repository.ErrAlreadyLiked:
			return c.JSON(http.StatusConflict, echo.Map{"error": "already liked"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "like failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": petID, "at": time.Now().UTC()})
}

// UnlikePet handles DELETE /api/pets/:id/like. Idempotent.
func (h *AdopterHandler) UnlikePet(c echo.Context) error {
	adopterID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	petID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	if err := h.Likes.Unlike(c.Request().Context(), adopterID, petID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "unlike failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"unliked": petID})
}

// ListLikedPets handles GET /api/liked-pets: the adopter's liked listings
// with full owner contact so they can reach out to the rehomer.
func (h *AdopterHandler) ListLikedPets(c echo.Context) error {
	adopterID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	pets, err := h.Likes.ListLiked(c.Request().Context(), adopterID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if pets == nil {
		pets = []*model.Pet{}
	}
	return c.JSON(http.StatusOK, pets)
}
