// This file defines handlers for the public browsing API: anyone can list
// available pets and view one listing without authentication. Filters are
// carried as query parameters and applied by the pure filter engine after
// the fetch, mirroring what the browser client does with its filter dialog.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-adoption-api/internal/filter"
	"github.com/iliyamo/pet-adoption-api/internal/model"
	"github.com/iliyamo/pet-adoption-api/internal/repository"
)

// PublicHandler aggregates the stores needed for unauthenticated browsing.
type PublicHandler struct {
	Pets PetStore
}

// specFromQuery builds a filter spec from the request's query parameters.
// Absent parameters mean "no constraint"; boolean parameters accept the
// usual strconv forms ("1", "true", ...).
func specFromQuery(c echo.Context) filter.Spec {
	boolParam := func(name string) bool {
		v, err := strconv.ParseBool(c.QueryParam(name))
		return err == nil && v
	}
	return filter.Spec{
		Species:       c.QueryParam("species"),
		Gender:        c.QueryParam("gender"),
		Size:          c.QueryParam("size"),
		ActivityLevel: c.QueryParam("activity_level"),
		AgeSort:       c.QueryParam("age_sort"),
		GoodWithKids:  boolParam("good_with_kids"),
		GoodWithPets:  boolParam("good_with_pets"),
		Vaccinated:    boolParam("vaccinated"),
		Neutered:      boolParam("neutered"),
	}
}

// ListPets handles GET /api/pets: all available listings with the owner's
// name and location attached, optionally narrowed and sorted by the query
// filters. Responses are cached by the Redis middleware keyed on the query
// string.
func (h *PublicHandler) ListPets(c echo.Context) error {
	pets, err := h.Pets.ListAvailable(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := filter.Apply(pets, specFromQuery(c))
	if out == nil {
		out = []*model.Pet{}
	}
	return c.JSON(http.StatusOK, out)
}

// GetPet handles GET /api/pets/:id: one listing of any status with the
// owner's contact fields denormalized.
func (h *PublicHandler) GetPet(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	pet, err := h.Pets.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrPetNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "pet not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, pet)
}
