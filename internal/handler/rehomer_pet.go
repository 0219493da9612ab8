// Package handler defines HTTP handlers for authenticated rehomer
// operations: creating, editing and retiring pet listings. Ownership is
// enforced in the repository layer; a listing that is missing or owned by
// someone else surfaces as 404 so existence is never leaked.
package handler

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-adoption-api/internal/config"
	"github.com/iliyamo/pet-adoption-api/internal/model"
	"github.com/iliyamo/pet-adoption-api/internal/queue"
	"github.com/iliyamo/pet-adoption-api/internal/repository"
)

// RehomerHandler bundles dependencies for listing management endpoints.
type RehomerHandler struct {
	Cfg     config.Config
	Pets    PetStore
	Publish EventPublisher
}

func NewRehomerHandler(cfg config.Config, pets PetStore, publish EventPublisher) *RehomerHandler {
	if pets == nil {
		panic("nil pet store passed to NewRehomerHandler")
	}
	return &RehomerHandler{Cfg: cfg, Pets: pets, Publish: publish}
}

// petDraft is the JSON carried in the "pet" part of the multipart create
// request.
type petDraft struct {
	Name        string             `json:"name"`
	Species     string             `json:"species"`
	Breed       string             `json:"breed"`
	AgeYears    int                `json:"age_years"`
	AgeMonths   int                `json:"age_months"`
	Gender      string             `json:"gender"`
	Size        string             `json:"size"`
	Description string             `json:"description"`
	Health      model.HealthStatus `json:"health"`
	Behavior    model.Behavior     `json:"behavior"`
	Location    string             `json:"location"`
	AdoptionFee float64            `json:"adoption_fee"`
}

// validate returns the first problem with a draft, or "".
func (d *petDraft) validate() string {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return "name is required"
	case strings.TrimSpace(d.Species) == "":
		return "species is required"
	case strings.TrimSpace(d.Breed) == "":
		return "breed is required"
	case d.AgeYears < 0 || d.AgeMonths < 0:
		return "age must not be negative"
	case strings.TrimSpace(d.Gender) == "":
		return "gender is required"
	case strings.TrimSpace(d.Size) == "":
		return "size is required"
	case strings.TrimSpace(d.Description) == "":
		return "description is required"
	case strings.TrimSpace(d.Location) == "":
		return "location is required"
	case d.AdoptionFee < 0:
		return "adoption fee must not be negative"
	}
	return ""
}

// imageFiles pulls the uploaded image parts out of the multipart form.
// A request without any images is fine; listings may be text-only.
func imageFiles(c echo.Context) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if err == http.ErrNotMultipart || err == http.ErrMissingBoundary {
			return nil, nil
		}
		return nil, err
	}
	return form.File["images"], nil
}

// saveUploads writes each uploaded file into the upload dir under a uuid
// name (original names are untrusted client input) and returns the public
// URLs in upload order.
func (h *RehomerHandler) saveUploads(files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(h.Cfg.UploadDir, 0o755); err != nil {
		return nil, err
	}
	var urls []string
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return nil, err
		}
		name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
		dst, err := os.Create(filepath.Join(h.Cfg.UploadDir, name))
		if err != nil {
			src.Close()
			return nil, err
		}
		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			return nil, err
		}
		urls = append(urls, h.Cfg.UploadBaseURL+"/"+name)
	}
	return urls, nil
}

// publish fires a lifecycle event without blocking or failing the request.
func (h *RehomerHandler) publish(ev queue.ListingEvent) {
	if h.Publish == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.Publish(ctx, ev); err != nil {
			log.Printf("listing event %s for pet %d not published: %v", ev.Event, ev.PetID, err)
		}
	}()
}

func listingEvent(name string, p *model.Pet) queue.ListingEvent {
	return queue.ListingEvent{
		Event:      name,
		PetID:      p.ID,
		OwnerID:    p.OwnerID,
		Name:       p.Name,
		Species:    p.Species,
		Status:     p.Status,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// CreatePet handles POST /api/pets (multipart: "pet" JSON + up to five
// "images" files). Status always starts as "available".
func (h *RehomerHandler) CreatePet(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var draft petDraft
	if err := json.Unmarshal([]byte(c.FormValue("pet")), &draft); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid pet payload"})
	}
	if msg := draft.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	files, err := imageFiles(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid multipart form"})
	}
	if len(files) > model.MaxImages {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "too many images"})
	}
	urls, err := h.saveUploads(files)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store images failed"})
	}

	pet := &model.Pet{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(draft.Name),
		Species:     strings.TrimSpace(draft.Species),
		Breed:       strings.TrimSpace(draft.Breed),
		AgeYears:    draft.AgeYears,
		AgeMonths:   draft.AgeMonths,
		Gender:      strings.ToLower(strings.TrimSpace(draft.Gender)),
		Size:        strings.ToLower(strings.TrimSpace(draft.Size)),
		Description: draft.Description,
		Images:      urls,
		Health:      draft.Health,
		Behavior:    draft.Behavior,
		Location:    strings.TrimSpace(draft.Location),
		AdoptionFee: draft.AdoptionFee,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Pets.Create(ctx, pet); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create listing failed"})
	}

	h.publish(listingEvent(queue.EventListingCreated, pet))
	return c.JSON(http.StatusCreated, pet)
}

// petPatch is the JSON carried in the "pet" part of the multipart update
// request. Nil fields keep the current value.
type petPatch struct {
	Name        *string             `json:"name"`
	Species     *string             `json:"species"`
	Breed       *string             `json:"breed"`
	AgeYears    *int                `json:"age_years"`
	AgeMonths   *int                `json:"age_months"`
	Gender      *string             `json:"gender"`
	Size        *string             `json:"size"`
	Description *string             `json:"description"`
	Health      *model.HealthStatus `json:"health"`
	Behavior    *model.Behavior     `json:"behavior"`
	Status      *string             `json:"status"`
	Location    *string             `json:"location"`
	AdoptionFee *float64            `json:"adoption_fee"`
}

func validStatus(s string) bool {
	switch s {
	case model.StatusAvailable, model.StatusPending, model.StatusAdopted:
		return true
	}
	return false
}

// UpdatePet handles PUT /api/pets/:id (multipart: "pet" patch JSON,
// optional "existing_images" JSON array of retained URLs, optional new
// "images" files). The image set is replaced wholesale by retained plus new
// images; an upload with neither clears it. Only the recorded owner may
// update, and the owner may set any status; transitions are not one-way.
func (h *RehomerHandler) UpdatePet(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var patch petPatch
	if err := json.Unmarshal([]byte(c.FormValue("pet")), &patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid pet payload"})
	}
	if patch.Status != nil && !validStatus(*patch.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	var retained []string
	if raw := c.FormValue("existing_images"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &retained); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid existing_images payload"})
		}
	}
	files, err := imageFiles(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid multipart form"})
	}
	if len(retained)+len(files) > model.MaxImages {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "too many images"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pet, err := h.Pets.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrPetNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "pet not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if pet.OwnerID != ownerID {
		// Same body as the missing case on purpose.
		return c.JSON(http.StatusNotFound, echo.Map{"error": "pet not found"})
	}
	prevStatus := pet.Status

	applyPatch(pet, &patch)
	if msg := (&petDraft{
		Name: pet.Name, Species: pet.Species, Breed: pet.Breed,
		AgeYears: pet.AgeYears, AgeMonths: pet.AgeMonths,
		Gender: pet.Gender, Size: pet.Size, Description: pet.Description,
		Location: pet.Location, AdoptionFee: pet.AdoptionFee,
	}).validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	uploaded, err := h.saveUploads(files)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store images failed"})
	}
	pet.Images = append(retained, uploaded...)

	if err := h.Pets.Update(ctx, ownerID, pet); err != nil {
		if err == repository.ErrPetNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "pet not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	if pet.Status != prevStatus {
		h.publish(listingEvent(queue.EventListingStatusChanged, pet))
	}
	return c.JSON(http.StatusOK, pet)
}

func applyPatch(p *model.Pet, patch *petPatch) {
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Species != nil {
		p.Species = strings.TrimSpace(*patch.Species)
	}
	if patch.Breed != nil {
		p.Breed = strings.TrimSpace(*patch.Breed)
	}
	if patch.AgeYears != nil {
		p.AgeYears = *patch.AgeYears
	}
	if patch.AgeMonths != nil {
		p.AgeMonths = *patch.AgeMonths
	}
	if patch.Gender != nil {
		p.Gender = strings.ToLower(strings.TrimSpace(*patch.Gender))
	}
	if patch.Size != nil {
		p.Size = strings.ToLower(strings.TrimSpace(*patch.Size))
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Health != nil {
		p.Health = *patch.Health
	}
	if patch.Behavior != nil {
		p.Behavior = *patch.Behavior
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Location != nil {
		p.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.AdoptionFee != nil {
		p.AdoptionFee = *patch.AdoptionFee
	}
}

// DeletePet handles DELETE /api/pets/:id. The repository cascades the
// removal to image rows and affinity edges; files are cleaned up
// best-effort afterwards.
func (h *RehomerHandler) DeletePet(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pet, err := h.Pets.GetByID(ctx, id)
	if err != nil && err != repository.ErrPetNotFound {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	urls, err := h.Pets.Delete(ctx, id, ownerID)
	if err != nil {
		if err == repository.ErrPetNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "pet not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	for _, u := range urls {
		if name := filepath.Base(u); name != "." && name != "/" {
			_ = os.Remove(filepath.Join(h.Cfg.UploadDir, name))
		}
	}

	if pet != nil {
		h.publish(listingEvent(queue.EventListingDeleted, pet))
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}

// MyListings handles GET /api/my-listings: every listing of the calling
// rehomer regardless of status.
func (h *RehomerHandler) MyListings(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pets, err := h.Pets.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if pets == nil {
		pets = []*model.Pet{}
	}
	return c.JSON(http.StatusOK, pets)
}
