package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pet-adoption-api/internal/model"
	"github.com/iliyamo/pet-adoption-api/internal/queue"
)

const validDraft = `{
	"name": "Rex",
	"species": "Dog",
	"breed": "Labrador",
	"age_years": 3,
	"gender": "Male",
	"size": "Large",
	"description": "Friendly and house-trained.",
	"health": {"vaccinated": true, "neutered": true},
	"behavior": {"good_with_kids": true, "activity_level": "high"},
	"location": "Austin, USA",
	"adoption_fee": 50
}`

// multipartCtx builds an echo context around a multipart form carrying the
// "pet" JSON part, optional extra string fields and n fake image files.
func multipartCtx(t *testing.T, e *echo.Echo, method, target, petJSON string, extra map[string]string, images int) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("pet", petJSON))
	for k, v := range extra {
		require.NoError(t, w.WriteField(k, v))
	}
	for i := 0; i < images; i++ {
		fw, err := w.CreateFormFile("images", fmt.Sprintf("photo-%d.JPG", i))
		require.NoError(t, err)
		_, err = fw.Write([]byte("not really a jpeg"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// capturePublisher returns an EventPublisher feeding a channel, plus a
// receive helper, since the handler publishes from a goroutine.
func capturePublisher() (EventPublisher, func(t *testing.T) queue.ListingEvent) {
	ch := make(chan queue.ListingEvent, 8)
	pub := func(_ context.Context, ev queue.ListingEvent) error {
		ch <- ev
		return nil
	}
	recv := func(t *testing.T) queue.ListingEvent {
		t.Helper()
		select {
		case ev := <-ch:
			return ev
		case <-time.After(2 * time.Second):
			t.Fatal("no listing event published")
			return queue.ListingEvent{}
		}
	}
	return pub, recv
}

func TestCreatePet(t *testing.T) {
	e := echo.New()
	cfg := testConfig(t)
	store := newFakeStore()
	pub, recv := capturePublisher()
	h := NewRehomerHandler(cfg, store, pub)

	c, rec := multipartCtx(t, e, http.MethodPost, "/api/pets", validDraft, nil, 2)
	asUser(c, 7, model.RoleRehomer)
	require.NoError(t, h.CreatePet(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var pet model.Pet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pet))
	assert.NotZero(t, pet.ID)
	assert.EqualValues(t, 7, pet.OwnerID)
	assert.Equal(t, model.StatusAvailable, pet.Status, "new listings always start available")
	assert.Equal(t, "male", pet.Gender, "gender is normalized")
	require.Len(t, pet.Images, 2)
	for _, u := range pet.Images {
		assert.True(t, strings.HasPrefix(u, cfg.UploadBaseURL+"/"), u)
		assert.True(t, strings.HasSuffix(u, ".jpg"), "extension is lowercased: %s", u)
		_, err := os.Stat(filepath.Join(cfg.UploadDir, filepath.Base(u)))
		assert.NoError(t, err, "uploaded file written to disk")
	}

	ev := recv(t)
	assert.Equal(t, queue.EventListingCreated, ev.Event)
	assert.Equal(t, pet.ID, ev.PetID)
	assert.EqualValues(t, 7, ev.OwnerID)
}

func TestCreatePetValidation(t *testing.T) {
	e := echo.New()
	h := NewRehomerHandler(testConfig(t), newFakeStore(), nil)

	cases := []struct {
		name, draft, wantErr string
	}{
		{"malformed json", `{`, "invalid pet payload"},
		{"missing name", `{"species":"dog"}`, "name is required"},
		{"missing species", `{"name":"Rex"}`, "species is required"},
		{"negative age", `{"name":"Rex","species":"dog","breed":"lab","age_years":-1}`, "age must not be negative"},
		{"negative fee", strings.Replace(validDraft, `"adoption_fee": 50`, `"adoption_fee": -1`, 1), "adoption fee must not be negative"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := multipartCtx(t, e, http.MethodPost, "/api/pets", tc.draft, nil, 0)
			asUser(c, 7, model.RoleRehomer)
			require.NoError(t, h.CreatePet(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.wantErr, errBody(t, rec))
		})
	}
}

func TestCreatePetTooManyImages(t *testing.T) {
	e := echo.New()
	h := NewRehomerHandler(testConfig(t), newFakeStore(), nil)

	c, rec := multipartCtx(t, e, http.MethodPost, "/api/pets", validDraft, nil, model.MaxImages+1)
	asUser(c, 7, model.RoleRehomer)
	require.NoError(t, h.CreatePet(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "too many images", errBody(t, rec))
}

// seedPet creates a listing owned by ownerID directly through the store.
func seedPet(t *testing.T, store *fakeStore, ownerID uint64, mutate func(*model.Pet)) *model.Pet {
	t.Helper()
	p := &model.Pet{
		OwnerID:     ownerID,
		Name:        "Rex",
		Species:     "dog",
		Breed:       "labrador",
		AgeYears:    3,
		Gender:      "male",
		Size:        "large",
		Description: "friendly",
		Location:    "Austin, USA",
		AdoptionFee: 50,
	}
	require.NoError(t, store.Create(context.Background(), p))
	if mutate != nil {
		mutate(p)
		require.NoError(t, store.Update(context.Background(), ownerID, p))
	}
	return p
}

func TestUpdatePetOwnerScoped(t *testing.T) {
	e := echo.New()
	store := newFakeStore()
	h := NewRehomerHandler(testConfig(t), store, nil)
	pet := seedPet(t, store, 7, nil)

	update := func(ownerID uint64, petID string) *httptest.ResponseRecorder {
		c, rec := multipartCtx(t, e, http.MethodPut, "/api/pets/"+petID, `{"name":"Rexy"}`, nil, 0)
		c.SetParamNames("id")
		c.SetParamValues(petID)
		asUser(c, ownerID, model.RoleRehomer)
		require.NoError(t, h.UpdatePet(c))
		return rec
	}

	foreign := update(8, fmt.Sprint(pet.ID))
	missing := update(7, "999")
	assert.Equal(t, http.StatusNotFound, foreign.Code)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, missing.Body.String(), foreign.Body.String(),
		"foreign listings answer exactly like missing ones")

	rec := update(7, fmt.Sprint(pet.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Pet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Rexy", got.Name)
	assert.Equal(t, "dog", got.Species, "untouched fields survive the patch")
}

func TestUpdatePetReplacesImageSet(t *testing.T) {
	e := echo.New()
	cfg := testConfig(t)
	store := newFakeStore()
	h := NewRehomerHandler(cfg, store, nil)
	pet := seedPet(t, store, 7, func(p *model.Pet) {
		p.Images = []string{"/uploads/old-1.jpg", "/uploads/old-2.jpg"}
	})

	extra := map[string]string{"existing_images": `["/uploads/old-2.jpg"]`}
	c, rec := multipartCtx(t, e, http.MethodPut, "/", `{}`, extra, 1)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(pet.ID))
	asUser(c, 7, model.RoleRehomer)
	require.NoError(t, h.UpdatePet(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Pet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Images, 2)
	assert.Equal(t, "/uploads/old-2.jpg", got.Images[0], "retained urls come first")
	assert.True(t, strings.HasPrefix(got.Images[1], cfg.UploadBaseURL+"/"))
	assert.NotContains(t, got.Images, "/uploads/old-1.jpg", "dropped url is gone")
}

func TestUpdatePetImageCapCountsRetainedAndNew(t *testing.T) {
	e := echo.New()
	store := newFakeStore()
	h := NewRehomerHandler(testConfig(t), store, nil)
	pet := seedPet(t, store, 7, nil)

	extra := map[string]string{
		"existing_images": `["/uploads/a.jpg","/uploads/b.jpg","/uploads/c.jpg","/uploads/d.jpg"]`,
	}
	c, rec := multipartCtx(t, e, http.MethodPut, "/", `{}`, extra, 2)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(pet.ID))
	asUser(c, 7, model.RoleRehomer)
	require.NoError(t, h.UpdatePet(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "too many images", errBody(t, rec))
}

func TestUpdatePetStatusChangePublishes(t *testing.T) {
	e := echo.New()
	store := newFakeStore()
	pub, recv := capturePublisher()
	h := NewRehomerHandler(testConfig(t), store, pub)
	pet := seedPet(t, store, 7, nil)

	c, rec := multipartCtx(t, e, http.MethodPut, "/", `{"status":"adopted"}`, nil, 0)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(pet.ID))
	asUser(c, 7, model.RoleRehomer)
	require.NoError(t, h.UpdatePet(c))
	require.Equal(t, http.StatusOK, rec.Code)

	ev := recv(t)
	assert.Equal(t, queue.EventListingStatusChanged, ev.Event)
	assert.Equal(t, model.StatusAdopted, ev.Status)

	// A pet marked adopted may be reopened; transitions are not one-way.
	c, rec = multipartCtx(t, e, http.MethodPut, "/", `{"status":"available"}`, nil, 0)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(pet.ID))
	asUser(c, 7, model.RoleRehomer)
	require.NoError(t, h.UpdatePet(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdatePetRejectsUnknownStatus(t *testing.T) {
	e := echo.New()
	store := newFakeStore()
	h := NewRehomerHandler(testConfig(t), store, nil)
	pet := seedPet(t, store, 7, nil)

	c, rec := multipartCtx(t, e, http.MethodPut, "/", `{"status":"sold"}`, nil, 0)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(pet.ID))
	asUser(c, 7, model.RoleRehomer)
	require.NoError(t, h.UpdatePet(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid status", errBody(t, rec))
}

func TestDeletePet(t *testing.T) {
	e := echo.New()
	cfg := testConfig(t)
	store := newFakeStore()
	pub, recv := capturePublisher()
	h := NewRehomerHandler(cfg, store, pub)

	// Seed a listing with an image file on disk so delete can reap it.
	require.NoError(t, os.WriteFile(filepath.Join(cfg.UploadDir, "reap-me.jpg"), []byte("x"), 0o644))
	pet := seedPet(t, store, 7, func(p *model.Pet) {
		p.Images = []string{cfg.UploadBaseURL + "/reap-me.jpg"}
	})
	require.NoError(t, store.Like(context.Background(), 42, pet.ID))

	t.Run("foreign owner gets 404", func(t *testing.T) {
		c, rec := jsonCtx(e, http.MethodDelete, "/", "")
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprint(pet.ID))
		asUser(c, 8, model.RoleRehomer)
		require.NoError(t, h.DeletePet(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("owner delete cascades", func(t *testing.T) {
		c, rec := jsonCtx(e, http.MethodDelete, "/", "")
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprint(pet.ID))
		asUser(c, 7, model.RoleRehomer)
		require.NoError(t, h.DeletePet(c))
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, queue.EventListingDeleted, recv(t).Event)

		_, err := store.GetByID(context.Background(), pet.ID)
		assert.Error(t, err, "listing is gone")
		liked, err := store.ListLiked(context.Background(), 42)
		require.NoError(t, err)
		assert.Empty(t, liked, "affinity edges vanish with the listing")
		_, err = os.Stat(filepath.Join(cfg.UploadDir, "reap-me.jpg"))
		assert.True(t, os.IsNotExist(err), "image file removed from disk")
	})
}

func TestMyListings(t *testing.T) {
	e := echo.New()
	store := newFakeStore()
	h := NewRehomerHandler(testConfig(t), store, nil)

	c, rec := jsonCtx(e, http.MethodGet, "/api/my-listings", "")
	asUser(c, 7, model.RoleRehomer)
	require.NoError(t, h.MyListings(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String(), "no listings is an empty array, not null")

	seedPet(t, store, 7, nil)
	seedPet(t, store, 7, func(p *model.Pet) { p.Status = model.StatusAdopted })
	seedPet(t, store, 8, nil)

	c, rec = jsonCtx(e, http.MethodGet, "/api/my-listings", "")
	asUser(c, 7, model.RoleRehomer)
	require.NoError(t, h.MyListings(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var pets []*model.Pet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pets))
	require.Len(t, pets, 2, "all own listings regardless of status, nobody else's")
	for _, p := range pets {
		assert.EqualValues(t, 7, p.OwnerID)
	}
}
