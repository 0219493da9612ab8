package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-adoption-api/internal/config"
	"github.com/iliyamo/pet-adoption-api/internal/model"
	"github.com/iliyamo/pet-adoption-api/internal/repository"
	"github.com/iliyamo/pet-adoption-api/internal/utils"
)

// AuthHandler bundles dependencies for the session issuer and profile
// endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Accounts AccountStore
}

func NewAuthHandler(cfg config.Config, accounts AccountStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Accounts: accounts}
}

// ----- DTOs -----

type signupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // adopter | rehomer
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	State    string `json:"state"`
	Country  string `json:"country"`
	// Role-variant payload; only the half matching Role is read.
	Experience     string `json:"experience"`
	HasChildren    bool   `json:"has_children"`
	HasOtherPets   bool   `json:"has_other_pets"`
	RehomingReason string `json:"rehoming_reason"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	Account *model.Account `json:"account"`
	Session sessionPart    `json:"session"`
}

// Signup handles POST /api/signup: create an account with its empty
// role-variant profile and return a session token immediately.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != model.RoleAdopter && role != model.RoleRehomer {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be adopter or rehomer"})
	}

	acct := &model.Account{
		Email:   req.Email,
		Role:    role,
		Name:    strings.TrimSpace(req.Name),
		Phone:   strings.TrimSpace(req.Phone),
		City:    strings.TrimSpace(req.City),
		State:   strings.TrimSpace(req.State),
		Country: strings.TrimSpace(req.Country),
	}
	switch role {
	case model.RoleAdopter:
		acct.Adopter = &model.AdopterProfile{
			Experience:   req.Experience,
			HasChildren:  req.HasChildren,
			HasOtherPets: req.HasOtherPets,
		}
	case model.RoleRehomer:
		acct.Rehomer = &model.RehomerProfile{RehomingReason: req.RehomingReason}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Accounts.Create(ctx, acct, req.Password, h.Cfg.BcryptCost); err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}

	session, err := utils.NewSessionToken(h.Cfg.JWTSecret, acct.ID, acct.Role, h.Cfg.TokenTTLHours)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusCreated, authResp{
		Account: acct,
		Session: sessionPart{Token: session.Token, Expires: session.Exp},
	})
}

// Login handles POST /api/login: verify credentials and mint a fresh 24h
// session token. Absent email and wrong password produce the same response
// so account existence is not leaked.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acct, err := h.Accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrAccountNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(acct.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	session, err := utils.NewSessionToken(h.Cfg.JWTSecret, acct.ID, acct.Role, h.Cfg.TokenTTLHours)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token":      session.Token,
		"expires":    session.Exp,
		"role":       acct.Role,
		"account_id": acct.ID,
	})
}

// GetProfile handles GET /api/profile for any authenticated role.
func (h *AuthHandler) GetProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acct, err := h.Accounts.GetByID(ctx, uid)
	if err != nil {
		if err == repository.ErrAccountNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, acct)
}

type profileReq struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	// Variant payload; only the half matching the account's role applies.
	Experience     *string `json:"experience"`
	HasChildren    *bool   `json:"has_children"`
	HasOtherPets   *bool   `json:"has_other_pets"`
	RehomingReason *string `json:"rehoming_reason"`
}

// UpdateProfile handles PUT /api/profile. Contact fields are overwritten;
// variant fields merge (nil means "keep current"). Email, password and role
// are immutable here.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acct, err := h.Accounts.GetByID(ctx, uid)
	if err != nil {
		if err == repository.ErrAccountNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	acct.Name = strings.TrimSpace(req.Name)
	acct.Phone = strings.TrimSpace(req.Phone)
	acct.City = strings.TrimSpace(req.City)
	acct.State = strings.TrimSpace(req.State)
	acct.Country = strings.TrimSpace(req.Country)

	switch acct.Role {
	case model.RoleAdopter:
		if acct.Adopter == nil {
			acct.Adopter = &model.AdopterProfile{}
		}
		if req.Experience != nil {
			acct.Adopter.Experience = *req.Experience
		}
		if req.HasChildren != nil {
			acct.Adopter.HasChildren = *req.HasChildren
		}
		if req.HasOtherPets != nil {
			acct.Adopter.HasOtherPets = *req.HasOtherPets
		}
	case model.RoleRehomer:
		if acct.Rehomer == nil {
			acct.Rehomer = &model.RehomerProfile{}
		}
		if req.RehomingReason != nil {
			acct.Rehomer.RehomingReason = *req.RehomingReason
		}
	}

	if err := h.Accounts.UpdateProfile(ctx, acct); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, acct)
}
