package handler // handler defines http handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-adoption-api/internal/model"
	"github.com/iliyamo/pet-adoption-api/internal/queue"
)

// The store interfaces are the slice of the repository layer each handler
// group actually uses. The concrete *sql.DB repositories satisfy them;
// tests substitute in-memory fakes.

// AccountStore persists accounts and their role-variant profiles.
type AccountStore interface {
	Create(ctx context.Context, a *model.Account, password string, cost int) error
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByID(ctx context.Context, id uint64) (*model.Account, error)
	UpdateProfile(ctx context.Context, a *model.Account) error
}

// PetStore persists listings. All mutations are owner-scoped; a missing or
// foreign listing surfaces as repository.ErrPetNotFound.
type PetStore interface {
	Create(ctx context.Context, p *model.Pet) error
	GetByID(ctx context.Context, id uint64) (*model.Pet, error)
	ListAvailable(ctx context.Context) ([]*model.Pet, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Pet, error)
	Update(ctx context.Context, ownerID uint64, p *model.Pet) error
	Delete(ctx context.Context, id, ownerID uint64) ([]string, error)
}

// LikeStore persists affinity edges between adopters and listings.
type LikeStore interface {
	Like(ctx context.Context, adopterID, petID uint64) error
	Unlike(ctx context.Context, adopterID, petID uint64) error
	ListLiked(ctx context.Context, adopterID uint64) ([]*model.Pet, error)
}

// EventPublisher pushes a listing lifecycle event to the broker. A nil
// publisher disables eventing; failures are already swallowed upstream.
type EventPublisher func(ctx context.Context, ev queue.ListingEvent) error

// getUserID extracts the authenticated account id from echo.Context. The
// JWT middleware stores the raw "sub" claim, which arrives as a float64
// when decoded from JSON claims.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}
