package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/pet-adoption-api/internal/model"
)

// LikeRepo manages affinity edges between adopters and listings. Uniqueness
// of the (adopter_id, pet_id) pair is enforced by a unique index; concurrent
// duplicate likes race at that index and the loser gets ErrAlreadyLiked.
type LikeRepo struct {
	db *sql.DB
}

func NewLikeRepo(db *sql.DB) *LikeRepo { return &LikeRepo{db: db} }

// Like records that an adopter liked a listing. Liking a nonexistent listing
// yields ErrPetNotFound; liking twice yields ErrAlreadyLiked.
func (r *LikeRepo) Like(ctx context.Context, adopterID, petID uint64) error {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM pets WHERE id=?`, petID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPetNotFound
		}
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO liked_pets (adopter_id, pet_id) VALUES (?,?)`, adopterID, petID)
	if err != nil {
		if mysqlDuplicate(err) {
			return ErrAlreadyLiked
		}
		return err
	}
	return nil
}

// Unlike removes an affinity edge. Removing an edge that does not exist is a
// no-op success, which makes the call idempotent.
func (r *LikeRepo) Unlike(ctx context.Context, adopterID, petID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM liked_pets WHERE adopter_id=? AND pet_id=?`, adopterID, petID)
	return err
}

// ListLiked returns the listings an adopter has liked, in like order, with
// the owner's full contact (phone/email included; the liked view is where
// adopters reach out to rehomers).
func (r *LikeRepo) ListLiked(ctx context.Context, adopterID uint64) ([]*model.Pet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+petCols+`, a.id, a.name, a.city, a.country, a.phone, a.email
		 FROM liked_pets l
		 JOIN pets p ON p.id = l.pet_id
		 JOIN accounts a ON a.id = p.owner_id
		 WHERE l.adopter_id = ? ORDER BY l.created_at, l.pet_id`, adopterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Pet
	byID := map[uint64]*model.Pet{}
	for rows.Next() {
		var p model.Pet
		var o model.OwnerContact
		var city, country string
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.Breed, &p.AgeYears, &p.AgeMonths,
			&p.Gender, &p.Size, &p.Description, &p.Health.Vaccinated, &p.Health.Neutered,
			&p.Health.SpecialNeeds, &p.Health.SpecialNeedsDesc, &p.Behavior.GoodWithKids,
			&p.Behavior.GoodWithPets, &p.Behavior.ActivityLevel, &p.Status, &p.Location,
			&p.AdoptionFee, &p.CreatedAt, &p.UpdatedAt,
			&o.ID, &o.Name, &city, &country, &o.Phone, &o.Email); err != nil {
			return nil, err
		}
		o.Location = joinLocation(city, country)
		p.Owner = &o
		out = append(out, &p)
		byID[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Reuse the pet repo's image loader query shape.
	pr := &PetRepo{db: r.db}
	if err := pr.loadImages(ctx, byID); err != nil {
		return nil, err
	}
	return out, nil
}
