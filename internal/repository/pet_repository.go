package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/pet-adoption-api/internal/model"
)

// PetRepo encapsulates all database queries related to pet listings and
// their image rows. Ownership scoping happens here: every mutation is keyed
// by (id, owner_id) so a rehomer can never touch someone else's listing.
type PetRepo struct {
	db *sql.DB
}

// NewPetRepo constructs a PetRepo with the provided DB handle.
func NewPetRepo(db *sql.DB) *PetRepo {
	return &PetRepo{db: db}
}

const petCols = `p.id, p.owner_id, p.name, p.species, p.breed, p.age_years, p.age_months,
	p.gender, p.size, p.description, p.vaccinated, p.neutered, p.special_needs,
	p.special_needs_desc, p.good_with_kids, p.good_with_pets, p.activity_level,
	p.status, p.location, p.adoption_fee, p.created_at, p.updated_at`

// scanPet reads one pet row in petCols order from a *sql.Rows or *sql.Row.
func scanPet(sc interface{ Scan(...any) error }) (*model.Pet, error) {
	var p model.Pet
	err := sc.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.Breed, &p.AgeYears, &p.AgeMonths,
		&p.Gender, &p.Size, &p.Description, &p.Health.Vaccinated, &p.Health.Neutered,
		&p.Health.SpecialNeeds, &p.Health.SpecialNeedsDesc, &p.Behavior.GoodWithKids,
		&p.Behavior.GoodWithPets, &p.Behavior.ActivityLevel, &p.Status, &p.Location,
		&p.AdoptionFee, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new listing and its image rows in one transaction. Status
// is always initialized to "available" regardless of what the caller set.
func (r *PetRepo) Create(ctx context.Context, p *model.Pet) error {
	p.Status = model.StatusAvailable

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	res, execErr := tx.ExecContext(ctx,
		`INSERT INTO pets (owner_id, name, species, breed, age_years, age_months, gender, size,
		   description, vaccinated, neutered, special_needs, special_needs_desc,
		   good_with_kids, good_with_pets, activity_level, status, location, adoption_fee)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.OwnerID, p.Name, p.Species, p.Breed, p.AgeYears, p.AgeMonths, p.Gender, p.Size,
		p.Description, p.Health.Vaccinated, p.Health.Neutered, p.Health.SpecialNeeds,
		p.Health.SpecialNeedsDesc, p.Behavior.GoodWithKids, p.Behavior.GoodWithPets,
		p.Behavior.ActivityLevel, p.Status, p.Location, p.AdoptionFee)
	if execErr != nil {
		err = execErr
		return err
	}
	id, idErr := res.LastInsertId()
	if idErr != nil {
		err = idErr
		return err
	}
	p.ID = uint64(id)

	err = insertImages(ctx, tx, p.ID, p.Images)
	return err
}

func insertImages(ctx context.Context, tx *sql.Tx, petID uint64, urls []string) error {
	for i, u := range urls {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pet_images (pet_id, url, position) VALUES (?,?,?)`,
			petID, u, i); err != nil {
			return err
		}
	}
	return nil
}

// loadImages fills the Images slice for each pet keyed by id.
func (r *PetRepo) loadImages(ctx context.Context, pets map[uint64]*model.Pet) error {
	if len(pets) == 0 {
		return nil
	}
	// One query per page of listings keeps this simple; listing pages are
	// small and the table is indexed by pet_id.
	for id, p := range pets {
		rows, err := r.db.QueryContext(ctx,
			`SELECT url FROM pet_images WHERE pet_id=? ORDER BY position`, id)
		if err != nil {
			return err
		}
		for rows.Next() {
			var u string
			if err := rows.Scan(&u); err != nil {
				rows.Close()
				return err
			}
			p.Images = append(p.Images, u)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
	}
	return nil
}

// GetByID fetches a single listing of any status, with images and the
// owner's full public contact (name, location, phone, email) denormalized.
func (r *PetRepo) GetByID(ctx context.Context, id uint64) (*model.Pet, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+petCols+`, a.id, a.name, a.city, a.country, a.phone, a.email
		 FROM pets p JOIN accounts a ON a.id = p.owner_id
		 WHERE p.id = ?`, id)

	var p model.Pet
	var o model.OwnerContact
	var city, country string
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.Breed, &p.AgeYears, &p.AgeMonths,
		&p.Gender, &p.Size, &p.Description, &p.Health.Vaccinated, &p.Health.Neutered,
		&p.Health.SpecialNeeds, &p.Health.SpecialNeedsDesc, &p.Behavior.GoodWithKids,
		&p.Behavior.GoodWithPets, &p.Behavior.ActivityLevel, &p.Status, &p.Location,
		&p.AdoptionFee, &p.CreatedAt, &p.UpdatedAt,
		&o.ID, &o.Name, &city, &country, &o.Phone, &o.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPetNotFound
		}
		return nil, err
	}
	o.Location = joinLocation(city, country)
	p.Owner = &o
	if err := r.loadImages(ctx, map[uint64]*model.Pet{p.ID: &p}); err != nil {
		return nil, err
	}
	return &p, nil
}

func joinLocation(city, country string) string {
	switch {
	case city != "" && country != "":
		return city + ", " + country
	case city != "":
		return city
	default:
		return country
	}
}

// ListAvailable returns every listing with status=available, in insertion
// order, with images and the owner's name/location attached. Phone and email
// are left empty on the browse surface.
func (r *PetRepo) ListAvailable(ctx context.Context) ([]*model.Pet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+petCols+`, a.id, a.name, a.city, a.country
		 FROM pets p JOIN accounts a ON a.id = p.owner_id
		 WHERE p.status = ? ORDER BY p.id`, model.StatusAvailable)
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
			&o.ID, &o.Name, &city, &country); err != nil {
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
	if err := r.loadImages(ctx, byID); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByOwner returns all of one rehomer's listings regardless of status.
func (r *PetRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Pet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+petCols+` FROM pets p WHERE p.owner_id = ? ORDER BY p.id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Pet
	byID := map[uint64]*model.Pet{}
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadImages(ctx, byID); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the mutable listing fields and wholesale-replaces the
// image set, but only when the listing belongs to ownerID. A missing or
// foreign listing yields ErrPetNotFound; the two cases are indistinguishable
// on purpose.
func (r *PetRepo) Update(ctx context.Context, ownerID uint64, p *model.Pet) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	// Ownership check first: RowsAffected on the UPDATE alone cannot tell a
	// no-op patch apart from a foreign listing.
	var dbOwner uint64
	if err = tx.QueryRowContext(ctx, `SELECT owner_id FROM pets WHERE id=?`, p.ID).Scan(&dbOwner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrPetNotFound
		}
		return err
	}
	if dbOwner != ownerID {
		err = ErrPetNotFound
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE pets SET name=?, species=?, breed=?, age_years=?, age_months=?, gender=?, size=?,
		   description=?, vaccinated=?, neutered=?, special_needs=?, special_needs_desc=?,
		   good_with_kids=?, good_with_pets=?, activity_level=?, status=?, location=?,
		   adoption_fee=?, updated_at=CURRENT_TIMESTAMP
		 WHERE id=? AND owner_id=?`,
		p.Name, p.Species, p.Breed, p.AgeYears, p.AgeMonths, p.Gender, p.Size,
		p.Description, p.Health.Vaccinated, p.Health.Neutered, p.Health.SpecialNeeds,
		p.Health.SpecialNeedsDesc, p.Behavior.GoodWithKids, p.Behavior.GoodWithPets,
		p.Behavior.ActivityLevel, p.Status, p.Location, p.AdoptionFee,
		p.ID, ownerID); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM pet_images WHERE pet_id=?`, p.ID); err != nil {
		return err
	}
	err = insertImages(ctx, tx, p.ID, p.Images)
	return err
}

// Delete removes a listing with its image rows and affinity edges in one
// transaction, provided it belongs to ownerID. It returns the image URLs that
// were attached so the caller can remove the files from disk. Missing or
// foreign listings yield ErrPetNotFound.
func (r *PetRepo) Delete(ctx context.Context, id, ownerID uint64) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var dbOwner uint64
	if err := tx.QueryRowContext(ctx, `SELECT owner_id FROM pets WHERE id=?`, id).Scan(&dbOwner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPetNotFound
		}
		return nil, err
	}
	if dbOwner != ownerID {
		return nil, ErrPetNotFound
	}

	var urls []string
	rows, err := tx.QueryContext(ctx, `SELECT url FROM pet_images WHERE pet_id=?`, id)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			rows.Close()
			return nil, err
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// Cascade: affinity edges first, then images, then the listing itself.
	// Adopters never see a dangling liked reference this way.
	if _, err := tx.ExecContext(ctx, `DELETE FROM liked_pets WHERE pet_id=?`, id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pet_images WHERE pet_id=?`, id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pets WHERE id=?`, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return urls, nil
}
