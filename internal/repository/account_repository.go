package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/pet-adoption-api/internal/model"
	"github.com/iliyamo/pet-adoption-api/internal/utils"
)

// AccountRepo encapsulates all database queries related to accounts and
// their role-specific profile rows.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

// mysqlDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062 on a unique index).
func mysqlDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// Create inserts the account row and its empty role-variant profile row in a
// single transaction, hashing the password with the given bcrypt cost. On
// success a.ID is populated. A duplicate email yields ErrEmailExists.
func (r *AccountRepo) Create(ctx context.Context, a *model.Account, password string, cost int) error {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
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
		`INSERT INTO accounts (email, password_hash, role, name, phone, city, state, country)
		 VALUES (?,?,?,?,?,?,?,?)`,
		a.Email, hash, a.Role, a.Name, a.Phone, a.City, a.State, a.Country)
	if execErr != nil {
		if mysqlDuplicate(execErr) {
			err = ErrEmailExists
			return err
		}
		err = execErr
		return err
	}
	id, idErr := res.LastInsertId()
	if idErr != nil {
		err = idErr
		return err
	}
	a.ID = uint64(id)

	// The empty variant row is created here so every account always carries
	// exactly one profile payload keyed by its role.
	switch a.Role {
	case model.RoleAdopter:
		if a.Adopter == nil {
			a.Adopter = &model.AdopterProfile{}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO adopter_profiles (account_id, experience, has_children, has_other_pets) VALUES (?,?,?,?)`,
			a.ID, a.Adopter.Experience, a.Adopter.HasChildren, a.Adopter.HasOtherPets)
	case model.RoleRehomer:
		if a.Rehomer == nil {
			a.Rehomer = &model.RehomerProfile{}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO rehomer_profiles (account_id, rehoming_reason) VALUES (?,?)`,
			a.ID, a.Rehomer.RehomingReason)
	}
	return err
}

const accountCols = `id, email, password_hash, role, name, phone, city, state, country, created_at, updated_at`

func scanAccount(row *sql.Row) (*model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.Name,
		&a.Phone, &a.City, &a.State, &a.Country, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetByEmail fetches an account by normalized email, without the profile
// payload. Used on the login path where only the hash and role matter.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanAccount(r.DB.QueryRowContext(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE email=? LIMIT 1`, email))
}

// GetByID fetches an account by id and attaches its role-variant profile.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (*model.Account, error) {
	a, err := scanAccount(r.DB.QueryRowContext(ctx,
		`SELECT `+accountCols+` FROM accounts WHERE id=? LIMIT 1`, id))
	if err != nil {
		return nil, err
	}
	switch a.Role {
	case model.RoleAdopter:
		p := &model.AdopterProfile{}
		err = r.DB.QueryRowContext(ctx,
			`SELECT experience, has_children, has_other_pets FROM adopter_profiles WHERE account_id=?`,
			id).Scan(&p.Experience, &p.HasChildren, &p.HasOtherPets)
		if err == nil {
			a.Adopter = p
		}
	case model.RoleRehomer:
		p := &model.RehomerProfile{}
		err = r.DB.QueryRowContext(ctx,
			`SELECT rehoming_reason FROM rehomer_profiles WHERE account_id=?`,
			id).Scan(&p.RehomingReason)
		if err == nil {
			a.Rehomer = p
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		// Profile row missing means the account predates the variant tables;
		// return the bare account rather than failing the read.
		return a, nil
	}
	return a, err
}

// UpdateProfile updates the mutable contact fields and the role-variant
// payload. Email, password and role are not touched here.
func (r *AccountRepo) UpdateProfile(ctx context.Context, a *model.Account) error {
	tx, err := r.DB.BeginTx(ctx, nil)
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
		`UPDATE accounts SET name=?, phone=?, city=?, state=?, country=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		a.Name, a.Phone, a.City, a.State, a.Country, a.ID)
	if execErr != nil {
		err = execErr
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero rows can also mean "no change"; confirm existence explicitly.
		var one int
		if scanErr := tx.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE id=?`, a.ID).Scan(&one); scanErr != nil {
			err = ErrAccountNotFound
			return err
		}
	}

	switch {
	case a.Role == model.RoleAdopter && a.Adopter != nil:
		_, err = tx.ExecContext(ctx,
			`UPDATE adopter_profiles SET experience=?, has_children=?, has_other_pets=? WHERE account_id=?`,
			a.Adopter.Experience, a.Adopter.HasChildren, a.Adopter.HasOtherPets, a.ID)
	case a.Role == model.RoleRehomer && a.Rehomer != nil:
		_, err = tx.ExecContext(ctx,
			`UPDATE rehomer_profiles SET rehoming_reason=? WHERE account_id=?`,
			a.Rehomer.RehomingReason, a.ID)
	}
	return err
}
