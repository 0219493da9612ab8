package database

import (
	"context"
	"database/sql"
)

// schema holds the DDL for every table the marketplace uses. Statements are
// idempotent so startup can run them unconditionally against a fresh or an
// existing database.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role ENUM('adopter','rehomer') NOT NULL,
		name VARCHAR(255) NOT NULL,
		phone VARCHAR(64) NOT NULL DEFAULT '',
		city VARCHAR(128) NOT NULL DEFAULT '',
		state VARCHAR(128) NOT NULL DEFAULT '',
		country VARCHAR(128) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_accounts_email (email)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS adopter_profiles (
		account_id BIGINT UNSIGNED NOT NULL,
		experience TEXT NOT NULL,
		has_children BOOLEAN NOT NULL DEFAULT FALSE,
		has_other_pets BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (account_id),
		CONSTRAINT fk_adopter_account FOREIGN KEY (account_id) REFERENCES accounts(id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS rehomer_profiles (
		account_id BIGINT UNSIGNED NOT NULL,
		rehoming_reason TEXT NOT NULL,
		PRIMARY KEY (account_id),
		CONSTRAINT fk_rehomer_account FOREIGN KEY (account_id) REFERENCES accounts(id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS pets (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		owner_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(255) NOT NULL,
		species VARCHAR(64) NOT NULL,
		breed VARCHAR(128) NOT NULL,
		age_years INT NOT NULL DEFAULT 0,
		age_months INT NOT NULL DEFAULT 0,
		gender VARCHAR(16) NOT NULL,
		size VARCHAR(16) NOT NULL,
		description TEXT NOT NULL,
		vaccinated BOOLEAN NOT NULL DEFAULT FALSE,
		neutered BOOLEAN NOT NULL DEFAULT FALSE,
		special_needs BOOLEAN NOT NULL DEFAULT FALSE,
		special_needs_desc TEXT NOT NULL,
		good_with_kids BOOLEAN NOT NULL DEFAULT FALSE,
		good_with_pets BOOLEAN NOT NULL DEFAULT FALSE,
		activity_level VARCHAR(16) NOT NULL DEFAULT 'medium',
		status ENUM('available','pending','adopted') NOT NULL DEFAULT 'available',
		location VARCHAR(255) NOT NULL,
		adoption_fee DECIMAL(10,2) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_pets_status (status),
		KEY idx_pets_owner (owner_id, status),
		CONSTRAINT fk_pets_owner FOREIGN KEY (owner_id) REFERENCES accounts(id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS pet_images (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		pet_id BIGINT UNSIGNED NOT NULL,
		url VARCHAR(512) NOT NULL,
		position INT NOT NULL DEFAULT 0,
		PRIMARY KEY (id),
		KEY idx_pet_images_pet (pet_id),
		CONSTRAINT fk_pet_images_pet FOREIGN KEY (pet_id) REFERENCES pets(id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS liked_pets (
		adopter_id BIGINT UNSIGNED NOT NULL,
		pet_id BIGINT UNSIGNED NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (adopter_id, pet_id),
		KEY idx_liked_pets_pet (pet_id),
		CONSTRAINT fk_liked_adopter FOREIGN KEY (adopter_id) REFERENCES accounts(id),
		CONSTRAINT fk_liked_pet FOREIGN KEY (pet_id) REFERENCES pets(id)
	) ENGINE=InnoDB`,
}

// EnsureSchema creates any missing tables. Run once at startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
