package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"horizon/internal/domain/user"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, identity_id, first_name, last_name, email, address1, city, state,
	postal_code, date_of_birth, payments_customer_id, payments_customer_url, created_at, updated_at`

func scanProfile(row rowScanner) (*user.Profile, error) {
	var p user.Profile
	err := row.Scan(
		&p.ID, &p.IdentityID, &p.FirstName, &p.LastName, &p.Email, &p.Address1, &p.City, &p.State,
		&p.PostalCode, &p.DateOfBirth, &p.PaymentsCustomerID, &p.PaymentsCustomerURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert creates the profile or overwrites the existing row for the identity.
func (r *UserRepository) Upsert(ctx context.Context, params user.CreateParams) (*user.Profile, error) {
	query := `
		INSERT INTO users (identity_id, first_name, last_name, email, address1, city, state,
			postal_code, date_of_birth, payments_customer_id, payments_customer_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (identity_id) DO UPDATE
			SET first_name = EXCLUDED.first_name,
			    last_name = EXCLUDED.last_name,
			    email = EXCLUDED.email,
			    address1 = EXCLUDED.address1,
			    city = EXCLUDED.city,
			    state = EXCLUDED.state,
			    postal_code = EXCLUDED.postal_code,
			    date_of_birth = EXCLUDED.date_of_birth,
			    payments_customer_id = EXCLUDED.payments_customer_id,
			    payments_customer_url = EXCLUDED.payments_customer_url,
			    updated_at = NOW()
		RETURNING ` + userColumns

	p, err := scanProfile(r.db.QueryRowContext(ctx, query,
		params.IdentityID, params.FirstName, params.LastName, params.Email, params.Address1, params.City,
		params.State, params.PostalCode, params.DateOfBirth, params.PaymentsCustomerID, params.PaymentsCustomerURL,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return p, nil
}

// EnsureMinimal inserts only when the identity has no row. Under a race the
// loser's insert does nothing and it reads the winner's row.
func (r *UserRepository) EnsureMinimal(ctx context.Context, params user.CreateParams) (*user.Profile, bool, error) {
	query := `
		INSERT INTO users (identity_id, first_name, last_name, email)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (identity_id) DO NOTHING
		RETURNING ` + userColumns

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, params.IdentityID, params.FirstName, params.LastName, params.Email))
	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to insert minimal profile: %w", err)
	}

	p, err = r.GetByIdentityID(ctx, params.IdentityID)
	if err != nil {
		return nil, false, err
	}
	return p, false, nil
}

func (r *UserRepository) GetByIdentityID(ctx context.Context, identityID string) (*user.Profile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE identity_id = $1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, identityID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}
