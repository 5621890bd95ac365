package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"horizon/internal/domain/identity"
)

type IdentityRepository struct {
	db *DB
}

func NewIdentityRepository(db *DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

const identityColumns = `id, name, email, password_hash, created_at`

func scanIdentity(row rowScanner) (*identity.Identity, error) {
	var i identity.Identity
	if err := row.Scan(&i.ID, &i.Name, &i.Email, &i.PasswordHash, &i.CreatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *IdentityRepository) Create(ctx context.Context, record identity.CreateRecord) (*identity.Identity, error) {
	query := `
		INSERT INTO identities (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + identityColumns

	ident, err := scanIdentity(r.db.QueryRowContext(ctx, query, record.ID, record.Name, record.Email, record.PasswordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, identity.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}
	return ident, nil
}

func (r *IdentityRepository) GetByID(ctx context.Context, id string) (*identity.Identity, error) {
	query := `SELECT ` + identityColumns + ` FROM identities WHERE id = $1`

	ident, err := scanIdentity(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identity.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}
	return ident, nil
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*identity.Identity, error) {
	query := `SELECT ` + identityColumns + ` FROM identities WHERE email = $1`

	ident, err := scanIdentity(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identity.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to get identity by email: %w", err)
	}
	return ident, nil
}

func (r *IdentityRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM identities WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}
	return nil
}

func (r *IdentityRepository) ListWithoutProfile(ctx context.Context) ([]*identity.Identity, error) {
	query := `
		SELECT i.id, i.name, i.email, i.password_hash, i.created_at
		FROM identities i
		LEFT JOIN users u ON u.identity_id = i.id
		WHERE u.id IS NULL
		ORDER BY i.created_at
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list identities without profile: %w", err)
	}
	defer rows.Close()

	var idents []*identity.Identity
	for rows.Next() {
		ident, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan identity: %w", err)
		}
		idents = append(idents, ident)
	}
	return idents, rows.Err()
}
