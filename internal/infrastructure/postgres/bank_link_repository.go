package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"horizon/internal/domain/banklink"
	"horizon/internal/infrastructure/crypto"
)

// BankLinkRepository stores bank links with the access token encrypted.
type BankLinkRepository struct {
	db        *DB
	encryptor *crypto.Encryptor
}

func NewBankLinkRepository(db *DB, encryptor *crypto.Encryptor) *BankLinkRepository {
	return &BankLinkRepository{db: db, encryptor: encryptor}
}

const bankLinkColumns = `id, user_id, bank_id, account_id, access_token, funding_source_url, shareable_id, created_at`

func (r *BankLinkRepository) scan(row rowScanner) (*banklink.BankLink, error) {
	var (
		l         banklink.BankLink
		encrypted string
	)
	if err := row.Scan(&l.ID, &l.UserID, &l.BankID, &l.AccountID, &encrypted, &l.FundingSourceURL, &l.ShareableID, &l.CreatedAt); err != nil {
		return nil, err
	}

	token, err := r.encryptor.Decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token for bank link %s: %w", l.ID, err)
	}
	l.AccessToken = token
	return &l, nil
}

func (r *BankLinkRepository) Create(ctx context.Context, params banklink.CreateParams) (*banklink.BankLink, error) {
	encrypted, err := r.encryptor.Encrypt(params.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	query := `
		INSERT INTO bank_links (user_id, bank_id, account_id, access_token, funding_source_url, shareable_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + bankLinkColumns

	link, err := r.scan(r.db.QueryRowContext(ctx, query,
		params.UserID, params.BankID, params.AccountID, encrypted, params.FundingSourceURL, params.ShareableID,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, banklink.ErrDuplicateBankLink
		}
		return nil, fmt.Errorf("failed to create bank link: %w", err)
	}
	return link, nil
}

func (r *BankLinkRepository) GetByID(ctx context.Context, id string) (*banklink.BankLink, error) {
	query := `SELECT ` + bankLinkColumns + ` FROM bank_links WHERE id = $1`

	link, err := r.scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, banklink.ErrBankLinkNotFound
		}
		return nil, fmt.Errorf("failed to get bank link: %w", err)
	}
	return link, nil
}

func (r *BankLinkRepository) ListByUserID(ctx context.Context, userID string) ([]*banklink.BankLink, error) {
	query := `SELECT ` + bankLinkColumns + ` FROM bank_links WHERE user_id = $1 ORDER BY created_at, id`

	links, err := r.list(ctx, query, userID)
	if err != nil {
		if isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list bank links: %w", err)
	}
	return links, nil
}

func (r *BankLinkRepository) ListByAccountID(ctx context.Context, accountID string) ([]*banklink.BankLink, error) {
	query := `SELECT ` + bankLinkColumns + ` FROM bank_links WHERE account_id = $1 ORDER BY created_at, id`

	links, err := r.list(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank links by account: %w", err)
	}
	return links, nil
}

func (r *BankLinkRepository) list(ctx context.Context, query string, arg any) ([]*banklink.BankLink, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*banklink.BankLink
	for rows.Next() {
		link, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
