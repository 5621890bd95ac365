package postgres

import (
	"context"
	"fmt"

	"horizon/internal/domain/transfer"
)

type TransferRepository struct {
	db *DB
}

func NewTransferRepository(db *DB) *TransferRepository {
	return &TransferRepository{db: db}
}

const transferColumns = `id, name, amount, sender_id, sender_bank_id, receiver_id, receiver_bank_id,
	email, channel, category, transfer_url, created_at`

func scanTransfer(row rowScanner) (*transfer.Record, error) {
	var t transfer.Record
	err := row.Scan(
		&t.ID, &t.Name, &t.Amount, &t.SenderID, &t.SenderBankID, &t.ReceiverID, &t.ReceiverBankID,
		&t.Email, &t.Channel, &t.Category, &t.TransferURL, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransferRepository) Create(ctx context.Context, params transfer.CreateRecordParams) (*transfer.Record, error) {
	query := `
		INSERT INTO transfers (name, amount, sender_id, sender_bank_id, receiver_id, receiver_bank_id,
			email, channel, category, transfer_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + transferColumns

	rec, err := scanTransfer(r.db.QueryRowContext(ctx, query,
		params.Name, params.Amount, params.SenderID, params.SenderBankID, params.ReceiverID, params.ReceiverBankID,
		params.Email, transfer.ChannelOnline, transfer.CategoryTransfer, params.TransferURL,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create transfer record: %w", err)
	}
	return rec, nil
}

func (r *TransferRepository) ListByBankLinkID(ctx context.Context, bankLinkID string) ([]*transfer.Record, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers
		WHERE sender_bank_id = $1 OR receiver_bank_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, bankLinkID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	var records []*transfer.Record
	for rows.Next() {
		rec, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
