package postgres

import (
	"context"
	"fmt"

	"horizon/internal/domain/notification"
)

type DeviceTokenRepository struct {
	db *DB
}

func NewDeviceTokenRepository(db *DB) *DeviceTokenRepository {
	return &DeviceTokenRepository{db: db}
}

const deviceColumns = `id, user_id, token, device_type, is_active, created_at, last_used`

func scanDevice(row rowScanner) (*notification.DeviceToken, error) {
	var d notification.DeviceToken
	if err := row.Scan(&d.ID, &d.UserID, &d.Token, &d.DeviceType, &d.IsActive, &d.CreatedAt, &d.LastUsed); err != nil {
		return nil, err
	}
	return &d, nil
}

// UpsertDeviceToken registers token for the user. A token already known
// under another user moves to this one and is reactivated.
func (r *DeviceTokenRepository) UpsertDeviceToken(ctx context.Context, params notification.CreateDeviceTokenParams) (*notification.DeviceToken, error) {
	query := `
		INSERT INTO push_devices (user_id, token, device_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE SET
			user_id     = EXCLUDED.user_id,
			device_type = EXCLUDED.device_type,
			is_active   = TRUE,
			last_used   = NOW()
		RETURNING ` + deviceColumns

	device, err := scanDevice(r.db.QueryRowContext(ctx, query, params.UserID, params.Token, params.DeviceType))
	if err != nil {
		return nil, fmt.Errorf("failed to register device %s: %w", params.DeviceType, err)
	}
	return device, nil
}

func (r *DeviceTokenRepository) GetActiveTokensByUserID(ctx context.Context, userID string) ([]*notification.DeviceToken, error) {
	query := `SELECT ` + deviceColumns + ` FROM push_devices
		WHERE user_id = $1 AND is_active
		ORDER BY last_used DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer rows.Close()

	var devices []*notification.DeviceToken
	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, device)
	}
	return devices, rows.Err()
}

// DeactivateToken stops pushes to a token the messaging service rejected.
func (r *DeviceTokenRepository) DeactivateToken(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE push_devices SET is_active = FALSE WHERE token = $1`, token); err != nil {
		return fmt.Errorf("failed to deactivate device: %w", err)
	}
	return nil
}
