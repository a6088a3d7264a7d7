package postgres

import (
	"context"
	"database/sql"
	"time"

	"peerrent-backend/internal/domain"
	"peerrent-backend/internal/repository"
)

type deviceTokenRepository struct {
	db *sql.DB
}

func NewDeviceTokenRepository(db *sql.DB) repository.DeviceTokenRepository {
	return &deviceTokenRepository{db: db}
}

func (r *deviceTokenRepository) Create(ctx context.Context, t *domain.DeviceToken) error {
	// Re-registering the same token moves it to the current user.
	query := `INSERT INTO device_tokens (user_id, token, platform, created_on) VALUES ($1, $2, $3, $4)
	          ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform
	          RETURNING id`
	return r.db.QueryRowContext(ctx, query, t.UserID, t.Token, t.Platform, time.Now()).Scan(&t.ID)
}

func (r *deviceTokenRepository) ListByUser(ctx context.Context, userID int32) ([]domain.DeviceToken, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, token, platform, created_on FROM device_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []domain.DeviceToken
	for rows.Next() {
		var t domain.DeviceToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.Platform, &t.CreatedOn); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (r *deviceTokenRepository) Delete(ctx context.Context, id, userID int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM device_tokens WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
