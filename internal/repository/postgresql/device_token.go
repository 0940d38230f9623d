package postgresql

import (
	"context"
	"fmt"

	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/db"
)

// DeviceTokenRepo reads the device token registry. Registration and
// deactivation happen elsewhere.
type DeviceTokenRepo struct {
	db db.DB
}

func NewDeviceTokenRepo(db db.DB) *DeviceTokenRepo {
	return &DeviceTokenRepo{db: db}
}

func (r *DeviceTokenRepo) ActiveTokens(ctx context.Context, userID string) ([]string, error) {
	var tokens []string
	err := r.db.Select(ctx, &tokens, `
        SELECT token FROM device_tokens
        WHERE user_id = $1 AND is_active = TRUE
        ORDER BY created_at ASC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active device tokens: %w", err)
	}
	return tokens, nil
}
