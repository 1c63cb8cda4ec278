package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leavePolicyKey = "leave_policy"

type settingsRepositoryImpl struct {
	db database.Pool
}

func NewSettingsRepository(db database.Pool) leave.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

// GetLeavePolicy implements leave.SettingsRepository.
func (r *settingsRepositoryImpl) GetLeavePolicy(ctx context.Context) (leave.Policy, error) {
	q := GetQuerier(ctx, r.db)

	var p leave.Policy
	err := q.QueryRow(ctx, `SELECT value FROM app_settings WHERE key = $1`, leavePolicyKey).Scan(&p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.DefaultPolicy(), nil
		}
		return leave.Policy{}, fmt.Errorf("failed to get leave policy: %w", err)
	}
	return p, nil
}

// UpsertLeavePolicy implements leave.SettingsRepository.
func (r *settingsRepositoryImpl) UpsertLeavePolicy(ctx context.Context, p leave.Policy) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO app_settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, leavePolicyKey, p); err != nil {
		return fmt.Errorf("failed to upsert leave policy: %w", err)
	}
	return nil
}
