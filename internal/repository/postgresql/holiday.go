package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
)

type holidayRepositoryImpl struct {
	db database.Pool
}

func NewHolidayRepository(db database.Pool) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// ListAll implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) ListAll(ctx context.Context) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, date, type, manual_override, created_at, updated_at
		FROM holidays
		ORDER BY date, name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		var (
			h    holiday.Holiday
			date time.Time
		)
		if err := rows.Scan(&h.ID, &h.Name, &date, &h.Type, &h.ManualOverride, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		h.Date = dateutil.Of(date)
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holidays: %w", err)
	}
	return holidays, nil
}

// Create implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	if h.ID == "" {
		h.ID = newID()
	}

	query := `
		INSERT INTO holidays (id, name, date, type, manual_override)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query, h.ID, h.Name, h.Date.Time(), h.Type, h.ManualOverride).Scan(&h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "uk_holiday_date_name") {
			return holiday.Holiday{}, holiday.ErrHolidayAlreadyExists
		}
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return h, nil
}

// Upsert implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Upsert(ctx context.Context, h holiday.Holiday) (bool, error) {
	q := GetQuerier(ctx, r.db)

	if h.ID == "" {
		h.ID = newID()
	}

	query := `
		INSERT INTO holidays (id, name, date, type, manual_override)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT uk_holiday_date_name DO UPDATE SET
			type = EXCLUDED.type,
			manual_override = EXCLUDED.manual_override,
			updated_at = NOW()
		WHERE holidays.manual_override = FALSE
	`

	tag, err := q.Exec(ctx, query, h.ID, h.Name, h.Date.Time(), h.Type, h.ManualOverride)
	if err != nil {
		return false, fmt.Errorf("failed to upsert holiday: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}
