package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// BusinessHoursRepository manages per-day working windows.
type BusinessHoursRepository interface {
	Create(ctx context.Context, hours *domain.BusinessHours) error
	Update(ctx context.Context, hours *domain.BusinessHours) error
	ListActive(ctx context.Context) ([]domain.BusinessHours, error)
	List(ctx context.Context) ([]domain.BusinessHours, error)
	Delete(ctx context.Context, id string) error
}

// HolidayRepository manages calendar exclusions.
type HolidayRepository interface {
	Create(ctx context.Context, holiday *domain.Holiday) error
	List(ctx context.Context) ([]domain.Holiday, error)
	Delete(ctx context.Context, id string) error
}

type businessHoursRepository struct {
	pool *pgxpool.Pool
}

// NewBusinessHoursRepository builds repository.
func NewBusinessHoursRepository(pool *pgxpool.Pool) BusinessHoursRepository {
	return &businessHoursRepository{pool: pool}
}

func (r *businessHoursRepository) Create(ctx context.Context, hours *domain.BusinessHours) error {
	const query = `
        INSERT INTO business_hours (day_of_week, start_minutes, end_minutes, time_zone, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		int(hours.DayOfWeek),
		hours.StartMinutes,
		hours.EndMinutes,
		hours.TimeZone,
		hours.IsActive,
	).Scan(&hours.ID, &hours.CreatedAt, &hours.UpdatedAt)
}

func (r *businessHoursRepository) Update(ctx context.Context, hours *domain.BusinessHours) error {
	const query = `
        UPDATE business_hours SET day_of_week=$1, start_minutes=$2, end_minutes=$3, time_zone=$4, is_active=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		int(hours.DayOfWeek),
		hours.StartMinutes,
		hours.EndMinutes,
		hours.TimeZone,
		hours.IsActive,
		hours.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *businessHoursRepository) ListActive(ctx context.Context) ([]domain.BusinessHours, error) {
	const query = `
        SELECT id, day_of_week, start_minutes, end_minutes, time_zone, is_active, created_at, updated_at
        FROM business_hours WHERE is_active=TRUE ORDER BY day_of_week ASC, start_minutes ASC`
	return r.listHours(ctx, query)
}

func (r *businessHoursRepository) List(ctx context.Context) ([]domain.BusinessHours, error) {
	const query = `
        SELECT id, day_of_week, start_minutes, end_minutes, time_zone, is_active, created_at, updated_at
        FROM business_hours ORDER BY day_of_week ASC, start_minutes ASC`
	return r.listHours(ctx, query)
}

func (r *businessHoursRepository) listHours(ctx context.Context, query string) ([]domain.BusinessHours, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BusinessHours
	for rows.Next() {
		var hours domain.BusinessHours
		var day int
		if err := rows.Scan(
			&hours.ID,
			&day,
			&hours.StartMinutes,
			&hours.EndMinutes,
			&hours.TimeZone,
			&hours.IsActive,
			&hours.CreatedAt,
			&hours.UpdatedAt,
		); err != nil {
			return nil, err
		}
		hours.DayOfWeek = time.Weekday(day)
		result = append(result, hours)
	}
	return result, rows.Err()
}

func (r *businessHoursRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM business_hours WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type holidayRepository struct {
	pool *pgxpool.Pool
}

// NewHolidayRepository builds repository.
func NewHolidayRepository(pool *pgxpool.Pool) HolidayRepository {
	return &holidayRepository{pool: pool}
}

func (r *holidayRepository) Create(ctx context.Context, holiday *domain.Holiday) error {
	const query = `
        INSERT INTO holidays (name, date)
        VALUES ($1,$2)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		holiday.Name,
		holiday.Date,
	).Scan(&holiday.ID, &holiday.CreatedAt)
}

func (r *holidayRepository) List(ctx context.Context) ([]domain.Holiday, error) {
	const query = `
        SELECT id, name, date, created_at FROM holidays ORDER BY date ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Holiday
	for rows.Next() {
		var holiday domain.Holiday
		if err := rows.Scan(
			&holiday.ID,
			&holiday.Name,
			&holiday.Date,
			&holiday.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, holiday)
	}
	return result, rows.Err()
}

func (r *holidayRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM holidays WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
