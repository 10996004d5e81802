package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// PriorityRepository manages the priority lookup, the authoritative source
// for SLA fallback minutes.
type PriorityRepository interface {
	Create(ctx context.Context, priority *domain.Priority) error
	Update(ctx context.Context, priority *domain.Priority) error
	GetByID(ctx context.Context, id string) (*domain.Priority, error)
	GetDefault(ctx context.Context) (*domain.Priority, error)
	// GetByMinLevel returns the lowest-level active priority strictly above
	// the given level; the escalate-priority action uses it to bump tickets.
	GetByMinLevel(ctx context.Context, level int) (*domain.Priority, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Priority, error)
	SetDefault(ctx context.Context, id string) error
}

type priorityRepository struct {
	pool *pgxpool.Pool
}

// NewPriorityRepository builds repository.
func NewPriorityRepository(pool *pgxpool.Pool) PriorityRepository {
	return &priorityRepository{pool: pool}
}

const priorityColumns = `id, name, level, response_time_minutes, resolution_time_minutes, is_default, is_active, created_at, updated_at`

func (r *priorityRepository) Create(ctx context.Context, priority *domain.Priority) error {
	const query = `
        INSERT INTO priorities (name, level, response_time_minutes, resolution_time_minutes, is_default, is_active)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		priority.Name,
		priority.Level,
		priority.ResponseTimeMinutes,
		priority.ResolutionTimeMinutes,
		priority.IsDefault,
		priority.IsActive,
	).Scan(&priority.ID, &priority.CreatedAt, &priority.UpdatedAt)
}

func (r *priorityRepository) Update(ctx context.Context, priority *domain.Priority) error {
	const query = `
        UPDATE priorities SET name=$1, level=$2, response_time_minutes=$3, resolution_time_minutes=$4, is_active=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		priority.Name,
		priority.Level,
		priority.ResponseTimeMinutes,
		priority.ResolutionTimeMinutes,
		priority.IsActive,
		priority.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *priorityRepository) GetByID(ctx context.Context, id string) (*domain.Priority, error) {
	query := `SELECT ` + priorityColumns + ` FROM priorities WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *priorityRepository) GetDefault(ctx context.Context) (*domain.Priority, error) {
	const query = `SELECT ` + priorityColumns + ` FROM priorities WHERE is_default=TRUE LIMIT 1`
	row := r.pool.QueryRow(ctx, query)
	return scanPriority(row)
}

func (r *priorityRepository) GetByMinLevel(ctx context.Context, level int) (*domain.Priority, error) {
	const query = `
        SELECT ` + priorityColumns + ` FROM priorities
        WHERE is_active=TRUE AND level > $1 ORDER BY level ASC LIMIT 1`
	row := r.pool.QueryRow(ctx, query, level)
	return scanPriority(row)
}

func (r *priorityRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Priority, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	return scanPriority(row)
}

func scanPriority(row rowScanner) (*domain.Priority, error) {
	var priority domain.Priority
	if err := row.Scan(
		&priority.ID,
		&priority.Name,
		&priority.Level,
		&priority.ResponseTimeMinutes,
		&priority.ResolutionTimeMinutes,
		&priority.IsDefault,
		&priority.IsActive,
		&priority.CreatedAt,
		&priority.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &priority, nil
}

func (r *priorityRepository) List(ctx context.Context, activeOnly bool) ([]domain.Priority, error) {
	query := `SELECT ` + priorityColumns + ` FROM priorities`
	if activeOnly {
		query += ` WHERE is_active=TRUE`
	}
	query += ` ORDER BY level ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Priority
	for rows.Next() {
		priority, err := scanPriority(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *priority)
	}
	return result, rows.Err()
}

func (r *priorityRepository) SetDefault(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `UPDATE priorities SET is_default=FALSE WHERE is_default=TRUE`); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `UPDATE priorities SET is_default=TRUE, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}
