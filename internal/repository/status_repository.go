package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// StatusRepository manages the ticket status lookup. Exactly one row may
// hold is_default=TRUE; SetDefault clears the prior default in the same
// transaction.
type StatusRepository interface {
	Create(ctx context.Context, status *domain.Status) error
	Update(ctx context.Context, status *domain.Status) error
	GetByID(ctx context.Context, id string) (*domain.Status, error)
	GetDefault(ctx context.Context) (*domain.Status, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Status, error)
	SetDefault(ctx context.Context, id string) error
}

type statusRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRepository builds repository.
func NewStatusRepository(pool *pgxpool.Pool) StatusRepository {
	return &statusRepository{pool: pool}
}

func (r *statusRepository) Create(ctx context.Context, status *domain.Status) error {
	const query = `
        INSERT INTO ticket_statuses (name, is_default, is_resolved, is_closed, is_active, sort_order)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		status.Name,
		status.IsDefault,
		status.IsResolved,
		status.IsClosed,
		status.IsActive,
		status.SortOrder,
	).Scan(&status.ID, &status.CreatedAt, &status.UpdatedAt)
}

func (r *statusRepository) Update(ctx context.Context, status *domain.Status) error {
	const query = `
        UPDATE ticket_statuses SET name=$1, is_resolved=$2, is_closed=$3, is_active=$4, sort_order=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		status.Name,
		status.IsResolved,
		status.IsClosed,
		status.IsActive,
		status.SortOrder,
		status.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *statusRepository) GetByID(ctx context.Context, id string) (*domain.Status, error) {
	const query = `
        SELECT id, name, is_default, is_resolved, is_closed, is_active, sort_order, created_at, updated_at
        FROM ticket_statuses WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *statusRepository) GetDefault(ctx context.Context) (*domain.Status, error) {
	const query = `
        SELECT id, name, is_default, is_resolved, is_closed, is_active, sort_order, created_at, updated_at
        FROM ticket_statuses WHERE is_default=TRUE LIMIT 1`
	var status domain.Status
	if err := r.pool.QueryRow(ctx, query).Scan(
		&status.ID,
		&status.Name,
		&status.IsDefault,
		&status.IsResolved,
		&status.IsClosed,
		&status.IsActive,
		&status.SortOrder,
		&status.CreatedAt,
		&status.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *statusRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Status, error) {
	var status domain.Status
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&status.ID,
		&status.Name,
		&status.IsDefault,
		&status.IsResolved,
		&status.IsClosed,
		&status.IsActive,
		&status.SortOrder,
		&status.CreatedAt,
		&status.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *statusRepository) List(ctx context.Context, activeOnly bool) ([]domain.Status, error) {
	query := `
        SELECT id, name, is_default, is_resolved, is_closed, is_active, sort_order, created_at, updated_at
        FROM ticket_statuses`
	if activeOnly {
		query += ` WHERE is_active=TRUE`
	}
	query += ` ORDER BY sort_order ASC, name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Status
	for rows.Next() {
		var status domain.Status
		if err := rows.Scan(
			&status.ID,
			&status.Name,
			&status.IsDefault,
			&status.IsResolved,
			&status.IsClosed,
			&status.IsActive,
			&status.SortOrder,
			&status.CreatedAt,
			&status.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, rows.Err()
}

func (r *statusRepository) SetDefault(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `UPDATE ticket_statuses SET is_default=FALSE WHERE is_default=TRUE`); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `UPDATE ticket_statuses SET is_default=TRUE, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}
