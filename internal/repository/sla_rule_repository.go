package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// SLARuleRepository manages SLA rule rows.
type SLARuleRepository interface {
	Create(ctx context.Context, rule *domain.SLARule) error
	Update(ctx context.Context, rule *domain.SLARule) error
	GetByID(ctx context.Context, id string) (*domain.SLARule, error)
	List(ctx context.Context) ([]domain.SLARule, error)
	ListActive(ctx context.Context) ([]domain.SLARule, error)
	Delete(ctx context.Context, id string) error
}

type slaRuleRepository struct {
	pool *pgxpool.Pool
}

// NewSLARuleRepository builds repository.
func NewSLARuleRepository(pool *pgxpool.Pool) SLARuleRepository {
	return &slaRuleRepository{pool: pool}
}

const slaRuleColumns = `id, name, priority_id, category_id, company_id, response_time_minutes,
               resolution_time_minutes, business_hours_only, is_active, created_at, updated_at`

func (r *slaRuleRepository) Create(ctx context.Context, rule *domain.SLARule) error {
	const query = `
        INSERT INTO sla_rules (name, priority_id, category_id, company_id, response_time_minutes,
            resolution_time_minutes, business_hours_only, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		rule.Name,
		rule.PriorityID,
		rule.CategoryID,
		rule.CompanyID,
		rule.ResponseTimeMinutes,
		rule.ResolutionTimeMinutes,
		rule.BusinessHoursOnly,
		rule.IsActive,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
}

func (r *slaRuleRepository) Update(ctx context.Context, rule *domain.SLARule) error {
	const query = `
        UPDATE sla_rules SET name=$1, priority_id=$2, category_id=$3, company_id=$4,
            response_time_minutes=$5, resolution_time_minutes=$6, business_hours_only=$7,
            is_active=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		rule.Name,
		rule.PriorityID,
		rule.CategoryID,
		rule.CompanyID,
		rule.ResponseTimeMinutes,
		rule.ResolutionTimeMinutes,
		rule.BusinessHoursOnly,
		rule.IsActive,
		rule.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *slaRuleRepository) GetByID(ctx context.Context, id string) (*domain.SLARule, error) {
	query := `SELECT ` + slaRuleColumns + ` FROM sla_rules WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanSLARule(row)
}

func (r *slaRuleRepository) List(ctx context.Context) ([]domain.SLARule, error) {
	query := `SELECT ` + slaRuleColumns + ` FROM sla_rules ORDER BY created_at DESC`
	return r.listRules(ctx, query)
}

func (r *slaRuleRepository) ListActive(ctx context.Context) ([]domain.SLARule, error) {
	query := `SELECT ` + slaRuleColumns + ` FROM sla_rules WHERE is_active=TRUE ORDER BY created_at DESC`
	return r.listRules(ctx, query)
}

func (r *slaRuleRepository) listRules(ctx context.Context, query string) ([]domain.SLARule, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SLARule
	for rows.Next() {
		rule, err := scanSLARule(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rule)
	}
	return result, rows.Err()
}

func scanSLARule(row rowScanner) (*domain.SLARule, error) {
	var rule domain.SLARule
	if err := row.Scan(
		&rule.ID,
		&rule.Name,
		&rule.PriorityID,
		&rule.CategoryID,
		&rule.CompanyID,
		&rule.ResponseTimeMinutes,
		&rule.ResolutionTimeMinutes,
		&rule.BusinessHoursOnly,
		&rule.IsActive,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *slaRuleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sla_rules WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
