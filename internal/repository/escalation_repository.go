package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// EscalationRuleRepository manages escalation trigger rules.
type EscalationRuleRepository interface {
	Create(ctx context.Context, rule *domain.EscalationRule) error
	Update(ctx context.Context, rule *domain.EscalationRule) error
	GetByID(ctx context.Context, id string) (*domain.EscalationRule, error)
	List(ctx context.Context) ([]domain.EscalationRule, error)
	ListActive(ctx context.Context) ([]domain.EscalationRule, error)
	Delete(ctx context.Context, id string) error
}

// EscalationRecordRepository tracks fired escalations so the evaluator
// stays at-most-once per ticket and rule.
type EscalationRecordRepository interface {
	Create(ctx context.Context, record *domain.EscalationRecord) error
	Exists(ctx context.Context, ticketID, ruleID string) (bool, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.EscalationRecord, error)
}

type escalationRuleRepository struct {
	pool *pgxpool.Pool
}

// NewEscalationRuleRepository builds repository.
func NewEscalationRuleRepository(pool *pgxpool.Pool) EscalationRuleRepository {
	return &escalationRuleRepository{pool: pool}
}

const escalationRuleColumns = `id, name, sla_rule_id, priority_id, category_id, trigger_minutes,
               action, notify_user_ids, notify_role_ids, reassign_to_id, is_active, created_at, updated_at`

func (r *escalationRuleRepository) Create(ctx context.Context, rule *domain.EscalationRule) error {
	const query = `
        INSERT INTO escalation_rules (name, sla_rule_id, priority_id, category_id, trigger_minutes,
            action, notify_user_ids, notify_role_ids, reassign_to_id, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		rule.Name,
		rule.SLARuleID,
		rule.PriorityID,
		rule.CategoryID,
		rule.TriggerMinutes,
		rule.Action,
		rule.NotifyUserIDs,
		rule.NotifyRoleIDs,
		rule.ReassignToID,
		rule.IsActive,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
}

func (r *escalationRuleRepository) Update(ctx context.Context, rule *domain.EscalationRule) error {
	const query = `
        UPDATE escalation_rules SET name=$1, sla_rule_id=$2, priority_id=$3, category_id=$4,
            trigger_minutes=$5, action=$6, notify_user_ids=$7, notify_role_ids=$8,
            reassign_to_id=$9, is_active=$10, updated_at=NOW()
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		rule.Name,
		rule.SLARuleID,
		rule.PriorityID,
		rule.CategoryID,
		rule.TriggerMinutes,
		rule.Action,
		rule.NotifyUserIDs,
		rule.NotifyRoleIDs,
		rule.ReassignToID,
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

func (r *escalationRuleRepository) GetByID(ctx context.Context, id string) (*domain.EscalationRule, error) {
	query := `SELECT ` + escalationRuleColumns + ` FROM escalation_rules WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanEscalationRule(row)
}

func (r *escalationRuleRepository) List(ctx context.Context) ([]domain.EscalationRule, error) {
	query := `SELECT ` + escalationRuleColumns + ` FROM escalation_rules ORDER BY trigger_minutes ASC`
	return r.listRules(ctx, query)
}

func (r *escalationRuleRepository) ListActive(ctx context.Context) ([]domain.EscalationRule, error) {
	query := `SELECT ` + escalationRuleColumns + ` FROM escalation_rules WHERE is_active=TRUE ORDER BY trigger_minutes ASC`
	return r.listRules(ctx, query)
}

func (r *escalationRuleRepository) listRules(ctx context.Context, query string) ([]domain.EscalationRule, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EscalationRule
	for rows.Next() {
		rule, err := scanEscalationRule(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rule)
	}
	return result, rows.Err()
}

func scanEscalationRule(row rowScanner) (*domain.EscalationRule, error) {
	var rule domain.EscalationRule
	if err := row.Scan(
		&rule.ID,
		&rule.Name,
		&rule.SLARuleID,
		&rule.PriorityID,
		&rule.CategoryID,
		&rule.TriggerMinutes,
		&rule.Action,
		&rule.NotifyUserIDs,
		&rule.NotifyRoleIDs,
		&rule.ReassignToID,
		&rule.IsActive,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *escalationRuleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM escalation_rules WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type escalationRecordRepository struct {
	pool *pgxpool.Pool
}

// NewEscalationRecordRepository builds repository.
func NewEscalationRecordRepository(pool *pgxpool.Pool) EscalationRecordRepository {
	return &escalationRecordRepository{pool: pool}
}

func (r *escalationRecordRepository) Create(ctx context.Context, record *domain.EscalationRecord) error {
	const query = `
        INSERT INTO escalation_records (ticket_id, rule_id, action, fired_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		record.TicketID,
		record.RuleID,
		record.Action,
		record.FiredAt,
	).Scan(&record.ID, &record.CreatedAt)
}

func (r *escalationRecordRepository) Exists(ctx context.Context, ticketID, ruleID string) (bool, error) {
	const query = `
        SELECT EXISTS (SELECT 1 FROM escalation_records WHERE ticket_id=$1 AND rule_id=$2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, ticketID, ruleID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *escalationRecordRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.EscalationRecord, error) {
	const query = `
        SELECT id, ticket_id, rule_id, action, fired_at, created_at
        FROM escalation_records WHERE ticket_id=$1 ORDER BY fired_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EscalationRecord
	for rows.Next() {
		var record domain.EscalationRecord
		if err := rows.Scan(
			&record.ID,
			&record.TicketID,
			&record.RuleID,
			&record.Action,
			&record.FiredAt,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
