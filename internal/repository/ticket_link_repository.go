package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// TicketLinkRepository persists directed edges between tickets.
type TicketLinkRepository interface {
	Create(ctx context.Context, link *domain.TicketLink) error
	// ExistsBetween reports whether an edge exists between the pair in
	// either direction.
	ExistsBetween(ctx context.Context, ticketA, ticketB string) (bool, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketLink, error)
	Delete(ctx context.Context, id string) error
}

type ticketLinkRepository struct {
	pool *pgxpool.Pool
}

// NewTicketLinkRepository builds repository.
func NewTicketLinkRepository(pool *pgxpool.Pool) TicketLinkRepository {
	return &ticketLinkRepository{pool: pool}
}

func (r *ticketLinkRepository) Create(ctx context.Context, link *domain.TicketLink) error {
	const query = `
        INSERT INTO ticket_links (source_ticket_id, target_ticket_id, link_type, created_by_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		link.SourceTicketID,
		link.TargetTicketID,
		link.LinkType,
		link.CreatedByID,
	).Scan(&link.ID, &link.CreatedAt)
}

func (r *ticketLinkRepository) ExistsBetween(ctx context.Context, ticketA, ticketB string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM ticket_links
            WHERE (source_ticket_id=$1 AND target_ticket_id=$2)
               OR (source_ticket_id=$2 AND target_ticket_id=$1)
        )`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, ticketA, ticketB).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ticketLinkRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketLink, error) {
	const query = `
        SELECT id, source_ticket_id, target_ticket_id, link_type, created_by_id, created_at
        FROM ticket_links
        WHERE source_ticket_id=$1 OR target_ticket_id=$1
        ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketLink
	for rows.Next() {
		var link domain.TicketLink
		if err := rows.Scan(
			&link.ID,
			&link.SourceTicketID,
			&link.TargetTicketID,
			&link.LinkType,
			&link.CreatedByID,
			&link.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, link)
	}
	return result, rows.Err()
}

func (r *ticketLinkRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM ticket_links WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
