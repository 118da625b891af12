package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/queuedesk/queuedesk-api/internal/domain"
)

// TicketFilter narrows ticket listings. Nil fields are not applied.
type TicketFilter struct {
	CreatedByID *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	Category    *string
	SearchTerm  *string
}

// TicketPatch carries a partial update. Nil fields are left untouched;
// UpdatedAt is always written.
type TicketPatch struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *domain.TicketPriority
	Status      *domain.TicketStatus
	DueAt       *time.Time
	UpdatedAt   time.Time
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Ticket, error)
	FindMany(ctx context.Context, filter TicketFilter, sort TicketSort, offset, limit int) ([]domain.Ticket, error)
	Count(ctx context.Context, filter TicketFilter) (int, error)
	Insert(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, id string, patch TicketPatch) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the Postgres-backed repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketSelectColumns = `
        t.id, t.title, t.description, t.category, t.priority, t.status, t.created_by_id,
        t.created_at, t.updated_at, t.due_at,
        u.id, u.email, u.full_name, u.role`

func (r *ticketRepository) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT` + ticketSelectColumns + `
        FROM tickets t JOIN users u ON u.id = t.created_by_id
        WHERE t.id=$1`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	return ticket, err
}

func (r *ticketRepository) FindMany(ctx context.Context, filter TicketFilter, sort TicketSort, offset, limit int) ([]domain.Ticket, error) {
	where, args := buildTicketWhere(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s
        FROM tickets t JOIN users u ON u.id = t.created_by_id
        WHERE %s
        ORDER BY %s
        LIMIT $%d OFFSET $%d`,
		ticketSelectColumns, where, buildTicketOrderBy(sort), len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) Count(ctx context.Context, filter TicketFilter) (int, error) {
	where, args := buildTicketWhere(filter)
	query := `SELECT COUNT(*) FROM tickets t WHERE ` + where

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *ticketRepository) Insert(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	query := `
        WITH t AS (
            INSERT INTO tickets (id, title, description, category, priority, status, created_by_id, created_at, updated_at, due_at)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
            RETURNING *
        )
        SELECT` + ticketSelectColumns + `
        FROM t JOIN users u ON u.id = t.created_by_id`

	stored, err := scanTicket(r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		string(ticket.Priority),
		string(ticket.Status),
		ticket.CreatedByID,
		ticket.CreatedAt,
		ticket.UpdatedAt,
		ticket.DueAt,
	))
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return ErrUserNotFound
		}
		return err
	}
	*ticket = *stored
	return nil
}

func (r *ticketRepository) Update(ctx context.Context, id string, patch TicketPatch) (*domain.Ticket, error) {
	sets := []string{}
	args := []any{}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.Priority != nil {
		set("priority", string(*patch.Priority))
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.DueAt != nil {
		set("due_at", *patch.DueAt)
	}
	updatedAt := patch.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	set("updated_at", updatedAt)

	args = append(args, id)
	query := fmt.Sprintf(`
        WITH t AS (
            UPDATE tickets SET %s WHERE id=$%d
            RETURNING *
        )
        SELECT %s
        FROM t JOIN users u ON u.id = t.created_by_id`,
		strings.Join(sets, ", "), len(args), ticketSelectColumns)

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	return ticket, err
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTicketNotFound
	}
	return nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket   domain.Ticket
		creator  domain.UserSummary
		priority string
		status   string
		role     string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Category,
		&priority,
		&status,
		&ticket.CreatedByID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.DueAt,
		&creator.ID,
		&creator.Email,
		&creator.FullName,
		&role,
	); err != nil {
		return nil, err
	}
	ticket.Priority = domain.TicketPriority(priority)
	ticket.Status = domain.TicketStatus(status)
	creator.Role = domain.Role(role)
	ticket.CreatedBy = &creator
	return &ticket, nil
}
