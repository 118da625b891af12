package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/queuedesk/queuedesk-api/internal/domain"
	"github.com/queuedesk/queuedesk-api/internal/persistence"
)

// Requires POSTGRES_TEST_DSN pointing at a disposable database.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	require.NoError(t, persistence.RunMigrations(dsn, zap.NewNop()))

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE tickets, users`)
	require.NoError(t, err)
	return pool
}

func TestPostgresRepositories(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	tickets := NewTicketRepository(pool)

	owner := &domain.User{Email: "Owner@Example.com", PasswordHash: "hash", Role: domain.RoleUser}
	require.NoError(t, users.Create(ctx, owner))
	assert.Equal(t, "owner@example.com", owner.Email)
	assert.ErrorIs(t, users.Create(ctx, &domain.User{Email: "owner@example.com", PasswordHash: "x", Role: domain.RoleUser}), ErrEmailTaken)

	createdAt := time.Now().UTC().Truncate(time.Millisecond)
	ticket := &domain.Ticket{
		Title:       "VPN down",
		Description: "Cannot reach the 100% uptime_dashboard",
		Category:    "Network",
		Priority:    domain.TicketPriorityHigh,
		Status:      domain.TicketStatusOpen,
		CreatedByID: owner.ID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
		DueAt:       domain.ComputeDueAt(createdAt, domain.TicketPriorityHigh),
	}
	require.NoError(t, tickets.Insert(ctx, ticket))
	require.NotNil(t, ticket.CreatedBy)
	assert.Equal(t, owner.Email, ticket.CreatedBy.Email)

	orphan := *ticket
	orphan.ID = ""
	orphan.CreatedByID = "missing"
	assert.ErrorIs(t, tickets.Insert(ctx, &orphan), ErrUserNotFound)

	total, err := tickets.Count(ctx, TicketFilter{Category: ptr("network"), SearchTerm: ptr("100% UPTIME_")})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	items, err := tickets.FindMany(ctx, TicketFilter{CreatedByID: &owner.ID}, TicketSort{Field: SortByPriority, Direction: SortAsc}, 0, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)

	updated, err := tickets.Update(ctx, ticket.ID, TicketPatch{Status: ptr(domain.TicketStatusResolved), UpdatedAt: createdAt.Add(time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, updated.Status)
	assert.Equal(t, ticket.Title, updated.Title)

	_, err = tickets.Update(ctx, "missing", TicketPatch{})
	assert.ErrorIs(t, err, ErrTicketNotFound)

	require.NoError(t, tickets.Delete(ctx, ticket.ID))
	_, err = tickets.FindByID(ctx, ticket.ID)
	assert.ErrorIs(t, err, ErrTicketNotFound)
}
