package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/queuedesk/queuedesk-api/internal/domain"
	"github.com/queuedesk/queuedesk-api/internal/repository"
	"github.com/queuedesk/queuedesk-api/internal/service"
)

type countingRepo struct {
	repository.TicketRepository
	finds int
}

func (r *countingRepo) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.finds++
	return r.TicketRepository.FindByID(ctx, id)
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func seedTicket(t *testing.T, store *repository.MemoryStore) *domain.Ticket {
	t.Helper()
	ctx := context.Background()
	user := &domain.User{Email: "owner@example.com", PasswordHash: "hash", Role: domain.RoleUser}
	require.NoError(t, store.Users().Create(ctx, user))

	createdAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	ticket := &domain.Ticket{
		Title:       "Laptop will not boot",
		Description: "Black screen after the update",
		Category:    "Hardware",
		Priority:    domain.TicketPriorityUrgent,
		Status:      domain.TicketStatusOpen,
		CreatedByID: user.ID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
		DueAt:       domain.ComputeDueAt(createdAt, domain.TicketPriorityUrgent),
	}
	require.NoError(t, store.Tickets().Insert(ctx, ticket))
	return ticket
}

func TestTicketCache_ReadThrough(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := repository.NewMemoryStore()
	ticket := seedTicket(t, store)
	inner := &countingRepo{TicketRepository: store.Tickets()}
	repo := NewTicketCache(inner, client, time.Minute, zap.NewNop())
	ctx := context.Background()

	first, err := repo.FindByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(ticketKey(ticket.ID)))

	second, err := repo.FindByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.finds)
	assert.Equal(t, first.Title, second.Title)
	assert.True(t, first.DueAt.Equal(second.DueAt))
	require.NotNil(t, second.CreatedBy)
	assert.Equal(t, "owner@example.com", second.CreatedBy.Email)

	mr.FastForward(2 * time.Minute)
	_, err = repo.FindByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.finds)
}

func TestTicketCache_MissIsNotCached(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewTicketCache(repository.NewMemoryStore().Tickets(), client, time.Minute, zap.NewNop())

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrTicketNotFound)
	assert.False(t, mr.Exists(ticketKey("missing")))
}

func TestTicketCache_WritesRefreshEntry(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := repository.NewMemoryStore()
	ticket := seedTicket(t, store)
	inner := &countingRepo{TicketRepository: store.Tickets()}
	repo := NewTicketCache(inner, client, time.Minute, zap.NewNop())
	ctx := context.Background()

	_, err := repo.FindByID(ctx, ticket.ID)
	require.NoError(t, err)

	resolved := domain.TicketStatusResolved
	_, err = repo.Update(ctx, ticket.ID, repository.TicketPatch{Status: &resolved, UpdatedAt: ticket.CreatedAt.Add(time.Hour)})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, got.Status)
	assert.Equal(t, 1, inner.finds)

	require.NoError(t, repo.Delete(ctx, ticket.ID))
	assert.False(t, mr.Exists(ticketKey(ticket.ID)))
	_, err = repo.FindByID(ctx, ticket.ID)
	assert.ErrorIs(t, err, repository.ErrTicketNotFound)
}

func TestTicketCache_FallsBackWhenRedisDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 50 * time.Millisecond})
	t.Cleanup(func() { client.Close() })
	store := repository.NewMemoryStore()
	ticket := seedTicket(t, store)
	repo := NewTicketCache(store.Tickets(), client, time.Minute, zap.NewNop())

	got, err := repo.FindByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)
}

func TestTicketCache_CorruptEntryIsDiscarded(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := repository.NewMemoryStore()
	ticket := seedTicket(t, store)
	repo := NewTicketCache(store.Tickets(), client, time.Minute, zap.NewNop())

	require.NoError(t, mr.Set(ticketKey(ticket.ID), "{not json"))

	got, err := repo.FindByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.Title, got.Title)
}

func TestNewTicketCache_Disabled(t *testing.T) {
	inner := repository.NewMemoryStore().Tickets()
	assert.Same(t, inner, NewTicketCache(inner, nil, time.Minute, nil))

	_, client := setupTestRedis(t)
	assert.Same(t, inner, NewTicketCache(inner, client, 0, nil))
}

func TestTicketCache_OverdueIsComputedAfterCacheHit(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := repository.NewMemoryStore()
	ticket := seedTicket(t, store)
	inner := &countingRepo{TicketRepository: store.Tickets()}

	now := ticket.CreatedAt.Add(time.Hour)
	svc := service.NewTicketService(service.TicketDependencies{
		TicketRepo: NewTicketCache(inner, client, time.Hour, zap.NewNop()),
		Clock:      func() time.Time { return now },
	})
	owner := domain.Caller{UserID: ticket.CreatedByID, Role: domain.RoleUser}
	ctx := context.Background()

	fresh, err := svc.GetTicket(ctx, owner, ticket.ID)
	require.NoError(t, err)
	assert.False(t, fresh.IsOverdue)
	cached, err := mr.Get(ticketKey(ticket.ID))
	require.NoError(t, err)

	now = ticket.DueAt.Add(time.Minute)
	late, err := svc.GetTicket(ctx, owner, ticket.ID)
	require.NoError(t, err)
	assert.True(t, late.IsOverdue)

	assert.Equal(t, 1, inner.finds)
	stillCached, err := mr.Get(ticketKey(ticket.ID))
	require.NoError(t, err)
	assert.Equal(t, cached, stillCached)
}
