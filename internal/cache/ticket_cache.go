package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/queuedesk/queuedesk-api/internal/domain"
	"github.com/queuedesk/queuedesk-api/internal/repository"
)

const keyTicket = "ticket:"

// TicketCache is a read-through Redis cache in front of a TicketRepository.
// Only single-ticket reads are cached; writes to a ticket drop its entry.
// Redis failures are logged and the call falls through to the repository.
type TicketCache struct {
	inner  repository.TicketRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewTicketCache wraps inner. A nil client or non-positive ttl returns inner
// unchanged.
func NewTicketCache(inner repository.TicketRepository, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) repository.TicketRepository {
	if rdb == nil || ttl <= 0 {
		return inner
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketCache{inner: inner, rdb: rdb, ttl: ttl, logger: logger}
}

func ticketKey(id string) string {
	return keyTicket + id
}

func (c *TicketCache) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if ticket, ok := c.get(ctx, id); ok {
		return ticket, nil
	}

	ticket, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, ticket)
	return ticket, nil
}

func (c *TicketCache) FindMany(ctx context.Context, filter repository.TicketFilter, sort repository.TicketSort, offset, limit int) ([]domain.Ticket, error) {
	return c.inner.FindMany(ctx, filter, sort, offset, limit)
}

func (c *TicketCache) Count(ctx context.Context, filter repository.TicketFilter) (int, error) {
	return c.inner.Count(ctx, filter)
}

func (c *TicketCache) Insert(ctx context.Context, ticket *domain.Ticket) error {
	return c.inner.Insert(ctx, ticket)
}

func (c *TicketCache) Update(ctx context.Context, id string, patch repository.TicketPatch) (*domain.Ticket, error) {
	c.invalidate(ctx, id)
	ticket, err := c.inner.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	c.set(ctx, ticket)
	return ticket, nil
}

func (c *TicketCache) Delete(ctx context.Context, id string) error {
	err := c.inner.Delete(ctx, id)
	c.invalidate(ctx, id)
	return err
}

func (c *TicketCache) get(ctx context.Context, id string) (*domain.Ticket, bool) {
	b, err := c.rdb.Get(ctx, ticketKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("ticket cache read failed", zap.String("ticket_id", id), zap.Error(err))
		return nil, false
	}
	var ticket domain.Ticket
	if err := json.Unmarshal(b, &ticket); err != nil {
		c.logger.Warn("discarding corrupt ticket cache entry", zap.String("ticket_id", id), zap.Error(err))
		c.invalidate(ctx, id)
		return nil, false
	}
	return &ticket, true
}

func (c *TicketCache) set(ctx context.Context, ticket *domain.Ticket) {
	b, err := json.Marshal(ticket)
	if err != nil {
		c.logger.Warn("ticket cache encode failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, ticketKey(ticket.ID), b, c.ttl).Err(); err != nil {
		c.logger.Warn("ticket cache write failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}
}

func (c *TicketCache) invalidate(ctx context.Context, id string) {
	if err := c.rdb.Del(ctx, ticketKey(id)).Err(); err != nil {
		c.logger.Warn("ticket cache invalidation failed", zap.String("ticket_id", id), zap.Error(err))
	}
}
