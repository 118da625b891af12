package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/queuedesk/queuedesk-api/internal/domain"
)

// MemoryStore keeps users and tickets in process memory. It backs the
// service when no POSTGRES_DSN is configured and mirrors the filtering and
// ordering rules of the Postgres repositories.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	tickets map[string]domain.Ticket
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]domain.User),
		tickets: make(map[string]domain.Ticket),
	}
}

// Users returns the user repository view of the store.
func (s *MemoryStore) Users() UserRepository {
	return &memoryUserRepository{store: s}
}

// Tickets returns the ticket repository view of the store.
func (s *MemoryStore) Tickets() TicketRepository {
	return &memoryTicketRepository{store: s}
}

type memoryUserRepository struct {
	store *MemoryStore
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user.Email = domain.NormalizeEmail(user.Email)
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return ErrEmailTaken
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.store.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	email = domain.NormalizeEmail(email)
	for _, user := range r.store.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

type memoryTicketRepository struct {
	store *MemoryStore
}

func (r *memoryTicketRepository) FindByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ticket, ok := r.store.tickets[id]
	if !ok {
		return nil, ErrTicketNotFound
	}
	return r.withCreator(ticket), nil
}

func (r *memoryTicketRepository) FindMany(_ context.Context, filter TicketFilter, order TicketSort, offset, limit int) ([]domain.Ticket, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matches := r.matching(filter)
	sort.SliceStable(matches, func(i, j int) bool {
		return ticketLess(matches[i], matches[j], order)
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(matches) {
		return []domain.Ticket{}, nil
	}
	end := len(matches)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	result := make([]domain.Ticket, 0, end-offset)
	for _, ticket := range matches[offset:end] {
		result = append(result, *r.withCreator(ticket))
	}
	return result, nil
}

func (r *memoryTicketRepository) Count(_ context.Context, filter TicketFilter) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.matching(filter)), nil
}

func (r *memoryTicketRepository) Insert(_ context.Context, ticket *domain.Ticket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[ticket.CreatedByID]; !ok {
		return ErrUserNotFound
	}
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	stored := *ticket
	stored.CreatedBy = nil
	r.store.tickets[stored.ID] = stored
	*ticket = *r.withCreator(stored)
	return nil
}

func (r *memoryTicketRepository) Update(_ context.Context, id string, patch TicketPatch) (*domain.Ticket, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ticket, ok := r.store.tickets[id]
	if !ok {
		return nil, ErrTicketNotFound
	}
	if patch.Title != nil {
		ticket.Title = *patch.Title
	}
	if patch.Description != nil {
		ticket.Description = *patch.Description
	}
	if patch.Category != nil {
		ticket.Category = *patch.Category
	}
	if patch.Priority != nil {
		ticket.Priority = *patch.Priority
	}
	if patch.Status != nil {
		ticket.Status = *patch.Status
	}
	if patch.DueAt != nil {
		ticket.DueAt = *patch.DueAt
	}
	ticket.UpdatedAt = patch.UpdatedAt
	if ticket.UpdatedAt.IsZero() {
		ticket.UpdatedAt = time.Now()
	}
	r.store.tickets[id] = ticket
	return r.withCreator(ticket), nil
}

func (r *memoryTicketRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.tickets[id]; !ok {
		return ErrTicketNotFound
	}
	delete(r.store.tickets, id)
	return nil
}

// matching must be called with the store lock held.
func (r *memoryTicketRepository) matching(filter TicketFilter) []domain.Ticket {
	term := strings.ToLower(searchTerm(filter))
	result := []domain.Ticket{}
	for _, ticket := range r.store.tickets {
		if filter.CreatedByID != nil && ticket.CreatedByID != *filter.CreatedByID {
			continue
		}
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && ticket.Priority != *filter.Priority {
			continue
		}
		if filter.Category != nil && !strings.EqualFold(ticket.Category, *filter.Category) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(ticket.Title), term) &&
			!strings.Contains(strings.ToLower(ticket.Description), term) {
			continue
		}
		result = append(result, ticket)
	}
	return result
}

// withCreator must be called with the store lock held.
func (r *memoryTicketRepository) withCreator(ticket domain.Ticket) *domain.Ticket {
	if user, ok := r.store.users[ticket.CreatedByID]; ok {
		summary := user.Summary()
		ticket.CreatedBy = &summary
	}
	return &ticket
}

func ticketLess(a, b domain.Ticket, order TicketSort) bool {
	cmp := compareTickets(a, b, order.Field)
	if cmp == 0 {
		return a.ID < b.ID
	}
	if order.Direction == SortAsc {
		return cmp < 0
	}
	return cmp > 0
}

func compareTickets(a, b domain.Ticket, field SortField) int {
	switch field {
	case SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case SortByDueAt:
		return a.DueAt.Compare(b.DueAt)
	case SortByPriority:
		return rankOf(a.Priority.Rank(), len(domain.TicketPriorities)) - rankOf(b.Priority.Rank(), len(domain.TicketPriorities))
	case SortByStatus:
		return rankOf(a.Status.Rank(), len(domain.TicketStatuses)) - rankOf(b.Status.Rank(), len(domain.TicketStatuses))
	case SortByCategory:
		return strings.Compare(a.Category, b.Category)
	case SortByTitle:
		return strings.Compare(a.Title, b.Title)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// rankOf places unknown enum values last, like the SQL CASE expression.
func rankOf(rank, unknown int) int {
	if rank < 0 {
		return unknown
	}
	return rank
}
