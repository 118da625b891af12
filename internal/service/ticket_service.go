package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/queuedesk/queuedesk-api/internal/domain"
	"github.com/queuedesk/queuedesk-api/internal/events"
	"github.com/queuedesk/queuedesk-api/internal/policy"
	"github.com/queuedesk/queuedesk-api/internal/repository"
	apperrors "github.com/queuedesk/queuedesk-api/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      func() time.Time
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    domain.TicketPriority
}

// TicketUpdateInput is a partial update; nil fields are left untouched.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *domain.TicketPriority
}

// TicketView is a ticket as returned to callers, with overdue computed at read time.
type TicketView struct {
	domain.Ticket
	IsOverdue bool
}

// TicketPage is one page of a listing.
type TicketPage struct {
	Page  int
	Limit int
	Total int
	Items []TicketView
}

// DeleteResult acknowledges a removal.
type DeleteResult struct {
	Deleted bool
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        clock,
	}
}

// CreateTicket opens a ticket owned by caller.
func (s *TicketService) CreateTicket(ctx context.Context, caller domain.Caller, input TicketCreateInput) (*TicketView, error) {
	if !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": "must be one of LOW, MEDIUM, HIGH, URGENT"})
	}

	now := s.now()
	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		Priority:    input.Priority,
		Status:      domain.TicketStatusOpen,
		CreatedByID: caller.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
		DueAt:       domain.ComputeDueAt(now, input.Priority),
	}

	if err := s.tickets.Insert(ctx, ticket); err != nil {
		return nil, mapStoreError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actorOf(caller),
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Category: ticket.Category,
			Priority: ticket.Priority,
			DueAt:    ticket.DueAt,
		},
	})
	return s.view(ticket), nil
}

// ListTickets returns one page of tickets visible to caller. The page and the
// total are fetched concurrently with the same filter.
func (s *TicketService) ListTickets(ctx context.Context, caller domain.Caller, params ListTicketsParams) (*TicketPage, error) {
	query := BuildTicketQuery(caller, params)

	var (
		items []domain.Ticket
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.tickets.FindMany(gctx, query.Filter, query.Sort, query.Offset, query.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.tickets.Count(gctx, query.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, mapStoreError(err)
	}

	page := &TicketPage{
		Page:  query.Page,
		Limit: query.Limit,
		Total: total,
		Items: make([]TicketView, 0, len(items)),
	}
	for i := range items {
		page.Items = append(page.Items, *s.view(&items[i]))
	}
	return page, nil
}

// GetTicket fetches a ticket the caller may view.
func (s *TicketService) GetTicket(ctx context.Context, caller domain.Caller, ticketID string) (*TicketView, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(caller, ticket) {
		return nil, apperrors.NewForbidden("you do not have access to this ticket")
	}
	return s.view(ticket), nil
}

// UpdateTicket applies a partial update. A new priority recomputes the due
// date from the original creation time.
func (s *TicketService) UpdateTicket(ctx context.Context, caller domain.Caller, ticketID string, input TicketUpdateInput) (*TicketView, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutateFields(caller, ticket) {
		return nil, apperrors.NewForbidden("you cannot edit this ticket")
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": "must be one of LOW, MEDIUM, HIGH, URGENT"})
	}

	patch := repository.TicketPatch{UpdatedAt: s.now()}
	fields := []string{}
	if input.Title != nil {
		patch.Title = trimmed(*input.Title)
		fields = append(fields, "title")
	}
	if input.Description != nil {
		patch.Description = trimmed(*input.Description)
		fields = append(fields, "description")
	}
	if input.Category != nil {
		patch.Category = trimmed(*input.Category)
		fields = append(fields, "category")
	}
	payload := events.TicketUpdatedPayload{}
	if input.Priority != nil {
		priority := *input.Priority
		dueAt := domain.ComputeDueAt(ticket.CreatedAt, priority)
		patch.Priority = &priority
		patch.DueAt = &dueAt
		fields = append(fields, "priority")
		old := ticket.Priority
		payload.OldPriority = &old
		payload.NewPriority = &priority
	}
	payload.Fields = fields

	updated, err := s.tickets.Update(ctx, ticket.ID, patch)
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: updated.ID,
		Actor:    actorOf(caller),
		Payload:  payload,
	})
	return s.view(updated), nil
}

// UpdateStatus moves a ticket to any status. Owner or admin only.
func (s *TicketService) UpdateStatus(ctx context.Context, caller domain.Caller, ticketID string, status domain.TicketStatus) (*TicketView, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanChangeStatus(caller, ticket) {
		return nil, apperrors.NewForbidden("you cannot change the status of this ticket")
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": "must be one of OPEN, IN_PROGRESS, RESOLVED, CLOSED"})
	}

	updated, err := s.tickets.Update(ctx, ticket.ID, repository.TicketPatch{Status: &status, UpdatedAt: s.now()})
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: updated.ID,
		Actor:    actorOf(caller),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: ticket.Status,
			NewStatus: updated.Status,
		},
	})
	return s.view(updated), nil
}

// RemoveTicket permanently deletes a ticket.
func (s *TicketService) RemoveTicket(ctx context.Context, caller domain.Caller, ticketID string) (*DeleteResult, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanDelete(caller, ticket) {
		return nil, apperrors.NewForbidden("you cannot delete this ticket")
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		return nil, mapStoreError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
		Actor:    actorOf(caller),
		Payload:  events.TicketDeletedPayload{OwnerID: ticket.CreatedByID},
	})
	return &DeleteResult{Deleted: true}, nil
}

// loadTicket resolves the ticket before any access check so a missing id is
// always reported as not found.
func (s *TicketService) loadTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return ticket, nil
}

func (s *TicketService) view(ticket *domain.Ticket) *TicketView {
	return &TicketView{Ticket: *ticket, IsOverdue: ticket.OverdueAt(s.now())}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func actorOf(caller domain.Caller) events.Actor {
	return events.Actor{UserID: caller.UserID, Role: caller.Role}
}

func trimmed(value string) *string {
	value = strings.TrimSpace(value)
	return &value
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, repository.ErrTicketNotFound):
		return apperrors.NewNotFound("ticket", nil)
	case errors.Is(err, repository.ErrUserNotFound):
		return apperrors.NewNotFound("user", nil)
	default:
		return err
	}
}
