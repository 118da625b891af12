package dto

import (
	"strings"
	"time"

	"github.com/queuedesk/queuedesk-api/internal/domain"
	"github.com/queuedesk/queuedesk-api/internal/service"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=120"`
	Description string `json:"description" validate:"required,min=10,max=2000"`
	Category    string `json:"category" validate:"required,min=2,max=60"`
	Priority    string `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH URGENT"`
}

// Normalize trims text fields so length limits apply to the stored value.
func (r *CreateTicketRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)
	r.Priority = normalizePriority(r.Priority)
}

// ToInput converts the request for the ticket service.
func (r CreateTicketRequest) ToInput() service.TicketCreateInput {
	return service.TicketCreateInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Priority:    domain.TicketPriority(r.Priority),
	}
}

// UpdateTicketRequest is a partial update; omitted fields are untouched.
type UpdateTicketRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=120"`
	Description *string `json:"description" validate:"omitempty,min=10,max=2000"`
	Category    *string `json:"category" validate:"omitempty,min=2,max=60"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
}

// Normalize trims present fields.
func (r *UpdateTicketRequest) Normalize() {
	trimPtr(r.Title)
	trimPtr(r.Description)
	trimPtr(r.Category)
	if r.Priority != nil {
		*r.Priority = normalizePriority(*r.Priority)
	}
}

// ToInput converts the request for the ticket service.
func (r UpdateTicketRequest) ToInput() service.TicketUpdateInput {
	input := service.TicketUpdateInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
	}
	if r.Priority != nil {
		priority := domain.TicketPriority(*r.Priority)
		input.Priority = &priority
	}
	return input
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
}

// Normalize upper-cases the status.
func (r *UpdateStatusRequest) Normalize() {
	r.Status = normalizeStatus(r.Status)
}

// TicketListQuery captures listing query parameters. Sort keys are not
// validated here; unknown values fall back to the default order.
type TicketListQuery struct {
	Status   string `query:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	Priority string `query:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Category string `query:"category" validate:"omitempty,max=60"`
	Q        string `query:"q" validate:"omitempty,max=200"`
	SortBy   string `query:"sort_by"`
	SortDir  string `query:"sort_dir"`
	Page     *int   `query:"page" validate:"omitempty,min=1"`
	Limit    *int   `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Normalize upper-cases enum filters.
func (q *TicketListQuery) Normalize() {
	q.Status = normalizeStatus(q.Status)
	q.Priority = normalizePriority(q.Priority)
}

// ToParams converts the query for the ticket service.
func (q TicketListQuery) ToParams() service.ListTicketsParams {
	params := service.ListTicketsParams{SortBy: q.SortBy, SortDir: q.SortDir}
	if q.Status != "" {
		status := domain.TicketStatus(q.Status)
		params.Status = &status
	}
	if q.Priority != "" {
		priority := domain.TicketPriority(q.Priority)
		params.Priority = &priority
	}
	if q.Category != "" {
		category := q.Category
		params.Category = &category
	}
	if q.Q != "" {
		term := q.Q
		params.Q = &term
	}
	if q.Page != nil {
		params.Page = *q.Page
	}
	if q.Limit != nil {
		params.Limit = *q.Limit
	}
	return params
}

// TicketResponse is the ticket representation returned by every ticket endpoint.
type TicketResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	CreatedByID string                `json:"created_by_id"`
	CreatedBy   *UserSummaryResponse  `json:"created_by,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	DueAt       time.Time             `json:"due_at"`
	IsOverdue   bool                  `json:"is_overdue"`
}

// TicketListResponse is one page of tickets.
type TicketListResponse struct {
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Total int              `json:"total"`
	Items []TicketResponse `json:"items"`
}

// DeleteResponse acknowledges a removal.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// NewTicketResponse maps a service view.
func NewTicketResponse(view *service.TicketView) TicketResponse {
	resp := TicketResponse{
		ID:          view.ID,
		Title:       view.Title,
		Description: view.Description,
		Category:    view.Category,
		Priority:    view.Priority,
		Status:      view.Status,
		CreatedByID: view.CreatedByID,
		CreatedAt:   view.CreatedAt,
		UpdatedAt:   view.UpdatedAt,
		DueAt:       view.DueAt,
		IsOverdue:   view.IsOverdue,
	}
	if view.CreatedBy != nil {
		summary := NewUserSummaryResponse(*view.CreatedBy)
		resp.CreatedBy = &summary
	}
	return resp
}

// NewTicketListResponse maps a service page.
func NewTicketListResponse(page *service.TicketPage) TicketListResponse {
	items := make([]TicketResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, NewTicketResponse(&page.Items[i]))
	}
	return TicketListResponse{Page: page.Page, Limit: page.Limit, Total: page.Total, Items: items}
}

// normalizeStatus canonicalizes casing; unknown values are left for the
// validator to reject.
func normalizeStatus(raw string) string {
	status, _ := domain.ParseTicketStatus(raw)
	return string(status)
}

func normalizePriority(raw string) string {
	priority, _ := domain.ParseTicketPriority(raw)
	return string(priority)
}

func trimPtr(value *string) {
	if value != nil {
		*value = strings.TrimSpace(*value)
	}
}
