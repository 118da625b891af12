package service

import (
	"math"
	"strings"

	"github.com/queuedesk/queuedesk-api/internal/domain"
	"github.com/queuedesk/queuedesk-api/internal/repository"
)

// Listing defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListTicketsParams carries raw listing options. Zero values select defaults.
type ListTicketsParams struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
	Category *string
	Q        *string
	SortBy   string
	SortDir  string
	Page     int
	Limit    int
}

// TicketQuery is a normalized listing request ready for the repository.
type TicketQuery struct {
	Filter repository.TicketFilter
	Sort   repository.TicketSort
	Page   int
	Limit  int
	Offset int
}

// BuildTicketQuery normalizes params for caller. Unknown sort keys fall back
// to createdAt desc, and non-admins only ever see their own tickets.
func BuildTicketQuery(caller domain.Caller, params ListTicketsParams) TicketQuery {
	field, ok := repository.ParseSortField(params.SortBy)
	if !ok {
		field = repository.SortByCreatedAt
	}
	direction, ok := repository.ParseSortDirection(params.SortDir)
	if !ok {
		direction = repository.SortDesc
	}

	page := params.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := params.Limit
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	filter := repository.TicketFilter{
		Status:     params.Status,
		Priority:   params.Priority,
		Category:   nonBlank(params.Category),
		SearchTerm: nonBlank(params.Q),
	}
	if !caller.IsAdmin() {
		owner := caller.UserID
		filter.CreatedByID = &owner
	}

	return TicketQuery{
		Filter: filter,
		Sort:   repository.TicketSort{Field: field, Direction: direction},
		Page:   page,
		Limit:  limit,
		Offset: pageOffset(page, limit),
	}
}

// pageOffset saturates at math.MaxInt so a page past the addressable range
// reads as empty instead of wrapping around.
func pageOffset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

func nonBlank(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
