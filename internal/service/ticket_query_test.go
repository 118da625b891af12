package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queuedesk/queuedesk-api/internal/domain"
	"github.com/queuedesk/queuedesk-api/internal/repository"
)

var (
	adminCaller = domain.Caller{UserID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin}
	aliceCaller = domain.Caller{UserID: "alice-1", Email: "alice@example.com", Role: domain.RoleUser}
)

func strPtr(v string) *string { return &v }

func TestBuildTicketQuery_Defaults(t *testing.T) {
	q := BuildTicketQuery(adminCaller, ListTicketsParams{})

	assert.Equal(t, repository.TicketSort{Field: repository.SortByCreatedAt, Direction: repository.SortDesc}, q.Sort)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, 0, q.Offset)
	assert.Nil(t, q.Filter.CreatedByID)
}

func TestBuildTicketQuery_Sort(t *testing.T) {
	tests := []struct {
		name    string
		sortBy  string
		sortDir string
		want    repository.TicketSort
	}{
		{"known field asc", "dueAt", "asc", repository.TicketSort{Field: repository.SortByDueAt, Direction: repository.SortAsc}},
		{"direction ignores case", "priority", "ASC", repository.TicketSort{Field: repository.SortByPriority, Direction: repository.SortAsc}},
		{"unknown field falls back", "dropTable", "asc", repository.TicketSort{Field: repository.SortByCreatedAt, Direction: repository.SortAsc}},
		{"unknown direction falls back", "title", "up", repository.TicketSort{Field: repository.SortByTitle, Direction: repository.SortDesc}},
		{"injection attempt", "createdAt; DROP TABLE tickets", "", repository.TicketSort{Field: repository.SortByCreatedAt, Direction: repository.SortDesc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := BuildTicketQuery(adminCaller, ListTicketsParams{SortBy: tt.sortBy, SortDir: tt.sortDir})
			assert.Equal(t, tt.want, q.Sort)
		})
	}
}

func TestBuildTicketQuery_Pagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"page two", 2, 20, 2, 20, 20},
		{"page zero", 0, 10, 1, 10, 0},
		{"negative page", -3, 10, 1, 10, 0},
		{"limit zero", 3, 0, 3, 20, 40},
		{"limit above max", 1, 500, 1, 100, 0},
		{"limit at max", 2, 100, 2, 100, 100},
		{"last addressable page", math.MaxInt/100 + 1, 100, math.MaxInt/100 + 1, 100, math.MaxInt / 100 * 100},
		{"offset saturates instead of wrapping", math.MaxInt / 10, 100, math.MaxInt / 10, 100, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := BuildTicketQuery(adminCaller, ListTicketsParams{Page: tt.page, Limit: tt.limit})
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantLimit, q.Limit)
			assert.Equal(t, tt.wantOffset, q.Offset)
		})
	}
}

func TestBuildTicketQuery_Scope(t *testing.T) {
	q := BuildTicketQuery(aliceCaller, ListTicketsParams{})
	require.NotNil(t, q.Filter.CreatedByID)
	assert.Equal(t, "alice-1", *q.Filter.CreatedByID)

	q = BuildTicketQuery(adminCaller, ListTicketsParams{})
	assert.Nil(t, q.Filter.CreatedByID)
}

func TestBuildTicketQuery_Filters(t *testing.T) {
	status := domain.TicketStatusOpen
	priority := domain.TicketPriorityUrgent
	q := BuildTicketQuery(adminCaller, ListTicketsParams{
		Status:   &status,
		Priority: &priority,
		Category: strPtr("  Network "),
		Q:        strPtr("   "),
	})

	assert.Equal(t, &status, q.Filter.Status)
	assert.Equal(t, &priority, q.Filter.Priority)
	require.NotNil(t, q.Filter.Category)
	assert.Equal(t, "Network", *q.Filter.Category)
	assert.Nil(t, q.Filter.SearchTerm)
}
