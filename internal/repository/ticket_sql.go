package repository

import (
	"fmt"
	"strings"

	"github.com/queuedesk/queuedesk-api/internal/domain"
)

// SortField names a sortable ticket attribute.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByDueAt     SortField = "dueAt"
	SortByPriority  SortField = "priority"
	SortByStatus    SortField = "status"
	SortByCategory  SortField = "category"
	SortByTitle     SortField = "title"
)

// SortDirection is either ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// TicketSort describes the listing order.
type TicketSort struct {
	Field     SortField
	Direction SortDirection
}

// The only place a SortField becomes SQL. Anything absent from this map
// never reaches a query.
var ticketSortExpressions = map[SortField]string{
	SortByCreatedAt: "t.created_at",
	SortByUpdatedAt: "t.updated_at",
	SortByDueAt:     "t.due_at",
	SortByPriority:  rankExpression("t.priority", priorityNames()),
	SortByStatus:    rankExpression("t.status", statusNames()),
	SortByCategory:  "t.category",
	SortByTitle:     "t.title",
}

// ParseSortField resolves a client-supplied sort key.
func ParseSortField(raw string) (SortField, bool) {
	field := SortField(strings.TrimSpace(raw))
	_, ok := ticketSortExpressions[field]
	return field, ok
}

// ParseSortDirection resolves a client-supplied direction, ignoring case.
func ParseSortDirection(raw string) (SortDirection, bool) {
	switch SortDirection(strings.ToLower(strings.TrimSpace(raw))) {
	case SortAsc:
		return SortAsc, true
	case SortDesc:
		return SortDesc, true
	default:
		return "", false
	}
}

func buildTicketWhere(filter TicketFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatedByID != nil {
		args = append(args, *filter.CreatedByID)
		clauses = append(clauses, fmt.Sprintf("t.created_by_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		clauses = append(clauses, fmt.Sprintf("t.status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, string(*filter.Priority))
		clauses = append(clauses, fmt.Sprintf("t.priority=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("LOWER(t.category)=LOWER($%d)", len(args)))
	}
	if term := searchTerm(filter); term != "" {
		args = append(args, "%"+escapeLike(term)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(t.title ILIKE %s OR t.description ILIKE %s)", placeholder, placeholder))
	}

	return strings.Join(clauses, " AND "), args
}

func buildTicketOrderBy(sort TicketSort) string {
	expr, ok := ticketSortExpressions[sort.Field]
	if !ok {
		expr = ticketSortExpressions[SortByCreatedAt]
	}
	direction := "DESC"
	if sort.Direction == SortAsc {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s, t.id ASC", expr, direction)
}

func searchTerm(filter TicketFilter) string {
	if filter.SearchTerm == nil {
		return ""
	}
	return strings.TrimSpace(*filter.SearchTerm)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes a search term match literally inside a LIKE pattern.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

func rankExpression(column string, values []string) string {
	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(column)
	for i, value := range values {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", value, i)
	}
	fmt.Fprintf(&b, " ELSE %d END", len(values))
	return b.String()
}

func priorityNames() []string {
	names := make([]string, 0, len(domain.TicketPriorities))
	for _, p := range domain.TicketPriorities {
		names = append(names, string(p))
	}
	return names
}

func statusNames() []string {
	names := make([]string, 0, len(domain.TicketStatuses))
	for _, s := range domain.TicketStatuses {
		names = append(names, string(s))
	}
	return names
}
