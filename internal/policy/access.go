// Package policy holds the ticket authorization predicates. Every predicate
// is a pure function of the caller and the ticket; lifecycle operations
// call them explicitly after the ticket has been loaded.
package policy

import "github.com/queuedesk/queuedesk-api/internal/domain"

// CanView reports whether the caller may read the ticket.
func CanView(caller domain.Caller, ticket *domain.Ticket) bool {
	return ownerOrAdmin(caller, ticket)
}

// CanMutateFields reports whether the caller may edit title, description,
// category or priority.
func CanMutateFields(caller domain.Caller, ticket *domain.Ticket) bool {
	return ownerOrAdmin(caller, ticket)
}

// CanChangeStatus reports whether the caller may move the ticket to another
// status. Any status may follow any other; only the caller is checked.
func CanChangeStatus(caller domain.Caller, ticket *domain.Ticket) bool {
	return ownerOrAdmin(caller, ticket)
}

// CanDelete reports whether the caller may remove the ticket.
func CanDelete(caller domain.Caller, ticket *domain.Ticket) bool {
	return ownerOrAdmin(caller, ticket)
}

func ownerOrAdmin(caller domain.Caller, ticket *domain.Ticket) bool {
	if ticket == nil {
		return false
	}
	if caller.IsAdmin() {
		return true
	}
	return caller.UserID != "" && caller.UserID == ticket.CreatedByID
}
