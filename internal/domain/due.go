package domain

import "time"

const defaultDueDays = 3

var priorityDueDays = map[TicketPriority]int{
	TicketPriorityUrgent: 1,
	TicketPriorityHigh:   2,
	TicketPriorityMedium: 3,
	TicketPriorityLow:    5,
}

// DueDays returns the number of days a ticket of the given priority has
// before it becomes overdue. Unknown priorities get the MEDIUM allowance.
func DueDays(priority TicketPriority) int {
	days, ok := priorityDueDays[priority]
	if !ok {
		return defaultDueDays
	}
	return days
}

// ComputeDueAt derives the due date from the creation time and priority.
func ComputeDueAt(createdAt time.Time, priority TicketPriority) time.Time {
	return createdAt.Add(time.Duration(DueDays(priority)) * 24 * time.Hour)
}

// IsOverdue is never persisted; callers evaluate it on every read so that
// elapsed time alone flips the flag.
func IsOverdue(dueAt time.Time, status TicketStatus, now time.Time) bool {
	if status.Terminal() {
		return false
	}
	return now.After(dueAt)
}
