package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeDueAt(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		priority TicketPriority
		wantDays int
	}{
		{"urgent is due in one day", TicketPriorityUrgent, 1},
		{"high is due in two days", TicketPriorityHigh, 2},
		{"medium is due in three days", TicketPriorityMedium, 3},
		{"low is due in five days", TicketPriorityLow, 5},
		{"unknown defaults to three days", TicketPriority("CRITICAL"), 3},
		{"empty defaults to three days", TicketPriority(""), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dueAt := ComputeDueAt(createdAt, tt.priority)
			assert.Equal(t, time.Duration(tt.wantDays)*24*time.Hour, dueAt.Sub(createdAt))
		})
	}
}

func TestComputeDueAt_HighPriorityScenario(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	want := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	assert.True(t, want.Equal(ComputeDueAt(createdAt, TicketPriorityHigh)))
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	farPast := now.AddDate(-10, 0, 0)
	future := now.Add(time.Minute)

	tests := []struct {
		name   string
		dueAt  time.Time
		status TicketStatus
		want   bool
	}{
		{"open past due", past, TicketStatusOpen, true},
		{"in progress past due", past, TicketStatusInProgress, true},
		{"open not yet due", future, TicketStatusOpen, false},
		{"in progress not yet due", future, TicketStatusInProgress, false},
		{"open due exactly now", now, TicketStatusOpen, false},
		{"resolved far past due", farPast, TicketStatusResolved, false},
		{"closed far past due", farPast, TicketStatusClosed, false},
		{"resolved not yet due", future, TicketStatusResolved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOverdue(tt.dueAt, tt.status, now))
		})
	}
}

func TestTicket_OverdueAt_ChangesWithTimeAlone(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ticket := Ticket{
		Status:    TicketStatusOpen,
		Priority:  TicketPriorityUrgent,
		CreatedAt: createdAt,
		DueAt:     ComputeDueAt(createdAt, TicketPriorityUrgent),
	}

	assert.False(t, ticket.OverdueAt(createdAt.Add(23*time.Hour)))
	assert.True(t, ticket.OverdueAt(createdAt.Add(25*time.Hour)))
}

func TestParseTicketStatus(t *testing.T) {
	status, ok := ParseTicketStatus(" in_progress ")
	assert.True(t, ok)
	assert.Equal(t, TicketStatusInProgress, status)

	_, ok = ParseTicketStatus("PENDING")
	assert.False(t, ok)
}

func TestParseTicketPriority(t *testing.T) {
	priority, ok := ParseTicketPriority("urgent")
	assert.True(t, ok)
	assert.Equal(t, TicketPriorityUrgent, priority)

	_, ok = ParseTicketPriority("")
	assert.False(t, ok)
}

func TestRanksFollowDeclarationOrder(t *testing.T) {
	assert.Less(t, TicketPriorityLow.Rank(), TicketPriorityMedium.Rank())
	assert.Less(t, TicketPriorityHigh.Rank(), TicketPriorityUrgent.Rank())
	assert.Less(t, TicketStatusOpen.Rank(), TicketStatusInProgress.Rank())
	assert.Less(t, TicketStatusResolved.Rank(), TicketStatusClosed.Rank())
	assert.Equal(t, -1, TicketStatus("nope").Rank())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM "))
}
