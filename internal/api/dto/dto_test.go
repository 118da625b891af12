package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queuedesk/queuedesk-api/internal/domain"
	apperrors "github.com/queuedesk/queuedesk-api/pkg/util"
)

func details(t *testing.T, err error) map[string]any {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, apperrors.CodeValidation, domainErr.Code)
	return domainErr.Details
}

func TestValidate_CreateTicket(t *testing.T) {
	valid := CreateTicketRequest{
		Title:       "Broken chair",
		Description: "The chair in room 4 wobbles",
		Category:    "Facilities",
		Priority:    "low",
	}
	valid.Normalize()
	require.NoError(t, Validate(valid))
	assert.Equal(t, domain.TicketPriorityLow, valid.ToInput().Priority)

	bad := CreateTicketRequest{Title: "  ab  ", Description: "short", Category: "x", Priority: "SOON"}
	bad.Normalize()
	d := details(t, Validate(bad))
	assert.Equal(t, "title must be at least 3 characters long", d["title"])
	assert.Contains(t, d, "description")
	assert.Contains(t, d, "category")
	assert.Equal(t, "priority must be one of [LOW MEDIUM HIGH URGENT]", d["priority"])

	long := valid
	long.Title = strings.Repeat("x", 121)
	assert.Contains(t, details(t, Validate(long)), "title")
}

func TestValidate_UpdateTicket(t *testing.T) {
	require.NoError(t, Validate(UpdateTicketRequest{}))

	short := "no"
	d := details(t, Validate(UpdateTicketRequest{Title: &short}))
	assert.Contains(t, d, "title")

	priority := " urgent "
	req := UpdateTicketRequest{Priority: &priority}
	req.Normalize()
	require.NoError(t, Validate(req))
	input := req.ToInput()
	require.NotNil(t, input.Priority)
	assert.Equal(t, domain.TicketPriorityUrgent, *input.Priority)
	assert.Nil(t, input.Title)
}

func TestValidate_ListQuery(t *testing.T) {
	zero := 0
	big := 101
	d := details(t, Validate(TicketListQuery{Page: &zero, Limit: &big}))
	assert.Contains(t, d, "page")
	assert.Contains(t, d, "limit")

	q := TicketListQuery{Status: "open", SortBy: "dropTable", SortDir: "sideways"}
	q.Normalize()
	require.NoError(t, Validate(q))
	params := q.ToParams()
	require.NotNil(t, params.Status)
	assert.Equal(t, domain.TicketStatusOpen, *params.Status)
	assert.Equal(t, "dropTable", params.SortBy)
	assert.Zero(t, params.Page)
	assert.Nil(t, params.Category)
}

func TestValidate_Register(t *testing.T) {
	require.NoError(t, Validate(UserRegisterRequest{Email: "jane@example.com", Password: "Passw0rd!"}))

	tests := []struct {
		name     string
		password string
	}{
		{"too short", "Pa0!"},
		{"no upper", "passw0rd!"},
		{"no lower", "PASSW0RD!"},
		{"no digit", "Password!"},
		{"no special", "Passw0rdX"},
		{"too long", "Passw0rd!" + strings.Repeat("x", 60)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := details(t, Validate(UserRegisterRequest{Email: "jane@example.com", Password: tt.password}))
			assert.Contains(t, d, "password")
		})
	}

	name := strings.Repeat("n", 81)
	d := details(t, Validate(UserRegisterRequest{Email: "not-an-email", Password: "Passw0rd!", FullName: &name}))
	assert.Equal(t, "email must be a valid email address", d["email"])
	assert.Contains(t, d, "full_name")
}

func TestValidate_Login(t *testing.T) {
	require.NoError(t, Validate(UserLoginRequest{Email: "jane@example.com", Password: "x"}))
	d := details(t, Validate(UserLoginRequest{Email: "jane@example.com"}))
	assert.Equal(t, "password is required", d["password"])
}

func TestValidate_UpdateStatus(t *testing.T) {
	req := UpdateStatusRequest{Status: " in_progress "}
	req.Normalize()
	require.NoError(t, Validate(req))
	assert.Equal(t, "IN_PROGRESS", req.Status)

	unknown := UpdateStatusRequest{Status: "done"}
	unknown.Normalize()
	assert.Equal(t, "DONE", unknown.Status)
	assert.Contains(t, details(t, Validate(unknown)), "status")
}
