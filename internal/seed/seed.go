// Package seed provisions the demo accounts and tickets used in local
// environments.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/queuedesk/queuedesk-api/internal/config"
	"github.com/queuedesk/queuedesk-api/internal/domain"
	"github.com/queuedesk/queuedesk-api/internal/repository"
	"github.com/queuedesk/queuedesk-api/internal/service"
	apperrors "github.com/queuedesk/queuedesk-api/pkg/util"
)

// Result reports what the seeder created or found.
type Result struct {
	Admin   *domain.User
	User    *domain.User
	Tickets []service.TicketView
}

// Seeder creates demo data through the regular services.
type Seeder struct {
	cfg     config.SeedConfig
	auth    *service.AuthService
	tickets *service.TicketService
	users   repository.UserRepository
	logger  *zap.Logger
}

// New constructs a Seeder.
func New(cfg config.SeedConfig, auth *service.AuthService, tickets *service.TicketService, users repository.UserRepository, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{cfg: cfg, auth: auth, tickets: tickets, users: users, logger: logger}
}

// Run upserts the admin and demo user, then opens two demo tickets for the
// demo user. Existing accounts are reused; tickets are always added.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	admin, err := s.upsert(ctx, s.cfg.AdminEmail, s.cfg.AdminPassword, "Admin", domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	user, err := s.upsert(ctx, s.cfg.UserEmail, s.cfg.UserPassword, "Demo User", domain.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}

	owner := domain.Caller{UserID: user.ID, Email: user.Email, Role: user.Role}
	wifi, err := s.tickets.CreateTicket(ctx, owner, service.TicketCreateInput{
		Title:       "Wi-Fi not working in meeting room",
		Description: "Cannot connect to the guest Wi-Fi. Tried reconnecting multiple times.",
		Category:    "IT Support",
		Priority:    domain.TicketPriorityHigh,
	})
	if err != nil {
		return nil, fmt.Errorf("seed ticket: %w", err)
	}

	access, err := s.tickets.CreateTicket(ctx, owner, service.TicketCreateInput{
		Title:       "Request: access to shared drive",
		Description: "Need access to Finance shared drive for project documents.",
		Category:    "Access / Permissions",
		Priority:    domain.TicketPriorityMedium,
	})
	if err != nil {
		return nil, fmt.Errorf("seed ticket: %w", err)
	}
	access, err = s.tickets.UpdateStatus(ctx, owner, access.ID, domain.TicketStatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("seed ticket status: %w", err)
	}

	s.logger.Info("seed complete",
		zap.String("admin_email", admin.Email),
		zap.String("user_email", user.Email))

	return &Result{Admin: admin, User: user, Tickets: []service.TicketView{*wifi, *access}}, nil
}

func (s *Seeder) upsert(ctx context.Context, email, password, fullName string, role domain.Role) (*domain.User, error) {
	user, err := s.auth.CreateAccount(ctx, service.RegisterInput{Email: email, Password: password, FullName: &fullName}, role)
	if err == nil {
		return user, nil
	}
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		return nil, err
	}
	s.logger.Info("seed account already exists", zap.String("email", email))
	return s.users.GetByEmail(ctx, email)
}
