package profiles

import (
	"context"
	"errors"

	"github.com/pulseplan/backend/identity"
	"github.com/pulseplan/backend/models"
	"github.com/pulseplan/backend/repositories"
	"github.com/pulseplan/backend/services"
	"go.uber.org/zap"
)

// AdminAPI lists identities from the provider's admin endpoint
type AdminAPI interface {
	ListUsers(ctx context.Context) ([]identity.ProviderUser, error)
}

// Service repairs the profile store against the identity provider. Profile
// rows are created asynchronously after signup, so identities can exist at
// the provider without a matching row; Backfill closes that gap.
type Service struct {
	admin  AdminAPI
	users  repositories.UserRepository
	roles  RoleInvalidator
	logger *zap.Logger
}

// RoleInvalidator drops a subject's cached role after its profile changes
type RoleInvalidator interface {
	Invalidate(subjectID string)
}

// NewService creates a profiles service
func NewService(admin AdminAPI, users repositories.UserRepository, roles RoleInvalidator, logger *zap.Logger) *Service {
	return &Service{
		admin:  admin,
		users:  users,
		roles:  roles,
		logger: logger,
	}
}

// BackfillResult reports what a backfill run did
type BackfillResult struct {
	Scanned int      `json:"scanned"`
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

// Backfill creates profile rows for provider identities that have none.
// The role comes from the identity's metadata when it parses; identities
// without a usable role default to consultant, matching the signup flow.
// Deliberately callable without an authenticated actor: the route exists to
// recover subjects the missing profile row has locked out.
func (s *Service) Backfill(ctx context.Context) (*BackfillResult, error) {
	providerUsers, err := s.admin.ListUsers(ctx)
	if err != nil {
		return nil, services.WrapExternal("failed to list provider identities", err)
	}

	existing, err := s.users.List(ctx)
	if err != nil {
		return nil, services.WrapInternal("failed to list profiles", err)
	}

	known := make(map[string]struct{}, len(existing))
	for _, u := range existing {
		known[u.ID] = struct{}{}
	}

	result := &BackfillResult{Scanned: len(providerUsers)}
	for _, pu := range providerUsers {
		if _, ok := known[pu.ID]; ok {
			continue
		}

		role, ok := models.ParseRole(pu.UserMetadata.Role)
		if !ok {
			role = models.RoleConsultant
			s.logger.Warn("identity has no usable role metadata, defaulting",
				zap.String("subject_id", pu.ID),
				zap.String("metadata_role", pu.UserMetadata.Role))
		}

		if err := s.users.Create(ctx, models.NewUser(pu.ID, pu.Email, role)); err != nil {
			s.logger.Error("failed to backfill profile",
				zap.String("subject_id", pu.ID),
				zap.Error(err))
			result.Skipped = append(result.Skipped, pu.ID)
			continue
		}

		s.roles.Invalidate(pu.ID)
		result.Created = append(result.Created, pu.ID)
	}

	s.logger.Info("profile backfill finished",
		zap.Int("scanned", result.Scanned),
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}

// Get returns the profile for a subject
func (s *Service) Get(ctx context.Context, subjectID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrUserNotFound
		}
		return nil, services.WrapInternal("failed to load profile", err)
	}
	return user, nil
}

// UpdateRole changes a subject's role and drops its cached lookup
func (s *Service) UpdateRole(ctx context.Context, actor *models.User, subjectID string, role models.UserRole) (*models.User, error) {
	if actor.Role != models.RoleConsultant {
		return nil, services.NewDomainError(services.ErrorTypeForbidden,
			"role changes are consultant-only", nil)
	}
	if !role.Valid() {
		return nil, services.NewDomainError(services.ErrorTypeValidation,
			"role must be one of consultant, agency, client", nil)
	}

	user, err := s.users.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrUserNotFound
		}
		return nil, services.WrapInternal("failed to load profile", err)
	}

	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, services.WrapInternal("failed to update profile", err)
	}

	s.roles.Invalidate(subjectID)
	s.logger.Info("role updated",
		zap.String("subject_id", subjectID),
		zap.String("role", string(role)))

	return user, nil
}
