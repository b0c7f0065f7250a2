package roles

import (
	"context"
	"errors"
	"time"

	"github.com/pulseplan/backend/access"
	"github.com/pulseplan/backend/models"
	"github.com/pulseplan/backend/repositories"
	"go.uber.org/zap"
)

// Service resolves subject ids to their authoritative role. The profile store
// is the source of truth; session-token role hints are advisory only and lose
// on conflict. Implements access.RoleLookup.
type Service struct {
	users  repositories.UserRepository
	cache  *RoleCache
	logger *zap.Logger
}

// Config holds role lookup configuration
type Config struct {
	CacheSize int
	CacheTTL  time.Duration
}

// NewService creates a role lookup service over the profile store
func NewService(users repositories.UserRepository, cfg Config, logger *zap.Logger) *Service {
	if cfg.CacheSize == 0 {
		cfg.CacheSize = 1000
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	return &Service{
		users:  users,
		cache:  NewRoleCache(cfg.CacheSize, cfg.CacheTTL),
		logger: logger,
	}
}

// Lookup resolves a subject's role. Misses and invalid roles are normal
// outcomes reported through the status; only store-confirmed roles are
// cached, so a subject whose profile appears late or gets fixed is picked up
// on the next lookup.
func (s *Service) Lookup(ctx context.Context, subjectID string) (models.UserRole, access.LookupStatus) {
	if role, ok := s.cache.Get(subjectID); ok {
		return role, access.StatusFound
	}

	user, err := s.users.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", access.StatusNotFound
		}

		s.logger.Warn("profile store unavailable",
			zap.String("subject", subjectID),
			zap.Error(err))
		return "", access.StatusUnavailable
	}

	if !user.Role.Valid() {
		s.logger.Warn("stored role outside recognized set",
			zap.String("subject", subjectID),
			zap.String("role", string(user.Role)))
		return "", access.StatusInvalid
	}

	s.cache.Set(subjectID, user.Role)
	return user.Role, access.StatusFound
}

// LookupWithHint resolves a subject's role and logs when the advisory token
// hint disagrees with the store. The store's answer is returned either way.
func (s *Service) LookupWithHint(ctx context.Context, subjectID, hint string) (models.UserRole, access.LookupStatus) {
	role, status := s.Lookup(ctx, subjectID)

	if status == access.StatusFound && hint != "" && hint != string(role) {
		s.logger.Info("token role hint disagrees with store",
			zap.String("subject", subjectID),
			zap.String("hint", hint),
			zap.String("stored", string(role)))
	}

	return role, status
}

// Invalidate drops a subject's cached role, forcing the next lookup to hit
// the store. Called after profile writes.
func (s *Service) Invalidate(subjectID string) {
	s.cache.Invalidate(subjectID)
}

// StartCacheCleanup runs a background worker dropping expired cached roles.
// Blocks until stopCh closes; callers run it in a goroutine.
func (s *Service) StartCacheCleanup(interval time.Duration, stopCh <-chan struct{}) {
	s.cache.StartCleanupWorker(interval, stopCh)
}

// CacheStats exposes cache statistics for diagnostics
func (s *Service) CacheStats() CacheStats {
	return s.cache.Stats()
}
