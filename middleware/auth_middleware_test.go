package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pulseplan/backend/identity"
	"github.com/pulseplan/backend/models"
	"github.com/pulseplan/backend/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, subjectID string) (*models.User, error) {
	args := m.Called(ctx, subjectID)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if users := args.Get(0); users != nil {
		return users.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, subjectID string) error {
	args := m.Called(ctx, subjectID)
	return args.Error(0)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	logger := zap.NewNop()

	t.Run("no credential gets 401", func(t *testing.T) {
		m := NewAuthMiddleware(&stubResolver{err: identity.ErrNoSession}, new(MockUserRepository), logger)

		rec := httptest.NewRecorder()
		m.RequireAuth(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token gets 401", func(t *testing.T) {
		m := NewAuthMiddleware(&stubResolver{err: identity.ErrTokenExpired}, new(MockUserRepository), logger)

		rec := httptest.NewRecorder()
		m.RequireAuth(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("provider outage gets 502 not 401", func(t *testing.T) {
		m := NewAuthMiddleware(&stubResolver{err: identity.ErrProviderUnavailable}, new(MockUserRepository), logger)

		rec := httptest.NewRecorder()
		m.RequireAuth(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("session without profile gets 403", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByID", mock.Anything, "subject-1").Return(nil, repositories.ErrNotFound).Once()
		m := NewAuthMiddleware(&stubResolver{session: testSession()}, users, logger)

		rec := httptest.NewRecorder()
		m.RequireAuth(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("loads the profile into context", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByID", mock.Anything, "subject-1").
			Return(models.NewUser("subject-1", "a@b.com", models.RoleConsultant), nil).Once()
		m := NewAuthMiddleware(&stubResolver{session: testSession()}, users, logger)

		var got *models.User
		handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetUserFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, models.RoleConsultant, got.Role)
	})

	t.Run("unrecognized stored role gets 403", func(t *testing.T) {
		users := new(MockUserRepository)
		corrupt := models.NewUser("subject-1", "a@b.com", "superadmin")
		users.On("GetByID", mock.Anything, "subject-1").Return(corrupt, nil).Once()
		m := NewAuthMiddleware(&stubResolver{session: testSession()}, users, logger)

		rec := httptest.NewRecorder()
		m.RequireAuth(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	logger := zap.NewNop()
	m := NewAuthMiddleware(&stubResolver{}, new(MockUserRepository), logger)

	serve := func(t *testing.T, user *models.User, allowed ...models.UserRole) *httptest.ResponseRecorder {
		t.Helper()
		handler := m.RequireRole(allowed...)(okHandler())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/strategies", nil)
		if user != nil {
			req = req.WithContext(WithUser(req.Context(), user))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("matching role passes", func(t *testing.T) {
		user := models.NewUser("subject-1", "a@b.com", models.RoleConsultant)
		rec := serve(t, user, models.RoleConsultant)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("any of several roles passes", func(t *testing.T) {
		user := models.NewUser("subject-1", "a@b.com", models.RoleAgency)
		rec := serve(t, user, models.RoleConsultant, models.RoleAgency)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong role gets 403", func(t *testing.T) {
		user := models.NewUser("subject-1", "a@b.com", models.RoleClient)
		rec := serve(t, user, models.RoleConsultant)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing user gets 401", func(t *testing.T) {
		rec := serve(t, nil, models.RoleConsultant)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
