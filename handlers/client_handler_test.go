package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pulseplan/backend/middleware"
	"github.com/pulseplan/backend/models"
	"github.com/pulseplan/backend/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockClientRepository is a mock implementation of ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	args := m.Called(ctx, id)
	if client := args.Get(0); client != nil {
		return client.(*models.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClientRepository) List(ctx context.Context) ([]*models.Client, error) {
	args := m.Called(ctx)
	if clients := args.Get(0); clients != nil {
		return clients.([]*models.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// withActor builds a request carrying an authenticated user
func withActor(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), user))
}

// withURLParam injects a chi route parameter
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestClientHandler_HandleListClients(t *testing.T) {
	logger := zap.NewNop()

	clientA := models.NewClient("Acme", "Acme Corp", "retail")
	clientB := models.NewClient("Globex", "Globex Inc", "energy")

	t.Run("consultant sees every client", func(t *testing.T) {
		repo := new(MockClientRepository)
		repo.On("List", mock.Anything).Return([]*models.Client{clientA, clientB}, nil).Once()
		handler := NewClientHandler(repo, logger)

		actor := models.NewUser("subject-1", "c@agency.com", models.RoleConsultant)
		rec := httptest.NewRecorder()
		handler.HandleListClients(rec, withActor(httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil), actor))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Data []models.Client `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Data, 2)
	})

	t.Run("agency sees assigned clients only", func(t *testing.T) {
		repo := new(MockClientRepository)
		repo.On("List", mock.Anything).Return([]*models.Client{clientA, clientB}, nil).Once()
		handler := NewClientHandler(repo, logger)

		actor := models.NewUser("subject-2", "a@agency.com", models.RoleAgency)
		actor.AssignedClients = []uuid.UUID{clientB.ID}

		rec := httptest.NewRecorder()
		handler.HandleListClients(rec, withActor(httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil), actor))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Data []models.Client `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, clientB.ID, resp.Data[0].ID)
	})

	t.Run("missing actor gets 401", func(t *testing.T) {
		handler := NewClientHandler(new(MockClientRepository), logger)

		rec := httptest.NewRecorder()
		handler.HandleListClients(rec, httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestClientHandler_HandleCreateClient(t *testing.T) {
	logger := zap.NewNop()

	t.Run("creates a client", func(t *testing.T) {
		repo := new(MockClientRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Client) bool {
			return c.Name == "Acme" && c.Industry == "retail"
		})).Return(nil).Once()
		handler := NewClientHandler(repo, logger)

		body := `{"name":"Acme","company_name":"Acme Corp","industry":"retail"}`
		rec := httptest.NewRecorder()
		handler.HandleCreateClient(rec, httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		repo.AssertExpectations(t)
	})

	t.Run("missing fields get 400", func(t *testing.T) {
		repo := new(MockClientRepository)
		handler := NewClientHandler(repo, logger)

		rec := httptest.NewRecorder()
		handler.HandleCreateClient(rec, httptest.NewRequest(http.MethodPost, "/api/v1/clients", strings.NewReader(`{"name":"Acme"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestClientHandler_HandleGetClient(t *testing.T) {
	logger := zap.NewNop()
	client := models.NewClient("Acme", "Acme Corp", "retail")

	t.Run("accessible client is returned", func(t *testing.T) {
		repo := new(MockClientRepository)
		repo.On("GetByID", mock.Anything, client.ID).Return(client, nil).Once()
		handler := NewClientHandler(repo, logger)

		actor := models.NewUser("subject-1", "c@agency.com", models.RoleConsultant)
		req := withActor(httptest.NewRequest(http.MethodGet, "/api/v1/clients/"+client.ID.String(), nil), actor)
		req = withURLParam(req, "id", client.ID.String())

		rec := httptest.NewRecorder()
		handler.HandleGetClient(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("client user cannot read another company", func(t *testing.T) {
		repo := new(MockClientRepository)
		handler := NewClientHandler(repo, logger)

		other := uuid.New()
		actor := models.NewUser("subject-3", "u@brand.com", models.RoleClient)
		actor.ClientID = &other

		req := withActor(httptest.NewRequest(http.MethodGet, "/api/v1/clients/"+client.ID.String(), nil), actor)
		req = withURLParam(req, "id", client.ID.String())

		rec := httptest.NewRecorder()
		handler.HandleGetClient(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown client gets 404", func(t *testing.T) {
		repo := new(MockClientRepository)
		missing := uuid.New()
		repo.On("GetByID", mock.Anything, missing).Return(nil, repositories.ErrNotFound).Once()
		handler := NewClientHandler(repo, logger)

		actor := models.NewUser("subject-1", "c@agency.com", models.RoleConsultant)
		req := withActor(httptest.NewRequest(http.MethodGet, "/api/v1/clients/"+missing.String(), nil), actor)
		req = withURLParam(req, "id", missing.String())

		rec := httptest.NewRecorder()
		handler.HandleGetClient(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id gets 400", func(t *testing.T) {
		handler := NewClientHandler(new(MockClientRepository), logger)

		actor := models.NewUser("subject-1", "c@agency.com", models.RoleConsultant)
		req := withActor(httptest.NewRequest(http.MethodGet, "/api/v1/clients/nope", nil), actor)
		req = withURLParam(req, "id", "nope")

		rec := httptest.NewRecorder()
		handler.HandleGetClient(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
