package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pulseplan/backend/models"
	"github.com/pulseplan/backend/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return &DB{DB: mockDB, logger: zap.NewNop()}, mock
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	user := models.NewUser("auth-subject-1", "consultant@agency.com", models.RoleConsultant)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(user.ID, user.Email, user.Role, sqlmock.AnyArg(), nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID(t *testing.T) {
	t.Run("returns profile with assigned clients", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		clientID := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "email", "role", "assigned_clients", "client_id", "created_at", "updated_at"}).
			AddRow("auth-subject-1", "agency@agency.com", "agency", "{"+clientID.String()+"}", nil, now, now)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, role, assigned_clients, client_id, created_at, updated_at")).
			WithArgs("auth-subject-1").
			WillReturnRows(rows)

		user, err := repo.GetByID(context.Background(), "auth-subject-1")
		require.NoError(t, err)

		assert.Equal(t, "auth-subject-1", user.ID)
		assert.Equal(t, models.RoleAgency, user.Role)
		require.Len(t, user.AssignedClients, 1)
		assert.Equal(t, clientID, user.AssignedClients[0])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing profile maps to ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, role, assigned_clients, client_id, created_at, updated_at")).
			WithArgs("missing-subject").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role", "assigned_clients", "client_id", "created_at", "updated_at"}))

		user, err := repo.GetByID(context.Background(), "missing-subject")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Update(t *testing.T) {
	t.Run("no matching row maps to ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		user := models.NewUser("auth-subject-1", "client@company.com", models.RoleClient)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), user)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestClientRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db, zap.NewNop())

	first := uuid.New()
	second := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "company_name", "industry", "created_at", "updated_at"}).
		AddRow(first, "Acme", "Acme Corp", "Retail", now, now).
		AddRow(second, "Globex", "Globex Inc", "Energy", now.Add(-time.Hour), now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, company_name, industry, created_at, updated_at")).
		WillReturnRows(rows)

	clients, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, first, clients[0].ID)
	assert.Equal(t, "Globex", clients[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_Delete(t *testing.T) {
	t.Run("no matching row maps to ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewClientRepository(db, zap.NewNop())

		id := uuid.New()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM clients")).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), id)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStrategyRepository_GetByClientID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStrategyRepository(db, zap.NewNop())

	strategyID := uuid.New()
	clientID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "client_id", "platforms", "content_pillars", "kpis", "monthly_themes", "company_os_url", "created_at", "updated_at"}).
		AddRow(strategyID, clientID, "{Instagram,LinkedIn}", "{Education,Community,Authority}", "{Reach,Engagement}",
			[]byte(`{"January":"New beginnings"}`), nil, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WithArgs(clientID).
		WillReturnRows(rows)

	strategy, err := repo.GetByClientID(context.Background(), clientID)
	require.NoError(t, err)

	assert.Equal(t, strategyID, strategy.ID)
	assert.Equal(t, []models.Platform{models.PlatformInstagram, models.PlatformLinkedIn}, strategy.Platforms)
	assert.Len(t, strategy.ContentPillars, 3)
	assert.Equal(t, "New beginnings", strategy.MonthlyThemes["January"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByStrategyMonth(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db, zap.NewNop())

	strategyID := uuid.New()
	postID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "strategy_id", "series_id", "month", "week", "post_date", "platform", "post_type",
		"hook", "body_copy", "cta", "hashtags", "justification", "wildcard", "visual_concept", "image_url",
		"status", "created_by", "created_at", "updated_at",
	}).AddRow(
		postID, strategyID, nil, "January", 1, now, "{Instagram}", "Reel",
		"Stop doing this", "Body copy here", "Follow for more", "{#growth,#content}", "Aligned with pillar", false, "Fast cuts", nil,
		"draft", "auth-subject-1", now, now,
	)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY week ASC, post_date ASC")).
		WithArgs(strategyID, "January").
		WillReturnRows(rows)

	posts, err := repo.GetByStrategyMonth(context.Background(), strategyID, "January")
	require.NoError(t, err)
	require.Len(t, posts, 1)

	assert.Equal(t, postID, posts[0].ID)
	assert.Equal(t, models.PostTypeReel, posts[0].PostType)
	assert.Equal(t, models.PostStatusDraft, posts[0].Status)
	assert.Equal(t, []string{"#growth", "#content"}, posts[0].Hashtags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_UpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db, zap.NewNop())

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET status")).
		WithArgs(id, models.PostStatusClientReview, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), id, models.PostStatusClientReview)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
