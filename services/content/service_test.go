package content

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/pulseplan/backend/ai"
	"github.com/pulseplan/backend/models"
	"github.com/pulseplan/backend/repositories"
	"github.com/pulseplan/backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockTextGenerator is a mock implementation of ai.TextGenerator
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	args := m.Called(ctx, system, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockTextGenerator) Name() string {
	return "mock"
}

var _ ai.TextGenerator = (*MockTextGenerator)(nil)

// MockStrategyRepository is a mock implementation of StrategyRepository
type MockStrategyRepository struct {
	mock.Mock
}

func (m *MockStrategyRepository) Create(ctx context.Context, strategy *models.Strategy) error {
	args := m.Called(ctx, strategy)
	return args.Error(0)
}

func (m *MockStrategyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Strategy, error) {
	args := m.Called(ctx, id)
	if strategy := args.Get(0); strategy != nil {
		return strategy.(*models.Strategy), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStrategyRepository) GetByClientID(ctx context.Context, clientID uuid.UUID) (*models.Strategy, error) {
	args := m.Called(ctx, clientID)
	if strategy := args.Get(0); strategy != nil {
		return strategy.(*models.Strategy), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStrategyRepository) Update(ctx context.Context, strategy *models.Strategy) error {
	args := m.Called(ctx, strategy)
	return args.Error(0)
}

func (m *MockStrategyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSeriesRepository is a mock implementation of SeriesRepository
type MockSeriesRepository struct {
	mock.Mock
}

func (m *MockSeriesRepository) Create(ctx context.Context, series *models.Series) error {
	args := m.Called(ctx, series)
	return args.Error(0)
}

func (m *MockSeriesRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Series, error) {
	args := m.Called(ctx, id)
	if series := args.Get(0); series != nil {
		return series.(*models.Series), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSeriesRepository) GetByStrategyID(ctx context.Context, strategyID uuid.UUID) ([]*models.Series, error) {
	args := m.Called(ctx, strategyID)
	if series := args.Get(0); series != nil {
		return series.([]*models.Series), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSeriesRepository) GetByName(ctx context.Context, strategyID uuid.UUID, name string) (*models.Series, error) {
	args := m.Called(ctx, strategyID, name)
	if series := args.Get(0); series != nil {
		return series.(*models.Series), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSeriesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPostRepository is a mock implementation of PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	args := m.Called(ctx, id)
	if post := args.Get(0); post != nil {
		return post.(*models.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepository) GetByStrategyMonth(ctx context.Context, strategyID uuid.UUID, month string) ([]*models.Post, error) {
	args := m.Called(ctx, strategyID, month)
	if posts := args.Get(0); posts != nil {
		return posts.([]*models.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PostStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockPostRepository) UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) error {
	args := m.Called(ctx, id, imageURL)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTransactionManager runs the function inline without a real transaction
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *MockTransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	m.Called(ctx, fn)
	return fn(ctx, nil)
}

func calendarJSON(seriesName string) string {
	return fmt.Sprintf(`{
		"posts": [
			{
				"hook": "Stop posting into the void",
				"body_copy": "Here is what actually moves the needle.",
				"cta": "Save this for later",
				"justification": "Supports the education pillar in week one",
				"visual_concept": "Bold text overlay on a dark gradient",
				"platform": ["Instagram"],
				"post_type": "Carousel",
				"hashtags": ["#socialmedia"],
				"series_name": %q,
				"week": 1,
				"wildcard": false
			},
			{
				"hook": "A founder story nobody expected",
				"body_copy": "From garage to first hundred customers.",
				"cta": "Read the full story",
				"justification": "Community building in week two",
				"visual_concept": "Candid founder portrait",
				"platform": ["LinkedIn"],
				"post_type": "Static",
				"hashtags": ["#founderstory"],
				"series_name": "",
				"week": 2,
				"wildcard": true
			}
		]
	}`, seriesName)
}

func newTestService(t *testing.T) (*Service, *MockTextGenerator, *MockStrategyRepository, *MockSeriesRepository, *MockPostRepository, *MockTransactionManager) {
	t.Helper()
	generator := new(MockTextGenerator)
	strategies := new(MockStrategyRepository)
	series := new(MockSeriesRepository)
	posts := new(MockPostRepository)
	txManager := new(MockTransactionManager)
	service := NewService(generator, strategies, series, posts, txManager, zap.NewNop())
	return service, generator, strategies, series, posts, txManager
}

func testStrategy(clientID uuid.UUID) *models.Strategy {
	strategy := models.NewStrategy(clientID, "")
	strategy.Platforms = []models.Platform{models.PlatformInstagram, models.PlatformLinkedIn}
	strategy.ContentPillars = []string{"education", "community", "product"}
	strategy.KPIs = []string{"engagement rate"}
	strategy.MonthlyThemes = map[string]string{"2026-09": "Launch month"}
	return strategy
}

func TestService_GenerateMonth(t *testing.T) {
	ctx := context.Background()
	consultant := models.NewUser("subject-1", "consultant@agency.com", models.RoleConsultant)
	strategy := testStrategy(uuid.New())

	t.Run("persists the month in one batch", func(t *testing.T) {
		service, generator, strategies, series, posts, txManager := newTestService(t)

		founderSeries := models.NewSeries(strategy.ID, "Founder Fridays")

		strategies.On("GetByID", ctx, strategy.ID).Return(strategy, nil).Once()
		series.On("GetByStrategyID", ctx, strategy.ID).Return([]*models.Series{founderSeries}, nil).Once()
		generator.On("Generate", ctx, "", mock.AnythingOfType("string")).
			Return(calendarJSON("Founder Fridays"), nil).Once()
		txManager.On("InTransaction", ctx, mock.Anything).Once()
		posts.On("Create", ctx, mock.AnythingOfType("*models.Post")).Return(nil).Twice()

		result, err := service.GenerateMonth(ctx, consultant, strategy.ID, "2026-09")
		require.NoError(t, err)
		require.Len(t, result, 2)

		first := result[0]
		assert.Equal(t, strategy.ID, first.StrategyID)
		assert.Equal(t, "2026-09", first.Month)
		assert.Equal(t, models.PostStatusDraft, first.Status)
		assert.Equal(t, consultant.ID, first.CreatedBy)
		require.NotNil(t, first.SeriesID)
		assert.Equal(t, founderSeries.ID, *first.SeriesID)

		assert.Nil(t, result[1].SeriesID)
		assert.True(t, result[1].Wildcard)

		posts.AssertExpectations(t)
	})

	t.Run("unknown series name leaves the post standalone", func(t *testing.T) {
		service, generator, strategies, series, posts, txManager := newTestService(t)

		strategies.On("GetByID", ctx, strategy.ID).Return(strategy, nil).Once()
		series.On("GetByStrategyID", ctx, strategy.ID).Return([]*models.Series{}, nil).Once()
		generator.On("Generate", ctx, "", mock.AnythingOfType("string")).
			Return(calendarJSON("Series The Model Invented"), nil).Once()
		txManager.On("InTransaction", ctx, mock.Anything).Once()
		posts.On("Create", ctx, mock.Anything).Return(nil).Twice()

		result, err := service.GenerateMonth(ctx, consultant, strategy.ID, "2026-09")
		require.NoError(t, err)
		assert.Nil(t, result[0].SeriesID)
	})

	t.Run("non-consultant is forbidden", func(t *testing.T) {
		service, generator, _, _, _, _ := newTestService(t)
		client := models.NewUser("subject-2", "client@brand.com", models.RoleClient)

		_, err := service.GenerateMonth(ctx, client, strategy.ID, "2026-09")
		assert.True(t, services.IsForbiddenError(err))
		generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		service, _, strategies, _, _, _ := newTestService(t)
		strategies.On("GetByID", ctx, strategy.ID).Return(nil, repositories.ErrNotFound).Once()

		_, err := service.GenerateMonth(ctx, consultant, strategy.ID, "2026-09")
		assert.ErrorIs(t, err, services.ErrStrategyNotFound)
	})

	t.Run("invalid post rejects the whole month", func(t *testing.T) {
		service, generator, strategies, series, posts, _ := newTestService(t)

		strategies.On("GetByID", ctx, strategy.ID).Return(strategy, nil).Once()
		series.On("GetByStrategyID", ctx, strategy.ID).Return([]*models.Series{}, nil).Once()
		// week 9 is outside the allowed range
		generator.On("Generate", ctx, "", mock.AnythingOfType("string")).
			Return(`{"posts":[{"hook":"h","body_copy":"b","cta":"c","justification":"j","visual_concept":"v","platform":["Instagram"],"post_type":"Reel","hashtags":["#x"],"week":9}]}`, nil).Once()

		_, err := service.GenerateMonth(ctx, consultant, strategy.ID, "2026-09")
		assert.True(t, services.IsGenerationError(err))
		posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("failed insert surfaces as internal", func(t *testing.T) {
		service, generator, strategies, series, posts, txManager := newTestService(t)

		strategies.On("GetByID", ctx, strategy.ID).Return(strategy, nil).Once()
		series.On("GetByStrategyID", ctx, strategy.ID).Return([]*models.Series{}, nil).Once()
		generator.On("Generate", ctx, "", mock.AnythingOfType("string")).
			Return(calendarJSON(""), nil).Once()
		txManager.On("InTransaction", ctx, mock.Anything).Once()
		posts.On("Create", ctx, mock.Anything).Return(errors.New("duplicate key")).Once()

		_, err := service.GenerateMonth(ctx, consultant, strategy.ID, "2026-09")
		require.Error(t, err)
		assert.False(t, services.IsGenerationError(err))
	})
}

func TestService_Advance(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()

	draft := func() *models.Post {
		post := models.NewPost(uuid.New(), "2026-09", "subject-1")
		post.ID = postID
		return post
	}

	t.Run("agency sends draft to client review", func(t *testing.T) {
		service, _, _, _, posts, _ := newTestService(t)
		agency := models.NewUser("subject-2", "agency@agency.com", models.RoleAgency)

		posts.On("GetByID", ctx, postID).Return(draft(), nil).Once()
		posts.On("UpdateStatus", ctx, postID, models.PostStatusClientReview).Return(nil).Once()

		post, err := service.Advance(ctx, agency, postID)
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusClientReview, post.Status)
		posts.AssertExpectations(t)
	})

	t.Run("client approves from client review", func(t *testing.T) {
		service, _, _, _, posts, _ := newTestService(t)
		client := models.NewUser("subject-3", "client@brand.com", models.RoleClient)

		inReview := draft()
		inReview.Status = models.PostStatusClientReview
		posts.On("GetByID", ctx, postID).Return(inReview, nil).Once()
		posts.On("UpdateStatus", ctx, postID, models.PostStatusApproved).Return(nil).Once()

		post, err := service.Advance(ctx, client, postID)
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusApproved, post.Status)
	})

	t.Run("client cannot advance a draft", func(t *testing.T) {
		service, _, _, _, posts, _ := newTestService(t)
		client := models.NewUser("subject-3", "client@brand.com", models.RoleClient)

		posts.On("GetByID", ctx, postID).Return(draft(), nil).Once()

		_, err := service.Advance(ctx, client, postID)
		assert.True(t, services.IsForbiddenError(err))
		posts.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_RefineHooks(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()

	post := models.NewPost(uuid.New(), "2026-09", "subject-1")
	post.ID = postID
	post.Hook = "Stop posting into the void"
	post.BodyCopy = "Here is what actually moves the needle."

	t.Run("returns alternatives", func(t *testing.T) {
		service, generator, _, _, posts, _ := newTestService(t)

		posts.On("GetByID", ctx, postID).Return(post, nil).Once()
		generator.On("Generate", ctx, "", mock.AnythingOfType("string")).
			Return(`{"alternatives":["Void posting ends today","The feed is not listening. Yet."]}`, nil).Once()

		alternatives, err := service.RefineHooks(ctx, postID, "punchy")
		require.NoError(t, err)
		assert.Len(t, alternatives, 2)
	})

	t.Run("empty answer is rejected", func(t *testing.T) {
		service, generator, _, _, posts, _ := newTestService(t)

		posts.On("GetByID", ctx, postID).Return(post, nil).Once()
		generator.On("Generate", ctx, "", mock.AnythingOfType("string")).
			Return(`{"alternatives":[]}`, nil).Once()

		_, err := service.RefineHooks(ctx, postID, "punchy")
		assert.True(t, services.IsGenerationError(err))
	})

	t.Run("unknown post", func(t *testing.T) {
		service, _, _, _, posts, _ := newTestService(t)
		posts.On("GetByID", ctx, postID).Return(nil, repositories.ErrNotFound).Once()

		_, err := service.RefineHooks(ctx, postID, "punchy")
		assert.ErrorIs(t, err, services.ErrPostNotFound)
	})
}
