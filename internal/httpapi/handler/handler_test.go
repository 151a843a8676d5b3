package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ilucaslima/clubidulivro/internal/httpapi/models"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/service"
	"github.com/ilucaslima/clubidulivro/internal/leaderboard"

	"github.com/gin-gonic/gin"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(name, email, password, book string, totalPages int) (*models.User, error) {
	args := m.Called(name, email, password, book, totalPages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(email, password string) (string, string, *models.User, error) {
	args := m.Called(email, password)
	if args.Get(2) == nil {
		return args.String(0), args.String(1), nil, args.Error(3)
	}
	return args.String(0), args.String(1), args.Get(2).(*models.User), args.Error(3)
}

func (m *MockAuthService) RefreshAccessToken(refreshToken string) (string, error) {
	args := m.Called(refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) RevokeToken(refreshToken string) error {
	args := m.Called(refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

// MockRecorderService mocks the RecorderService interface
type MockRecorderService struct {
	mock.Mock
}

func (m *MockRecorderService) RecordProgress(ctx context.Context, userID string, pagesRead int, idempotencyKey string) (*service.RecordResult, error) {
	args := m.Called(ctx, userID, pagesRead, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecordResult), args.Error(1)
}

// MockProfileService mocks the ProfileService interface
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Me(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockProfileService) StartBook(ctx context.Context, userID, title string, totalPages int) (*models.User, error) {
	args := m.Called(ctx, userID, title, totalPages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockBoardService mocks the BoardService interface
type MockBoardService struct {
	mock.Mock
}

func (m *MockBoardService) Board(ctx context.Context) (*service.BoardView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BoardView), args.Error(1)
}

func (m *MockBoardService) Ranking(ctx context.Context, monthly bool) ([]leaderboard.Entry, error) {
	args := m.Called(ctx, monthly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]leaderboard.Entry), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// fakeAuth injects an authenticated user the way the auth middleware would.
func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}
