package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ilucaslima/clubidulivro/internal/httpapi/models"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/service"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(name, email, password, book string, totalPages int) (*models.User, error) {
	args := m.Called(name, email, password, book, totalPages)
	return nil, args.Error(1)
}

func (m *mockAuthService) Login(email, password string) (string, string, *models.User, error) {
	args := m.Called(email, password)
	return args.String(0), args.String(1), nil, args.Error(3)
}

func (m *mockAuthService) RefreshAccessToken(refreshToken string) (string, error) {
	args := m.Called(refreshToken)
	return args.String(0), args.Error(1)
}

func (m *mockAuthService) RevokeToken(refreshToken string) error {
	args := m.Called(refreshToken)
	return args.Error(0)
}

func (m *mockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func authTestRouter(authService service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(authService), func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return router
}

func TestAuthMiddleware_ValidBearerToken(t *testing.T) {
	authService := new(mockAuthService)
	authService.On("ValidateToken", "good-token").Return(&service.Claims{UserID: "user-1"}, nil)

	router := authTestRouter(authService)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestAuthMiddleware_TokenQueryFallback(t *testing.T) {
	authService := new(mockAuthService)
	authService.On("ValidateToken", "ws-token").Return(&service.Claims{UserID: "user-1"}, nil)

	router := authTestRouter(authService)
	req := httptest.NewRequest(http.MethodGet, "/protected?token=ws-token", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	router := authTestRouter(new(mockAuthService))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	router := authTestRouter(new(mockAuthService))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "good-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	authService := new(mockAuthService)
	authService.On("ValidateToken", "bad-token").Return(nil, service.ErrInvalidToken)

	router := authTestRouter(authService)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
