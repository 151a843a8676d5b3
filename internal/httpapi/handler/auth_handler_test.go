package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/ilucaslima/clubidulivro/internal/httpapi/dto"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/models"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/service"
)

func TestAuthHandlerRegister_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService, zap.NewNop())
	router := setupRouter()
	router.POST("/register", h.Register)

	user := &models.User{
		ID:         "user-123",
		Name:       "Ana",
		Email:      "ana@example.com",
		Book:       "Dom Casmurro",
		TotalPages: 256,
		DailyGoal:  9,
	}
	mockAuthService.On("Register", "Ana", "ana@example.com", "password123", "Dom Casmurro", 256).Return(user, nil)

	reqBody := dto.RegisterRequest{
		Name:       "Ana",
		Email:      "ana@example.com",
		Password:   "password123",
		Book:       "Dom Casmurro",
		TotalPages: 256,
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user-123", resp["user_id"])
	assert.Equal(t, float64(9), resp["daily_goal"])
	mockAuthService.AssertExpectations(t)
}

func TestAuthHandlerRegister_EmailInUse(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService, zap.NewNop())
	router := setupRouter()
	router.POST("/register", h.Register)

	mockAuthService.On("Register", "Ana", "ana@example.com", "password123", "Dom Casmurro", 256).
		Return(nil, service.ErrEmailInUse)

	body, _ := json.Marshal(dto.RegisterRequest{
		Name:       "Ana",
		Email:      "ana@example.com",
		Password:   "password123",
		Book:       "Dom Casmurro",
		TotalPages: 256,
	})

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandlerRegister_MissingFields(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService, zap.NewNop())
	router := setupRouter()
	router.POST("/register", h.Register)

	body, _ := json.Marshal(map[string]any{"email": "ana@example.com"})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockAuthService.AssertNotCalled(t, "Register")
}

func TestAuthHandlerLogin_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService, zap.NewNop())
	router := setupRouter()
	router.POST("/login", h.Login)

	user := &models.User{ID: "user-123", Name: "Ana", Email: "ana@example.com"}
	mockAuthService.On("Login", "ana@example.com", "password123").
		Return("access-token", "refresh-token", user, nil)

	body, _ := json.Marshal(dto.LoginRequest{Email: "ana@example.com", Password: "password123"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.AuthResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "access-token", resp.AccessToken)
	assert.Equal(t, "refresh-token", resp.RefreshToken)
	assert.Equal(t, "user-123", resp.UserID)
}

func TestAuthHandlerLogin_InvalidCredentials(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService, zap.NewNop())
	router := setupRouter()
	router.POST("/login", h.Login)

	mockAuthService.On("Login", "ana@example.com", "wrong").
		Return("", "", nil, service.ErrInvalidCredentials)

	body, _ := json.Marshal(dto.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerRevoke_AlwaysOK(t *testing.T) {
	mockAuthService := new(MockAuthService)
	h := NewAuthHandler(mockAuthService, zap.NewNop())
	router := setupRouter()
	router.POST("/revoke", h.RevokeToken)

	mockAuthService.On("RevokeToken", "unknown-token").Return(service.ErrInvalidToken)

	body, _ := json.Marshal(dto.RevokeTokenRequest{RefreshToken: "unknown-token"})
	req := httptest.NewRequest(http.MethodPost, "/revoke", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
