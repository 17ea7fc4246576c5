package user_api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ms-events/internal/auth"
	"ms-events/internal/logger"
	"ms-events/internal/models"
	"ms-events/internal/users"
	"ms-events/internal/users/user_api"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockUserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

var testIssuer = auth.NewTokenIssuer("test-secret", time.Hour)

func setupRouter(svc user_api.UserService) *chi.Mux {
	handler := user_api.NewHandler(svc, &logger.Logger{})

	r := chi.NewRouter()
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(testIssuer))

			r.Get("/profile", handler.GetProfile)
			r.Put("/profile", handler.UpdateProfile)
			r.Post("/change-password", handler.ChangePassword)
		})
	})
	return r
}

func sampleAuthResponse() *models.AuthResponse {
	return &models.AuthResponse{
		Token: "signed-token",
		User: models.User{
			ID:        "user-1",
			Email:     "alice@example.com",
			FirstName: "Alice",
			LastName:  "Smith",
		},
	}
}

func TestRegisterHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockUserService)
		router := setupRouter(mockService)

		mockService.On("Register", mock.Anything, mock.AnythingOfType("models.RegisterRequest")).
			Return(sampleAuthResponse(), nil)

		body, _ := json.Marshal(map[string]string{
			"email":      "alice@example.com",
			"password":   "secret123",
			"first_name": "Alice",
			"last_name":  "Smith",
		})
		req := httptest.NewRequest("POST", "/api/users/register", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "signed-token")
		// The password hash never leaves the service.
		assert.NotContains(t, w.Body.String(), "password_hash")
	})

	t.Run("Missing fields", func(t *testing.T) {
		mockService := new(MockUserService)
		router := setupRouter(mockService)

		body, _ := json.Marshal(map[string]string{"email": "alice@example.com"})
		req := httptest.NewRequest("POST", "/api/users/register", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		mockService := new(MockUserService)
		router := setupRouter(mockService)

		mockService.On("Register", mock.Anything, mock.AnythingOfType("models.RegisterRequest")).
			Return(nil, users.ErrEmailExists)

		body, _ := json.Marshal(map[string]string{
			"email":      "alice@example.com",
			"password":   "secret123",
			"first_name": "Alice",
			"last_name":  "Smith",
		})
		req := httptest.NewRequest("POST", "/api/users/register", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Email already in use")
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockUserService)
		router := setupRouter(mockService)

		mockService.On("Login", mock.Anything, mock.AnythingOfType("models.LoginRequest")).
			Return(sampleAuthResponse(), nil)

		body, _ := json.Marshal(map[string]string{
			"email":    "alice@example.com",
			"password": "secret123",
		})
		req := httptest.NewRequest("POST", "/api/users/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "signed-token")
	})

	t.Run("Wrong credentials", func(t *testing.T) {
		mockService := new(MockUserService)
		router := setupRouter(mockService)

		mockService.On("Login", mock.Anything, mock.AnythingOfType("models.LoginRequest")).
			Return(nil, users.ErrInvalidCredentials)

		body, _ := json.Marshal(map[string]string{
			"email":    "alice@example.com",
			"password": "wrong",
		})
		req := httptest.NewRequest("POST", "/api/users/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetProfileHandler(t *testing.T) {
	mockService := new(MockUserService)
	router := setupRouter(mockService)

	mockService.On("Profile", mock.Anything, "user-1").
		Return(&sampleAuthResponse().User, nil)

	token, err := testIssuer.Issue("user-1", "alice@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/users/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
	mockService.AssertExpectations(t)
}

func TestGetProfileUnauthorized(t *testing.T) {
	mockService := new(MockUserService)
	router := setupRouter(mockService)

	req := httptest.NewRequest("GET", "/api/users/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "Profile", mock.Anything, mock.Anything)
}

func TestChangePasswordHandler(t *testing.T) {
	t.Run("Wrong current password", func(t *testing.T) {
		mockService := new(MockUserService)
		router := setupRouter(mockService)

		mockService.On("ChangePassword", mock.Anything, "user-1", mock.AnythingOfType("models.ChangePasswordRequest")).
			Return(users.ErrInvalidCredentials)

		token, err := testIssuer.Issue("user-1", "alice@example.com")
		require.NoError(t, err)

		body, _ := json.Marshal(map[string]string{
			"currentPassword": "wrong",
			"newPassword":     "newsecret456",
		})
		req := httptest.NewRequest("POST", "/api/users/change-password", bytes.NewBuffer(body))
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Current password is incorrect")
	})

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockUserService)
		router := setupRouter(mockService)

		mockService.On("ChangePassword", mock.Anything, "user-1", mock.AnythingOfType("models.ChangePasswordRequest")).
			Return(nil)

		token, err := testIssuer.Issue("user-1", "alice@example.com")
		require.NoError(t, err)

		body, _ := json.Marshal(map[string]string{
			"currentPassword": "secret123",
			"newPassword":     "newsecret456",
		})
		req := httptest.NewRequest("POST", "/api/users/change-password", bytes.NewBuffer(body))
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Password changed successfully")
	})
}
