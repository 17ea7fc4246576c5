package user_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ms-events/internal/auth"
	"ms-events/internal/logger"
	"ms-events/internal/models"
	"ms-events/internal/users"
	"ms-events/internal/users/db"
	"ms-events/internal/utils"
)

// UserService is the surface of the user service the handlers use.
type UserService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error
}

type Handler struct {
	UserService UserService
	Logger      *logger.Logger
}

func NewHandler(svc UserService, log *logger.Logger) *Handler {
	return &Handler{UserService: svc, Logger: log}
}

// Register handles POST /api/users/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		utils.RespondError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	resp, err := h.UserService.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, users.ErrEmailExists) {
			utils.RespondError(w, http.StatusConflict, "Email already in use")
			return
		}
		h.Logger.Error("API", fmt.Sprintf("Register: %v", err))
		utils.RespondError(w, http.StatusInternalServerError, "Error registering user")
		return
	}

	h.Logger.LogAuth("REGISTER", fmt.Sprintf("new user %s", resp.User.ID))
	utils.RespondJSON(w, http.StatusCreated, resp)
}

// Login handles POST /api/users/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.UserService.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			utils.RespondError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.Logger.Error("API", fmt.Sprintf("Login: %v", err))
		utils.RespondError(w, http.StatusInternalServerError, "Error logging in")
		return
	}

	h.Logger.LogAuth("LOGIN", fmt.Sprintf("user %s", resp.User.ID))
	utils.RespondJSON(w, http.StatusOK, resp)
}

// GetProfile handles GET /api/users/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	user, err := h.UserService.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.Logger.Error("API", fmt.Sprintf("GetProfile: %v", err))
		utils.RespondError(w, http.StatusInternalServerError, "Error fetching profile")
		return
	}

	utils.RespondJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/users/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := auth.UserID(r.Context())
	user, err := h.UserService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			utils.RespondError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, users.ErrEmailExists):
			utils.RespondError(w, http.StatusConflict, "Email already in use")
		default:
			h.Logger.Error("API", fmt.Sprintf("UpdateProfile: %v", err))
			utils.RespondError(w, http.StatusInternalServerError, "Error updating profile")
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, user)
}

// ChangePassword handles POST /api/users/change-password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.NewPassword == "" {
		utils.RespondError(w, http.StatusBadRequest, "New password is required")
		return
	}

	userID := auth.UserID(r.Context())
	if err := h.UserService.ChangePassword(r.Context(), userID, req); err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			utils.RespondError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, users.ErrInvalidCredentials):
			utils.RespondError(w, http.StatusBadRequest, "Current password is incorrect")
		default:
			h.Logger.Error("API", fmt.Sprintf("ChangePassword: %v", err))
			utils.RespondError(w, http.StatusInternalServerError, "Error changing password")
		}
		return
	}

	h.Logger.LogAuth("PASSWORD", fmt.Sprintf("user %s changed password", userID))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}
