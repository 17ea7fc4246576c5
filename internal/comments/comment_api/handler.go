package comment_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ms-events/internal/auth"
	"ms-events/internal/comments"
	"ms-events/internal/comments/db"
	"ms-events/internal/logger"
	"ms-events/internal/models"
	"ms-events/internal/utils"

	"github.com/go-chi/chi/v5"
)

// CommentService is the surface of the comment service the handlers use.
type CommentService interface {
	CreateComment(ctx context.Context, userID, eventID, content string) (*models.Comment, error)
	ListComments(ctx context.Context, eventID string) ([]models.Comment, error)
	UpdateComment(ctx context.Context, userID, commentID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID string) error
}

type Handler struct {
	CommentService CommentService
	Logger         *logger.Logger
}

func NewHandler(svc CommentService, log *logger.Logger) *Handler {
	return &Handler{CommentService: svc, Logger: log}
}

// CreateComment handles POST /api/events/{eventId}/comments
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	var req models.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := auth.UserID(r.Context())
	comment, err := h.CommentService.CreateComment(r.Context(), userID, eventID, req.Content)
	if err != nil {
		h.respondServiceError(w, "CreateComment", err, "Error creating comment")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, comment)
}

// ListComments handles GET /api/events/{eventId}/comments
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	list, err := h.CommentService.ListComments(r.Context(), eventID)
	if err != nil {
		h.respondServiceError(w, "ListComments", err, "Error fetching comments")
		return
	}

	utils.RespondJSON(w, http.StatusOK, list)
}

// UpdateComment handles PUT /api/events/{eventId}/comments/{commentId}
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	commentID := chi.URLParam(r, "commentId")

	var req models.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := auth.UserID(r.Context())
	comment, err := h.CommentService.UpdateComment(r.Context(), userID, commentID, req.Content)
	if err != nil {
		h.respondServiceError(w, "UpdateComment", err, "Error updating comment")
		return
	}

	utils.RespondJSON(w, http.StatusOK, comment)
}

// DeleteComment handles DELETE /api/events/{eventId}/comments/{commentId}
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID := chi.URLParam(r, "commentId")
	userID := auth.UserID(r.Context())

	if err := h.CommentService.DeleteComment(r.Context(), userID, commentID); err != nil {
		h.respondServiceError(w, "DeleteComment", err, "Error deleting comment")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted successfully"})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, err error, fallback string) {
	switch {
	case errors.Is(err, db.ErrEventNotFound):
		utils.RespondError(w, http.StatusNotFound, "Event not found")
	case errors.Is(err, db.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, "Comment not found")
	case errors.Is(err, comments.ErrForbidden):
		utils.RespondError(w, http.StatusForbidden, "Not authorized to modify this comment")
	default:
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
		utils.RespondError(w, http.StatusInternalServerError, fallback)
	}
}
