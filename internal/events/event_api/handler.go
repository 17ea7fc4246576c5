package event_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ms-events/internal/auth"
	"ms-events/internal/events/db"
	"ms-events/internal/events/lifecycle"
	"ms-events/internal/logger"
	"ms-events/internal/models"
	"ms-events/internal/utils"

	"github.com/go-chi/chi/v5"
)

// EventService is the surface of the event service the handlers use.
type EventService interface {
	CreateEvent(ctx context.Context, organizerID string, req models.CreateEventRequest) (*models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	UpdateEvent(ctx context.Context, userID, id string, req models.UpdateEventRequest) (*models.Event, error)
	SetStatus(ctx context.Context, userID, id, status string) (*models.Event, error)
	JoinEvent(ctx context.Context, userID, id string) (*models.Event, error)
	LeaveEvent(ctx context.Context, userID, id string) (*models.Event, error)
	DeleteEvent(ctx context.Context, userID, id string) error
}

type Handler struct {
	EventService EventService
	Logger       *logger.Logger
}

func NewHandler(svc EventService, log *logger.Logger) *Handler {
	return &Handler{EventService: svc, Logger: log}
}

// CreateEvent handles POST /api/events
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" || req.Date.IsZero() {
		utils.RespondError(w, http.StatusBadRequest, "Title and date are required")
		return
	}

	userID := auth.UserID(r.Context())
	event, err := h.EventService.CreateEvent(r.Context(), userID, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: %v", err))
		utils.RespondError(w, http.StatusInternalServerError, "Error creating event")
		return
	}

	h.Logger.LogEvent("CREATE", event.ID, fmt.Sprintf("created by %s", userID))
	utils.RespondJSON(w, http.StatusCreated, event)
}

// ListEvents handles GET /api/events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter := models.EventFilter{
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
	}

	events, err := h.EventService.ListEvents(r.Context(), filter)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListEvents: %v", err))
		utils.RespondError(w, http.StatusInternalServerError, "Error fetching events")
		return
	}

	utils.RespondJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /api/events/{id}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	event, err := h.EventService.GetEvent(r.Context(), eventID)
	if err != nil {
		h.respondServiceError(w, "GetEvent", err, "Error fetching event")
		return
	}

	utils.RespondJSON(w, http.StatusOK, event)
}

// UpdateEvent handles PUT /api/events/{id}
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	var req models.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := auth.UserID(r.Context())
	event, err := h.EventService.UpdateEvent(r.Context(), userID, eventID, req)
	if err != nil {
		h.respondServiceError(w, "UpdateEvent", err, "Error updating event")
		return
	}

	h.Logger.LogEvent("UPDATE", eventID, fmt.Sprintf("updated by %s", userID))
	utils.RespondJSON(w, http.StatusOK, event)
}

// UpdateEventStatus handles PUT /api/events/{id}/status
func (h *Handler) UpdateEventStatus(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	var req models.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := auth.UserID(r.Context())
	event, err := h.EventService.SetStatus(r.Context(), userID, eventID, req.Status)
	if err != nil {
		h.respondServiceError(w, "UpdateEventStatus", err, "Error updating event status")
		return
	}

	h.Logger.LogEvent("STATUS", eventID, fmt.Sprintf("set to %s by %s", req.Status, userID))
	utils.RespondJSON(w, http.StatusOK, event)
}

// JoinEvent handles POST /api/events/{id}/join
func (h *Handler) JoinEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	userID := auth.UserID(r.Context())

	event, err := h.EventService.JoinEvent(r.Context(), userID, eventID)
	if err != nil {
		h.respondServiceError(w, "JoinEvent", err, "Error joining event")
		return
	}

	h.Logger.LogEvent("JOIN", eventID, fmt.Sprintf("%s joined", userID))
	utils.RespondJSON(w, http.StatusOK, event)
}

// LeaveEvent handles POST /api/events/{id}/leave
func (h *Handler) LeaveEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	userID := auth.UserID(r.Context())

	event, err := h.EventService.LeaveEvent(r.Context(), userID, eventID)
	if err != nil {
		h.respondServiceError(w, "LeaveEvent", err, "Error leaving event")
		return
	}

	h.Logger.LogEvent("LEAVE", eventID, fmt.Sprintf("%s left", userID))
	utils.RespondJSON(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /api/events/{id}
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	userID := auth.UserID(r.Context())

	if err := h.EventService.DeleteEvent(r.Context(), userID, eventID); err != nil {
		h.respondServiceError(w, "DeleteEvent", err, "Error deleting event")
		return
	}

	h.Logger.LogEvent("DELETE", eventID, fmt.Sprintf("deleted by %s", userID))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}

// respondServiceError maps domain errors onto status codes:
// 404 missing event, 403 non-organizer, 400 business rules, 500 the rest.
func (h *Handler) respondServiceError(w http.ResponseWriter, op string, err error, fallback string) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, "Event not found")
	case errors.Is(err, lifecycle.ErrForbidden):
		utils.RespondError(w, http.StatusForbidden, "Not authorized to modify this event")
	case errors.Is(err, lifecycle.ErrAlreadyJoined):
		utils.RespondError(w, http.StatusBadRequest, "Already joined this event")
	case errors.Is(err, lifecycle.ErrEventFull):
		utils.RespondError(w, http.StatusBadRequest, "Event is full")
	case errors.Is(err, lifecycle.ErrInvalidStatus):
		utils.RespondError(w, http.StatusBadRequest, "Invalid status")
	default:
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
		utils.RespondError(w, http.StatusInternalServerError, fallback)
	}
}
