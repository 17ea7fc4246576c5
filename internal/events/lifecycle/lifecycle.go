// Package lifecycle holds the event lifecycle and membership rules. It is
// pure domain logic: it never touches the database or the network, it only
// inspects an event's current state plus the caller's identity and decides
// whether an operation is allowed.
package lifecycle

import (
	"errors"
	"time"

	"ms-events/internal/models"

	"github.com/google/uuid"
)

// Event lifecycle statuses. Every status is a valid target for an
// organizer-initiated transition; there is no adjacency graph.
const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var (
	ErrForbidden     = errors.New("not authorized")
	ErrAlreadyJoined = errors.New("already joined this event")
	ErrEventFull     = errors.New("event is full")
	ErrInvalidStatus = errors.New("invalid status")
)

// ValidStatus reports whether s is one of the four known statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// NewEvent builds a fresh event for the given organizer. The organizer is
// always the first participant and the event starts out upcoming.
func NewEvent(req models.CreateEventRequest, organizerID string) models.Event {
	now := time.Now().UTC()
	return models.Event{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		Location:        req.Location,
		Category:        req.Category,
		Organizer:       organizerID,
		MaxParticipants: req.MaxParticipants,
		Status:          StatusUpcoming,
		Participants:    []string{organizerID},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// CheckOrganizer returns ErrForbidden unless userID is the event's organizer.
// Edits, status transitions and deletion all gate on this.
func CheckOrganizer(e *models.Event, userID string) error {
	if e.Organizer != userID {
		return ErrForbidden
	}
	return nil
}

// IsParticipant reports whether userID has joined the event.
func IsParticipant(e *models.Event, userID string) bool {
	for _, p := range e.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// CheckJoin decides whether userID may join. The already-joined check runs
// before the capacity check, so a member of a full event gets
// ErrAlreadyJoined rather than ErrEventFull.
func CheckJoin(e *models.Event, userID string) error {
	if IsParticipant(e, userID) {
		return ErrAlreadyJoined
	}
	if e.MaxParticipants > 0 && len(e.Participants) >= e.MaxParticipants {
		return ErrEventFull
	}
	return nil
}

// Join validates and applies a join, returning the updated participant set.
func Join(e *models.Event, userID string) error {
	if err := CheckJoin(e, userID); err != nil {
		return err
	}
	e.Participants = append(e.Participants, userID)
	return nil
}

// Leave removes userID from the participants. Leaving an event the caller
// never joined is a no-op.
func Leave(e *models.Event, userID string) {
	out := e.Participants[:0]
	for _, p := range e.Participants {
		if p != userID {
			out = append(out, p)
		}
	}
	e.Participants = out
}

// SetStatus applies an organizer-initiated status transition. The target only
// has to be one of the four known values; transitions out of completed or
// cancelled are accepted the same way the rest are.
func SetStatus(e *models.Event, userID, status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	if err := CheckOrganizer(e, userID); err != nil {
		return err
	}
	e.Status = status
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// ApplyUpdate copies the non-nil descriptive fields of req onto the event.
// Authorization is the caller's job via CheckOrganizer.
func ApplyUpdate(e *models.Event, req models.UpdateEventRequest) {
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Date != nil {
		e.Date = *req.Date
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.Category != nil {
		e.Category = *req.Category
	}
	if req.MaxParticipants != nil {
		e.MaxParticipants = *req.MaxParticipants
	}
	e.UpdatedAt = time.Now().UTC()
}
