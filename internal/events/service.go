package events

import (
	"context"
	"fmt"

	"ms-events/internal/events/lifecycle"
	"ms-events/internal/logger"
	"ms-events/internal/models"
)

// DBLayer is the slice of the event store the service needs.
type DBLayer interface {
	CreateEvent(ctx context.Context, event models.Event) error
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	UpdateEvent(ctx context.Context, event models.Event) error
	UpdateEventStatus(ctx context.Context, id, status string) error
	DeleteEvent(ctx context.Context, id string) error
	AddParticipant(ctx context.Context, eventID, userID string, maxParticipants int) (bool, error)
	RemoveParticipant(ctx context.Context, eventID, userID string) error
}

// Publisher streams domain events to Kafka.
type Publisher interface {
	PublishEventCreated(event models.Event) error
	PublishEventUpdated(event models.Event) error
	PublishEventDeleted(eventID string) error
	PublishStatusChanged(event models.Event) error
	PublishMemberJoined(eventID, userID string) error
	PublishMemberLeft(eventID, userID string) error
}

type EventService struct {
	DB     DBLayer
	Kafka  Publisher
	Logger *logger.Logger
}

func NewEventService(db DBLayer, kafka Publisher, log *logger.Logger) *EventService {
	return &EventService{DB: db, Kafka: kafka, Logger: log}
}

// CreateEvent builds a new event owned by organizerID and persists it.
func (s *EventService) CreateEvent(ctx context.Context, organizerID string, req models.CreateEventRequest) (*models.Event, error) {
	event := lifecycle.NewEvent(req, organizerID)

	if err := s.DB.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if s.Kafka != nil {
		if err := s.Kafka.PublishEventCreated(event); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("publish event created: %v", err))
		}
	}

	return &event, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.DB.GetEventByID(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	return s.DB.ListEvents(ctx, filter)
}

// UpdateEvent replaces descriptive fields. Organizer only.
func (s *EventService) UpdateEvent(ctx context.Context, userID, id string, req models.UpdateEventRequest) (*models.Event, error) {
	event, err := s.DB.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CheckOrganizer(event, userID); err != nil {
		return nil, err
	}

	lifecycle.ApplyUpdate(event, req)
	if err := s.DB.UpdateEvent(ctx, *event); err != nil {
		return nil, fmt.Errorf("failed to update event %s: %w", id, err)
	}

	if s.Kafka != nil {
		if err := s.Kafka.PublishEventUpdated(*event); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("publish event updated: %v", err))
		}
	}

	return event, nil
}

// SetStatus applies an organizer-initiated lifecycle transition.
func (s *EventService) SetStatus(ctx context.Context, userID, id, status string) (*models.Event, error) {
	if !lifecycle.ValidStatus(status) {
		return nil, lifecycle.ErrInvalidStatus
	}

	event, err := s.DB.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.SetStatus(event, userID, status); err != nil {
		return nil, err
	}

	if err := s.DB.UpdateEventStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update status of event %s: %w", id, err)
	}

	if s.Kafka != nil {
		if err := s.Kafka.PublishStatusChanged(*event); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("publish status changed: %v", err))
		}
	}

	return event, nil
}

// JoinEvent adds the caller to the participant set. The store performs the
// capacity check and insert under a lock on the event row, so a concurrent
// join for the last slot cannot overbook; the lifecycle checks run first
// purely to report the precise rejection reason.
func (s *EventService) JoinEvent(ctx context.Context, userID, id string) (*models.Event, error) {
	event, err := s.DB.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CheckJoin(event, userID); err != nil {
		return nil, err
	}

	ok, err := s.DB.AddParticipant(ctx, id, userID, event.MaxParticipants)
	if err != nil {
		return nil, fmt.Errorf("failed to join event %s: %w", id, err)
	}
	if !ok {
		// Lost the race for the last slot.
		return nil, lifecycle.ErrEventFull
	}

	event.Participants = append(event.Participants, userID)

	if s.Kafka != nil {
		if err := s.Kafka.PublishMemberJoined(id, userID); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("publish member joined: %v", err))
		}
	}

	return event, nil
}

// LeaveEvent removes the caller from the participant set. Leaving an event
// the caller never joined succeeds and changes nothing.
func (s *EventService) LeaveEvent(ctx context.Context, userID, id string) (*models.Event, error) {
	event, err := s.DB.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.RemoveParticipant(ctx, id, userID); err != nil {
		return nil, fmt.Errorf("failed to leave event %s: %w", id, err)
	}
	lifecycle.Leave(event, userID)

	if s.Kafka != nil {
		if err := s.Kafka.PublishMemberLeft(id, userID); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("publish member left: %v", err))
		}
	}

	return event, nil
}

// DeleteEvent removes the event. Organizer only.
func (s *EventService) DeleteEvent(ctx context.Context, userID, id string) error {
	event, err := s.DB.GetEventByID(ctx, id)
	if err != nil {
		return err
	}
	if err := lifecycle.CheckOrganizer(event, userID); err != nil {
		return err
	}

	if err := s.DB.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}

	if s.Kafka != nil {
		if err := s.Kafka.PublishEventDeleted(id); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("publish event deleted: %v", err))
		}
	}

	return nil
}
