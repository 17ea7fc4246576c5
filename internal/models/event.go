package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string    `bun:"id,pk" json:"id"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description" json:"description"`
	Date        time.Time `bun:"date,notnull" json:"date"`
	Location    string    `bun:"location" json:"location"`
	Category    string    `bun:"category" json:"category"`
	Organizer   string    `bun:"organizer,notnull" json:"organizer"`
	// MaxParticipants of zero means the event has no capacity limit.
	MaxParticipants int       `bun:"max_participants" json:"maxParticipants,omitempty"`
	Status          string    `bun:"status,notnull" json:"status"`
	Participants    []string  `bun:"-" json:"participants"`
	CreatedAt       time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt       time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}

type Participant struct {
	bun.BaseModel `bun:"table:event_participants"`

	EventID  string    `bun:"event_id,pk" json:"eventId"`
	UserID   string    `bun:"user_id,pk" json:"userId"`
	JoinedAt time.Time `bun:"joined_at,notnull" json:"joinedAt"`
}

type CreateEventRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Date            time.Time `json:"date"`
	Location        string    `json:"location"`
	Category        string    `json:"category"`
	MaxParticipants int       `json:"maxParticipants"`
}

// UpdateEventRequest carries the descriptive fields an organizer may edit.
// Nil fields are left unchanged.
type UpdateEventRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Date            *time.Time `json:"date"`
	Location        *string    `json:"location"`
	Category        *string    `json:"category"`
	MaxParticipants *int       `json:"maxParticipants"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

type EventFilter struct {
	Category string
	Status   string
}
