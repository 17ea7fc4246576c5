package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ms-events/internal/models"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// ErrNotFound is returned when a requested event does not exist.
var ErrNotFound = errors.New("event not found")

type DB struct {
	Bun *bun.DB
}

// GetEventByID fetches one event together with its participant list.
func (d *DB) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	participants, err := d.getParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	event.Participants = participants
	return &event, nil
}

func (d *DB) getParticipants(ctx context.Context, eventID string) ([]string, error) {
	var userIDs []string
	err := d.Bun.NewSelect().
		Column("user_id").
		Table("event_participants").
		Where("event_id = ?", eventID).
		Order("joined_at ASC").
		Scan(ctx, &userIDs)
	if err != nil {
		return nil, err
	}
	if userIDs == nil {
		userIDs = []string{}
	}
	return userIDs, nil
}

// ListEvents returns events matching the filter, soonest first, each with its
// participant list attached.
func (d *DB) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	var events []models.Event
	q := d.Bun.NewSelect().Model(&events)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if err := q.Order("date ASC").Scan(ctx); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return []models.Event{}, nil
	}

	eventIDs := make([]string, len(events))
	for i, e := range events {
		eventIDs[i] = e.ID
	}

	var rows []models.Participant
	err := d.Bun.NewSelect().
		Model(&rows).
		Where("event_id IN (?)", bun.In(eventIDs)).
		Order("joined_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	byEvent := make(map[string][]string)
	for _, row := range rows {
		byEvent[row.EventID] = append(byEvent[row.EventID], row.UserID)
	}
	for i := range events {
		events[i].Participants = byEvent[events[i].ID]
		if events[i].Participants == nil {
			events[i].Participants = []string{}
		}
	}
	return events, nil
}

// CreateEvent inserts the event and its organizer's membership row in one
// transaction so the organizer-is-a-participant invariant holds from the
// first read.
func (d *DB) CreateEvent(ctx context.Context, event models.Event) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&event).Exec(ctx); err != nil {
			return err
		}
		organizer := models.Participant{
			EventID:  event.ID,
			UserID:   event.Organizer,
			JoinedAt: event.CreatedAt,
		}
		_, err := tx.NewInsert().Model(&organizer).Exec(ctx)
		return err
	})
}

// UpdateEvent replaces the descriptive fields of an existing event.
func (d *DB) UpdateEvent(ctx context.Context, event models.Event) error {
	res, err := d.Bun.NewUpdate().
		Model(&event).
		Column("title", "description", "date", "location", "category", "max_participants", "updated_at").
		Where("id = ?", event.ID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireRows(res)
}

// UpdateEventStatus sets the lifecycle status only.
func (d *DB) UpdateEventStatus(ctx context.Context, id, status string) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.Event)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireRows(res)
}

// DeleteEvent removes the event. Participant and comment rows go with it via
// ON DELETE CASCADE.
func (d *DB) DeleteEvent(ctx context.Context, id string) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Event)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireRows(res)
}

// AddParticipant inserts a membership row only while the event still has
// room. The capacity check runs in a transaction that first locks the event
// row, so two racing joins for the last slot cannot both get in: the loser
// blocks on the lock and then counts the winner's committed row. Returns
// false when the event is full or the user already joined.
func (d *DB) AddParticipant(ctx context.Context, eventID, userID string, maxParticipants int) (bool, error) {
	joinedAt := time.Now().UTC()

	if maxParticipants <= 0 {
		res, err := d.Bun.ExecContext(ctx,
			`INSERT INTO event_participants (event_id, user_id, joined_at)
			 VALUES (?, ?, ?)
			 ON CONFLICT DO NOTHING`,
			eventID, userID, joinedAt)
		if err != nil {
			return false, err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		return rows > 0, nil
	}

	var joined bool
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// SQLite allows a single writer at a time; the row lock is
		// Postgres-only.
		if d.Bun.Dialect().Name() == dialect.PG {
			if _, err := tx.ExecContext(ctx,
				`SELECT id FROM events WHERE id = ? FOR UPDATE`, eventID); err != nil {
				return err
			}
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO event_participants (event_id, user_id, joined_at)
			 SELECT ?, ?, ?
			 WHERE (SELECT COUNT(*) FROM event_participants WHERE event_id = ?) < ?
			 ON CONFLICT DO NOTHING`,
			eventID, userID, joinedAt, eventID, maxParticipants)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		joined = rows > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return joined, nil
}

// RemoveParticipant deletes a membership row. Removing an absent member is a
// no-op, matching the leave semantics.
func (d *DB) RemoveParticipant(ctx context.Context, eventID, userID string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Participant)(nil)).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Exec(ctx)
	return err
}

func requireRows(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
