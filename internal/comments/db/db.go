package db

import (
	"context"
	"database/sql"
	"errors"

	"ms-events/internal/models"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a requested comment does not exist.
var ErrNotFound = errors.New("comment not found")

// ErrEventNotFound is returned when a comment references a missing event.
var ErrEventNotFound = errors.New("event not found")

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateComment(ctx context.Context, comment models.Comment) error {
	_, err := d.Bun.NewInsert().Model(&comment).Exec(ctx)
	return err
}

func (d *DB) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	err := d.Bun.NewSelect().
		Model(&comment).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (d *DB) UpdateComment(ctx context.Context, comment models.Comment) error {
	res, err := d.Bun.NewUpdate().
		Model(&comment).
		Column("content", "updated_at").
		Where("id = ?", comment.ID).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) DeleteComment(ctx context.Context, id string) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Comment)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByEvent returns an event's comments, newest first.
func (d *DB) ListByEvent(ctx context.Context, eventID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := d.Bun.NewSelect().
		Model(&comments).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// EventExists checks the parent event before a comment is created or listed.
func (d *DB) EventExists(ctx context.Context, eventID string) (bool, error) {
	return d.Bun.NewSelect().
		Model((*models.Event)(nil)).
		Where("id = ?", eventID).
		Exists(ctx)
}
