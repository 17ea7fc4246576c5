package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ms-events/internal/comments/db"
	"ms-events/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, bunDB.ResetModel(context.Background(), (*models.Event)(nil)))
	require.NoError(t, bunDB.ResetModel(context.Background(), (*models.Comment)(nil)))

	t.Cleanup(func() { bunDB.Close() })
	return &db.DB{Bun: bunDB}
}

func insertEvent(t *testing.T, store *db.DB, id string) {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	event := models.Event{
		ID:        id,
		Title:     "Go Meetup",
		Date:      now.Add(48 * time.Hour),
		Organizer: "user-a",
		Status:    "upcoming",
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := store.Bun.NewInsert().Model(&event).Exec(context.Background())
	require.NoError(t, err)
}

func sampleComment(id, eventID, userID string, createdAt time.Time) models.Comment {
	return models.Comment{
		ID:        id,
		EventID:   eventID,
		UserID:    userID,
		Content:   "a comment",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestCreateAndGetComment(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	insertEvent(t, store, "event-1")

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.CreateComment(ctx, sampleComment("c1", "event-1", "user-a", now)))

	got, err := store.GetCommentByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "event-1", got.EventID)
	assert.Equal(t, "user-a", got.UserID)
	assert.Equal(t, "a comment", got.Content)
}

func TestGetCommentNotFound(t *testing.T) {
	store := setupTestDB(t)

	_, err := store.GetCommentByID(context.Background(), "missing")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestUpdateComment(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	insertEvent(t, store, "event-1")

	now := time.Now().UTC().Truncate(time.Second)
	comment := sampleComment("c1", "event-1", "user-a", now)
	require.NoError(t, store.CreateComment(ctx, comment))

	comment.Content = "edited"
	comment.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, store.UpdateComment(ctx, comment))

	got, err := store.GetCommentByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)

	missing := sampleComment("nope", "event-1", "user-a", now)
	assert.ErrorIs(t, store.UpdateComment(ctx, missing), db.ErrNotFound)
}

func TestDeleteComment(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	insertEvent(t, store, "event-1")

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.CreateComment(ctx, sampleComment("c1", "event-1", "user-a", now)))

	require.NoError(t, store.DeleteComment(ctx, "c1"))
	assert.ErrorIs(t, store.DeleteComment(ctx, "c1"), db.ErrNotFound)
}

func TestListByEvent(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	insertEvent(t, store, "event-1")
	insertEvent(t, store, "event-2")

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.CreateComment(ctx, sampleComment("c1", "event-1", "user-a", now.Add(-time.Hour))))
	require.NoError(t, store.CreateComment(ctx, sampleComment("c2", "event-1", "user-b", now)))
	require.NoError(t, store.CreateComment(ctx, sampleComment("c3", "event-2", "user-a", now)))

	list, err := store.ListByEvent(ctx, "event-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Newest first.
	assert.Equal(t, "c2", list[0].ID)
	assert.Equal(t, "c1", list[1].ID)

	empty, err := store.ListByEvent(ctx, "event-3")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEventExists(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	insertEvent(t, store, "event-1")

	exists, err := store.EventExists(ctx, "event-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.EventExists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}
