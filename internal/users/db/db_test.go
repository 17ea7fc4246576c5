package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ms-events/internal/models"
	"ms-events/internal/users/db"

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
	require.NoError(t, bunDB.ResetModel(context.Background(), (*models.User)(nil)))

	t.Cleanup(func() { bunDB.Close() })
	return &db.DB{Bun: bunDB}
}

func sampleUser(id, email string) models.User {
	now := time.Now().UTC().Truncate(time.Second)
	return models.User{
		ID:           id,
		Email:        email,
		PasswordHash: "hashed",
		FirstName:    "Alice",
		LastName:     "Smith",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCreateAndGetUser(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, sampleUser("user-1", "alice@example.com")))

	byID, err := store.GetUserByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", byEmail.ID)
}

func TestGetUserNotFound(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	_, err := store.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, err = store.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestUpdateUser(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	user := sampleUser("user-1", "alice@example.com")
	require.NoError(t, store.CreateUser(ctx, user))

	user.FirstName = "Alicia"
	user.Email = "alicia@example.com"
	require.NoError(t, store.UpdateUser(ctx, user))

	got, err := store.GetUserByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.FirstName)
	assert.Equal(t, "alicia@example.com", got.Email)
}
