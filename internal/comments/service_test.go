package comments_test

import (
	"context"
	"testing"
	"time"

	"ms-events/internal/comments"
	"ms-events/internal/comments/db"
	"ms-events/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) CreateComment(ctx context.Context, comment models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockDBLayer) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockDBLayer) UpdateComment(ctx context.Context, comment models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockDBLayer) DeleteComment(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDBLayer) ListByEvent(ctx context.Context, eventID string) ([]models.Comment, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockDBLayer) EventExists(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func TestCreateComment(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := comments.NewCommentService(mockDB)

	mockDB.On("EventExists", mock.Anything, "event-1").Return(true, nil)
	mockDB.On("CreateComment", mock.Anything, mock.AnythingOfType("models.Comment")).Return(nil)

	comment, err := service.CreateComment(context.Background(), "user-a", "event-1", "Looking forward to it")

	assert.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, "event-1", comment.EventID)
	assert.Equal(t, "user-a", comment.UserID)
	assert.Equal(t, "Looking forward to it", comment.Content)
	mockDB.AssertExpectations(t)
}

func TestCreateCommentEventMissing(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := comments.NewCommentService(mockDB)

	mockDB.On("EventExists", mock.Anything, "missing").Return(false, nil)

	_, err := service.CreateComment(context.Background(), "user-a", "missing", "hello")

	assert.ErrorIs(t, err, db.ErrEventNotFound)
	mockDB.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything)
}

func TestListComments(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := comments.NewCommentService(mockDB)

	stored := []models.Comment{
		{ID: "c2", EventID: "event-1", UserID: "user-b", Content: "second", CreatedAt: time.Now()},
		{ID: "c1", EventID: "event-1", UserID: "user-a", Content: "first", CreatedAt: time.Now().Add(-time.Hour)},
	}
	mockDB.On("EventExists", mock.Anything, "event-1").Return(true, nil)
	mockDB.On("ListByEvent", mock.Anything, "event-1").Return(stored, nil)

	list, err := service.ListComments(context.Background(), "event-1")

	assert.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "c2", list[0].ID)
}

func TestListCommentsEventMissing(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := comments.NewCommentService(mockDB)

	mockDB.On("EventExists", mock.Anything, "missing").Return(false, nil)

	_, err := service.ListComments(context.Background(), "missing")

	assert.ErrorIs(t, err, db.ErrEventNotFound)
}

func TestUpdateComment(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := comments.NewCommentService(mockDB)

	mockDB.On("GetCommentByID", mock.Anything, "c1").Return(&models.Comment{
		ID: "c1", EventID: "event-1", UserID: "user-a", Content: "old",
	}, nil)
	mockDB.On("UpdateComment", mock.Anything, mock.AnythingOfType("models.Comment")).Return(nil)

	comment, err := service.UpdateComment(context.Background(), "user-a", "c1", "new content")

	assert.NoError(t, err)
	assert.Equal(t, "new content", comment.Content)
	mockDB.AssertExpectations(t)
}

func TestUpdateCommentForbidden(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := comments.NewCommentService(mockDB)

	mockDB.On("GetCommentByID", mock.Anything, "c1").Return(&models.Comment{
		ID: "c1", EventID: "event-1", UserID: "user-a", Content: "old",
	}, nil)

	_, err := service.UpdateComment(context.Background(), "user-b", "c1", "hijack")

	assert.ErrorIs(t, err, comments.ErrForbidden)
	mockDB.AssertNotCalled(t, "UpdateComment", mock.Anything, mock.Anything)
}

func TestDeleteComment(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := comments.NewCommentService(mockDB)

	mockDB.On("GetCommentByID", mock.Anything, "c1").Return(&models.Comment{
		ID: "c1", EventID: "event-1", UserID: "user-a",
	}, nil)
	mockDB.On("DeleteComment", mock.Anything, "c1").Return(nil)

	err := service.DeleteComment(context.Background(), "user-a", "c1")

	assert.NoError(t, err)
	mockDB.AssertExpectations(t)
}

func TestDeleteCommentForbidden(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := comments.NewCommentService(mockDB)

	mockDB.On("GetCommentByID", mock.Anything, "c1").Return(&models.Comment{
		ID: "c1", EventID: "event-1", UserID: "user-a",
	}, nil)

	err := service.DeleteComment(context.Background(), "user-b", "c1")

	assert.ErrorIs(t, err, comments.ErrForbidden)
	mockDB.AssertNotCalled(t, "DeleteComment", mock.Anything, mock.Anything)
}

func TestDeleteCommentNotFound(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := comments.NewCommentService(mockDB)

	mockDB.On("GetCommentByID", mock.Anything, "missing").Return(nil, db.ErrNotFound)

	err := service.DeleteComment(context.Background(), "user-a", "missing")

	assert.ErrorIs(t, err, db.ErrNotFound)
}
