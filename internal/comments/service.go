// Package comments implements comment creation and the author-only ownership
// rule that gates comment mutation.
package comments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ms-events/internal/comments/db"
	"ms-events/internal/models"

	"github.com/google/uuid"
)

// ErrForbidden is returned when a caller tries to mutate a comment they did
// not write.
var ErrForbidden = errors.New("not authorized to modify this comment")

// DBLayer is the slice of the comment store the service needs.
type DBLayer interface {
	CreateComment(ctx context.Context, comment models.Comment) error
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	UpdateComment(ctx context.Context, comment models.Comment) error
	DeleteComment(ctx context.Context, id string) error
	ListByEvent(ctx context.Context, eventID string) ([]models.Comment, error)
	EventExists(ctx context.Context, eventID string) (bool, error)
}

type CommentService struct {
	DB DBLayer
}

func NewCommentService(db DBLayer) *CommentService {
	return &CommentService{DB: db}
}

// CreateComment posts a comment on an existing event. Any authenticated
// caller may comment.
func (s *CommentService) CreateComment(ctx context.Context, userID, eventID, content string) (*models.Comment, error) {
	exists, err := s.DB.EventExists(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check event %s: %w", eventID, err)
	}
	if !exists {
		return nil, db.ErrEventNotFound
	}

	now := time.Now().UTC()
	comment := models.Comment{
		ID:        uuid.NewString(),
		EventID:   eventID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.DB.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return &comment, nil
}

// ListComments returns an event's comments, newest first.
func (s *CommentService) ListComments(ctx context.Context, eventID string) ([]models.Comment, error) {
	exists, err := s.DB.EventExists(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check event %s: %w", eventID, err)
	}
	if !exists {
		return nil, db.ErrEventNotFound
	}
	return s.DB.ListByEvent(ctx, eventID)
}

// UpdateComment replaces a comment's content. Author only.
func (s *CommentService) UpdateComment(ctx context.Context, userID, commentID, content string) (*models.Comment, error) {
	comment, err := s.DB.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, ErrForbidden
	}

	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()
	if err := s.DB.UpdateComment(ctx, *comment); err != nil {
		return nil, fmt.Errorf("failed to update comment %s: %w", commentID, err)
	}
	return comment, nil
}

// DeleteComment removes a comment. Author only.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID string) error {
	comment, err := s.DB.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return ErrForbidden
	}

	if err := s.DB.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("failed to delete comment %s: %w", commentID, err)
	}
	return nil
}
