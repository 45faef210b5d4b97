package domain

import (
	"context"
	"time"
)

// Comment is an append-only comment on an event.
type Comment struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentRepository defines the interface for comment storage.
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	// ListByEventID returns the event's comments, newest first.
	ListByEventID(ctx context.Context, eventID string) ([]*Comment, error)
}
