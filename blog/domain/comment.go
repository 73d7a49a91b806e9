package domain

import (
	"context"
	"time"
)

// Comment is owned by exactly one post and is deleted with it
type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Author    *Author
	Content   string
	CreatedAt time.Time
}

type CommentRepository interface {
	AddComment(ctx context.Context, c *Comment) error
	// GetComment only finds comments that belong to postID
	GetComment(ctx context.Context, postID string, commentID string) (*Comment, error)
	DeleteComment(ctx context.Context, postID string, commentID string) error
}
