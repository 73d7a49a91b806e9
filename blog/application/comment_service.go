package application

import (
	"context"
	"strings"
	"time"

	"github.com/dfryer1193/goblog-api/blog/domain"
	"github.com/dfryer1193/goblog-api/shared/errs"
	"github.com/google/uuid"
)

type CommentService struct {
	posts    domain.PostRepository
	comments domain.CommentRepository
	now      func() time.Time
}

func NewCommentService(posts domain.PostRepository, comments domain.CommentRepository) *CommentService {
	return &CommentService{
		posts:    posts,
		comments: comments,
		now:      time.Now,
	}
}

// AddComment appends a comment by callerID to the post
func (s *CommentService) AddComment(ctx context.Context, postID, callerID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errs.New(errs.ErrValidation, "Comment cannot be empty")
	}

	comment := &domain.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  callerID,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}

	if err := s.comments.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	return s.comments.GetComment(ctx, postID, comment.ID)
}

// DeleteComment removes a comment from the post when callerID wrote it
func (s *CommentService) DeleteComment(ctx context.Context, postID, commentID, callerID string) error {
	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		return err
	}

	comment, err := s.comments.GetComment(ctx, postID, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != callerID {
		return errs.New(errs.ErrForbidden, "Not authorized to delete this comment")
	}

	return s.comments.DeleteComment(ctx, postID, commentID)
}
