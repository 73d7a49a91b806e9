package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dfryer1193/goblog-api/blog/domain"
	"github.com/dfryer1193/goblog-api/shared/db"
	"github.com/dfryer1193/goblog-api/shared/db/sqlite"
	"github.com/dfryer1193/goblog-api/shared/errs"
)

var _ domain.CommentRepository = (*SQLiteCommentRepository)(nil)

// SQLiteCommentRepository stores the comments embedded in a post
type SQLiteCommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *SQLiteCommentRepository {
	return &SQLiteCommentRepository{
		db: db,
	}
}

// AddComment appends c to its post. A missing post is reported as errs.ErrNotFound.
func (r *SQLiteCommentRepository) AddComment(ctx context.Context, c *domain.Comment) error {
	if c == nil {
		return fmt.Errorf("comment cannot be nil")
	}

	_, err := db.GetExecutor(ctx, r.db).ExecContext(ctx,
		"INSERT INTO comments (id, post_id, author_id, content, created_at) VALUES (?, ?, ?, ?, ?)",
		c.ID, c.PostID, c.AuthorID, c.Content, c.CreatedAt,
	)
	if err != nil {
		if sqlite.IsForeignKeyViolation(err) {
			return errs.New(errs.ErrNotFound, "Post not found")
		}
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	return nil
}

const getCommentQuery = `
	SELECT m.id, m.post_id, m.author_id, u.name, m.content, m.created_at
	FROM comments m
	JOIN users u ON u.id = m.author_id
	WHERE m.post_id = ? AND m.id = ?
`

func (r *SQLiteCommentRepository) GetComment(ctx context.Context, postID string, commentID string) (*domain.Comment, error) {
	c := &domain.Comment{Author: &domain.Author{}}
	err := db.GetExecutor(ctx, r.db).QueryRowContext(ctx, getCommentQuery, postID, commentID).Scan(
		&c.ID,
		&c.PostID,
		&c.AuthorID,
		&c.Author.Name,
		&c.Content,
		&c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errs.New(errs.ErrNotFound, "Comment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	c.Author.ID = c.AuthorID
	return c, nil
}

func (r *SQLiteCommentRepository) DeleteComment(ctx context.Context, postID string, commentID string) error {
	res, err := db.GetExecutor(ctx, r.db).ExecContext(ctx,
		"DELETE FROM comments WHERE post_id = ? AND id = ?", postID, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return requireAffected(res, "Comment not found")
}

const listCommentsQuery = `
	SELECT m.id, m.post_id, m.author_id, u.name, m.content, m.created_at
	FROM comments m
	JOIN users u ON u.id = m.author_id
	WHERE m.post_id = ?
	ORDER BY m.created_at, m.rowid
`

// listComments returns a post's comments in the order they were added,
// with each author's name resolved
func listComments(ctx context.Context, executor db.Executor, postID string) ([]*domain.Comment, error) {
	rows, err := executor.QueryContext(ctx, listCommentsQuery, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		c := &domain.Comment{Author: &domain.Author{}}
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Author.Name, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		c.Author.ID = c.AuthorID
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}

	return comments, nil
}
