package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dfryer1193/goblog-api/blog/domain"
	"github.com/dfryer1193/goblog-api/shared/db"
	"github.com/dfryer1193/goblog-api/shared/db/sqlite"
	"github.com/dfryer1193/goblog-api/shared/errs"
)

var _ domain.PostRepository = (*SQLitePostRepository)(nil)

// SQLitePostRepository implements domain.PostRepository using SQL database (SQLite)
type SQLitePostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new SQLitePostRepository from a standard sql.DB
func NewPostRepository(db *sql.DB) *SQLitePostRepository {
	return &SQLitePostRepository{
		db: db,
	}
}

const insertPostQuery = `
	INSERT INTO posts (id, title, content, slug, author_id, category_id, tags, featured_image, updated_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// CreatePost inserts a new post. A duplicate slug is reported as errs.ErrConflict.
func (r *SQLitePostRepository) CreatePost(ctx context.Context, p *domain.Post) error {
	if p == nil {
		return fmt.Errorf("post cannot be nil")
	}

	if p.ID == "" {
		return fmt.Errorf("post ID cannot be empty")
	}

	tags, err := encodeTags(p.Tags)
	if err != nil {
		return err
	}

	executor := db.GetExecutor(ctx, r.db)
	_, err = executor.ExecContext(ctx, insertPostQuery,
		p.ID,
		p.Title,
		p.Content,
		p.Slug,
		p.AuthorID,
		p.CategoryID,
		tags,
		p.FeaturedImage,
		nullTime(p.UpdatedAt),
		p.CreatedAt,
	)
	if err != nil {
		if sqlite.IsUniqueViolation(err) {
			return errs.New(errs.ErrConflict, "A post with this title already exists")
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// author_id and created_at are deliberately absent: they never change.
const updatePostQuery = `
	UPDATE posts
	SET title = ?, content = ?, slug = ?, category_id = ?, tags = ?, featured_image = ?, updated_at = ?
	WHERE id = ?
`

// UpdatePost writes the mutable fields of p back to the store
func (r *SQLitePostRepository) UpdatePost(ctx context.Context, p *domain.Post) error {
	if p == nil {
		return fmt.Errorf("post cannot be nil")
	}

	tags, err := encodeTags(p.Tags)
	if err != nil {
		return err
	}

	executor := db.GetExecutor(ctx, r.db)
	res, err := executor.ExecContext(ctx, updatePostQuery,
		p.Title,
		p.Content,
		p.Slug,
		p.CategoryID,
		tags,
		p.FeaturedImage,
		nullTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		if sqlite.IsUniqueViolation(err) {
			return errs.New(errs.ErrConflict, "A post with this title already exists")
		}
		return fmt.Errorf("failed to update post: %w", err)
	}

	return requireAffected(res, "Post not found")
}

const selectPostColumns = `
	SELECT p.id, p.title, p.content, p.slug, p.author_id, u.name, u.email,
		p.category_id, c.name, p.tags, p.featured_image, p.updated_at, p.created_at,
		(SELECT COUNT(*) FROM comments m WHERE m.post_id = p.id)
	FROM posts p
	JOIN users u ON u.id = p.author_id
	JOIN categories c ON c.id = p.category_id
`

// GetPost retrieves a single post with its author, category, likes and comments resolved
func (r *SQLitePostRepository) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	if id == "" {
		return nil, fmt.Errorf("post ID cannot be empty")
	}

	executor := db.GetExecutor(ctx, r.db)

	var row postRow
	err := row.scan(executor.QueryRowContext(ctx, selectPostColumns+" WHERE p.id = ?", id))
	if err == sql.ErrNoRows {
		return nil, errs.New(errs.ErrNotFound, "Post not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	post, err := row.toDomain()
	if err != nil {
		return nil, err
	}

	likes, err := r.listLikes(ctx, []string{post.ID})
	if err != nil {
		return nil, err
	}
	post.Likes = likes[post.ID]

	post.Comments, err = listComments(ctx, executor, post.ID)
	if err != nil {
		return nil, err
	}

	return post, nil
}

// SlugExists reports whether any post other than excludeID uses slug
func (r *SQLitePostRepository) SlugExists(ctx context.Context, slug string, excludeID string) (bool, error) {
	var exists bool
	err := db.GetExecutor(ctx, r.db).QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM posts WHERE slug = ? AND id != ?)", slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}

	return exists, nil
}

func (r *SQLitePostRepository) FeaturedImageInUse(ctx context.Context, url string) (bool, error) {
	var inUse bool
	err := db.GetExecutor(ctx, r.db).QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM posts WHERE featured_image = ?)", url,
	).Scan(&inUse)
	if err != nil {
		return false, fmt.Errorf("failed to check featured image: %w", err)
	}

	return inUse, nil
}

// ListPosts returns one page of posts newest first, along with the total
// number of posts matching the filter. Search is a case-insensitive substring
// match against title or content.
func (r *SQLitePostRepository) ListPosts(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 5
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	where := ""
	var args []any
	if search := strings.ToLower(filter.Search); search != "" {
		where = " WHERE instr(" + sqlite.FoldFunc + "(p.title), ?) > 0 OR instr(" + sqlite.FoldFunc + "(p.content), ?) > 0"
		args = append(args, search, search)
	}

	executor := db.GetExecutor(ctx, r.db)

	var total int
	err := executor.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts p"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := selectPostColumns + where + " ORDER BY p.created_at DESC, p.rowid DESC LIMIT ? OFFSET ?"
	rows, err := executor.QueryContext(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*domain.Post, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var row postRow
		if err := row.scan(rows); err != nil {
			return nil, 0, fmt.Errorf("failed to scan post row: %w", err)
		}
		post, err := row.toDomain()
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
		ids = append(ids, post.ID)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating post rows: %w", err)
	}

	likes, err := r.listLikes(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, p := range posts {
		p.Likes = likes[p.ID]
	}

	return posts, total, nil
}

// DeletePost removes a post together with its comments and likes
func (r *SQLitePostRepository) DeletePost(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("post ID cannot be empty")
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)

		if _, err := executor.ExecContext(txCtx, "DELETE FROM comments WHERE post_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if _, err := executor.ExecContext(txCtx, "DELETE FROM post_likes WHERE post_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete likes: %w", err)
		}

		res, err := executor.ExecContext(txCtx, "DELETE FROM posts WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}

		return requireAffected(res, "Post not found")
	})
}

// ToggleLike adds userID to the post's likes if absent and removes it otherwise,
// all within one transaction.
func (r *SQLitePostRepository) ToggleLike(ctx context.Context, postID string, userID string) (bool, int, error) {
	var liked bool
	var count int

	err := db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)

		var postExists bool
		err := executor.QueryRowContext(txCtx, "SELECT EXISTS(SELECT 1 FROM posts WHERE id = ?)", postID).Scan(&postExists)
		if err != nil {
			return fmt.Errorf("failed to check post: %w", err)
		}
		if !postExists {
			return errs.New(errs.ErrNotFound, "Post not found")
		}

		res, err := executor.ExecContext(txCtx,
			"DELETE FROM post_likes WHERE post_id = ? AND user_id = ?", postID, userID)
		if err != nil {
			return fmt.Errorf("failed to remove like: %w", err)
		}

		removed, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}

		if removed == 0 {
			_, err = executor.ExecContext(txCtx,
				"INSERT INTO post_likes (post_id, user_id, created_at) VALUES (?, ?, ?)",
				postID, userID, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("failed to add like: %w", err)
			}
			liked = true
		}

		err = executor.QueryRowContext(txCtx, "SELECT COUNT(*) FROM post_likes WHERE post_id = ?", postID).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to count likes: %w", err)
		}

		return nil
	})
	if err != nil {
		return false, 0, err
	}

	return liked, count, nil
}

// listLikes returns the liker IDs of each post in postIDs, in the order the likes were added
func (r *SQLitePostRepository) listLikes(ctx context.Context, postIDs []string) (map[string][]string, error) {
	likes := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return likes, nil
	}

	for _, id := range postIDs {
		likes[id] = make([]string, 0)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(postIDs)), ",")
	args := make([]any, len(postIDs))
	for i, id := range postIDs {
		args[i] = id
	}

	rows, err := db.GetExecutor(ctx, r.db).QueryContext(ctx,
		"SELECT post_id, user_id FROM post_likes WHERE post_id IN ("+placeholders+") ORDER BY created_at, rowid",
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID, userID string
		if err := rows.Scan(&postID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan like row: %w", err)
		}
		likes[postID] = append(likes[postID], userID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating like rows: %w", err)
	}

	return likes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// postRow is a private struct used to scan joined post rows
type postRow struct {
	ID            string
	Title         string
	Content       string
	Slug          string
	AuthorID      string
	AuthorName    string
	AuthorEmail   string
	CategoryID    string
	CategoryName  string
	Tags          string
	FeaturedImage string
	UpdatedAt     sql.NullTime
	CreatedAt     time.Time
	CommentCount  int
}

func (pr *postRow) scan(s rowScanner) error {
	return s.Scan(
		&pr.ID,
		&pr.Title,
		&pr.Content,
		&pr.Slug,
		&pr.AuthorID,
		&pr.AuthorName,
		&pr.AuthorEmail,
		&pr.CategoryID,
		&pr.CategoryName,
		&pr.Tags,
		&pr.FeaturedImage,
		&pr.UpdatedAt,
		&pr.CreatedAt,
		&pr.CommentCount,
	)
}

// toDomain converts a postRow to a domain.Post, decoding tags and nullable times
func (pr *postRow) toDomain() (*domain.Post, error) {
	tags := make([]string, 0)
	if err := json.Unmarshal([]byte(pr.Tags), &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags of post %s: %w", pr.ID, err)
	}

	post := &domain.Post{
		ID:            pr.ID,
		Title:         pr.Title,
		Content:       pr.Content,
		Slug:          pr.Slug,
		AuthorID:      pr.AuthorID,
		CategoryID:    pr.CategoryID,
		Tags:          tags,
		FeaturedImage: pr.FeaturedImage,
		CreatedAt:     pr.CreatedAt,
		Author: &domain.Author{
			ID:    pr.AuthorID,
			Name:  pr.AuthorName,
			Email: pr.AuthorEmail,
		},
		Category: &domain.Category{
			ID:   pr.CategoryID,
			Name: pr.CategoryName,
		},
		Likes:        make([]string, 0),
		Comments:     make([]*domain.Comment, 0),
		CommentCount: pr.CommentCount,
	}

	if pr.UpdatedAt.Valid {
		post.UpdatedAt = pr.UpdatedAt.Time
	}

	return post, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}

	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}

	return string(b), nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func requireAffected(res sql.Result, notFound string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return errs.New(errs.ErrNotFound, "%s", notFound)
	}
	return nil
}
