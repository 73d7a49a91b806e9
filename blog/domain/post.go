package domain

import (
	"context"
	"time"
)

// DefaultFeaturedImage is used when a post is created without an upload
const DefaultFeaturedImage = "default-post.jpg"

// Post represents a blog post together with its embedded comments and likes.
// AuthorID never changes after creation.
type Post struct {
	ID            string
	Title         string
	Content       string
	Slug          string
	AuthorID      string
	CategoryID    string
	Tags          []string
	FeaturedImage string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Resolved on read
	Author       *Author
	Category     *Category
	Likes        []string
	Comments     []*Comment
	CommentCount int

	// Rendered on read, never persisted
	ContentHTML string
	Excerpt     string
}

// Author is the public view of a user attached to posts and comments
type Author struct {
	ID    string
	Name  string
	Email string
}

// HasLike reports whether userID is in the post's like set
func (p *Post) HasLike(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// IsAuthoredBy reports whether userID owns the post
func (p *Post) IsAuthoredBy(userID string) bool {
	return p.AuthorID == userID
}

// PostFilter selects a page of posts, newest first
type PostFilter struct {
	Search string
	Limit  int
	Offset int
}

type PostRepository interface {
	CreatePost(ctx context.Context, p *Post) error
	UpdatePost(ctx context.Context, p *Post) error
	GetPost(ctx context.Context, id string) (*Post, error)
	SlugExists(ctx context.Context, slug string, excludeID string) (bool, error)
	// FeaturedImageInUse reports whether any post still shows url as its featured image
	FeaturedImageInUse(ctx context.Context, url string) (bool, error)
	ListPosts(ctx context.Context, filter PostFilter) ([]*Post, int, error)
	DeletePost(ctx context.Context, id string) error

	// ToggleLike flips userID's membership in the post's like set atomically
	// and returns the new state and like count.
	ToggleLike(ctx context.Context, postID string, userID string) (liked bool, count int, err error)
}
