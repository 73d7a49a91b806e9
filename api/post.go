package api

import "time"

// Author is the public view of a user. Email is omitted where only the name is resolved.
type Author struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type Post struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	ContentHTML   string     `json:"contentHtml"`
	Excerpt       string     `json:"excerpt,omitempty"`
	Author        Author     `json:"author"`
	Category      Category   `json:"category"`
	Tags          []string   `json:"tags"`
	FeaturedImage string     `json:"featuredImage"`
	Likes         []string   `json:"likes"`
	Comments      []Comment  `json:"comments"`
	CommentCount  int        `json:"commentCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

type PostList struct {
	Posts       []Post `json:"posts"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	TotalPosts  int    `json:"totalPosts"`
}

// CreatePostRequest is the JSON form of a new post. Multipart requests carry
// the same fields as form values.
type CreatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Tags     Tags   `json:"tags"`
}

// UpdatePostRequest is the JSON form of a post update. Only these fields can change.
type UpdatePostRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	Tags     *Tags   `json:"tags"`
}

type LikeResponse struct {
	Message string `json:"message"`
	Likes   int    `json:"likes"`
}
