package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/dfryer1193/goblog-api/blog/domain"
	"github.com/dfryer1193/goblog-api/shared/db/sqlite"
	"github.com/dfryer1193/goblog-api/shared/errs"
)

var baseTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// setupTestDB creates a migrated SQLite database with two users and one category
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	if err := database.Connect(); err != nil {
		t.Fatalf("failed to connect test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	conn := database.DB()
	seed := []string{
		`INSERT INTO users (id, name, email, password_hash, created_at) VALUES ('u1', 'Ada', 'ada@example.com', 'x', '2025-01-01 00:00:00+00:00')`,
		`INSERT INTO users (id, name, email, password_hash, created_at) VALUES ('u2', 'Grace', 'grace@example.com', 'x', '2025-01-01 00:00:00+00:00')`,
		`INSERT INTO categories (id, name, created_at) VALUES ('c1', 'Tech', '2025-01-01 00:00:00+00:00')`,
	}
	for _, stmt := range seed {
		if _, err := conn.Exec(stmt); err != nil {
			t.Fatalf("failed to seed test database: %v", err)
		}
	}

	return conn
}

func newTestPost(id string, title string, createdAt time.Time) *domain.Post {
	return &domain.Post{
		ID:            id,
		Title:         title,
		Content:       "Content of " + title,
		Slug:          domain.Slugify(title),
		AuthorID:      "u1",
		CategoryID:    "c1",
		Tags:          []string{"go", "sqlite"},
		FeaturedImage: domain.DefaultFeaturedImage,
		CreatedAt:     createdAt,
	}
}

func TestPostRepository_CreateAndGetPost(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	post := newTestPost("p1", "Hello World", baseTime)
	if err := repo.CreatePost(ctx, post); err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	got, err := repo.GetPost(ctx, "p1")
	if err != nil {
		t.Fatalf("GetPost() error = %v", err)
	}

	if got.Title != "Hello World" {
		t.Errorf("Title = %q, want %q", got.Title, "Hello World")
	}
	if got.Slug != "hello-world" {
		t.Errorf("Slug = %q, want %q", got.Slug, "hello-world")
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "sqlite" {
		t.Errorf("Tags = %v, want [go sqlite]", got.Tags)
	}
	if got.Author == nil || got.Author.Name != "Ada" || got.Author.Email != "ada@example.com" {
		t.Errorf("Author = %+v, want Ada <ada@example.com>", got.Author)
	}
	if got.Category == nil || got.Category.Name != "Tech" {
		t.Errorf("Category = %+v, want Tech", got.Category)
	}
	if !got.CreatedAt.Equal(baseTime) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, baseTime)
	}
	if !got.UpdatedAt.IsZero() {
		t.Errorf("UpdatedAt = %v, want zero", got.UpdatedAt)
	}
	if got.Likes == nil || len(got.Likes) != 0 {
		t.Errorf("Likes = %v, want empty non-nil slice", got.Likes)
	}
	if got.Comments == nil || len(got.Comments) != 0 {
		t.Errorf("Comments = %v, want empty non-nil slice", got.Comments)
	}
}

func TestPostRepository_GetPost_NotFound(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))

	_, err := repo.GetPost(context.Background(), "missing")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("GetPost() error = %v, want ErrNotFound", err)
	}
}

func TestPostRepository_CreatePost_DuplicateSlug(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.CreatePost(ctx, newTestPost("p1", "Hello World", baseTime)); err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	err := repo.CreatePost(ctx, newTestPost("p2", "Hello, World!", baseTime))
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("CreatePost() error = %v, want ErrConflict", err)
	}
	if msg := errs.Message(err, ""); msg != "A post with this title already exists" {
		t.Errorf("message = %q, want %q", msg, "A post with this title already exists")
	}
}

func TestPostRepository_UpdatePost(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	post := newTestPost("p1", "Hello World", baseTime)
	if err := repo.CreatePost(ctx, post); err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	post.Title = "Goodbye World"
	post.Slug = "goodbye-world"
	post.Tags = []string{}
	post.UpdatedAt = baseTime.Add(time.Hour)
	if err := repo.UpdatePost(ctx, post); err != nil {
		t.Fatalf("UpdatePost() error = %v", err)
	}

	got, err := repo.GetPost(ctx, "p1")
	if err != nil {
		t.Fatalf("GetPost() error = %v", err)
	}
	if got.Slug != "goodbye-world" {
		t.Errorf("Slug = %q, want %q", got.Slug, "goodbye-world")
	}
	if len(got.Tags) != 0 {
		t.Errorf("Tags = %v, want empty", got.Tags)
	}
	if !got.UpdatedAt.Equal(baseTime.Add(time.Hour)) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, baseTime.Add(time.Hour))
	}

	missing := newTestPost("nope", "Missing", baseTime)
	if err := repo.UpdatePost(ctx, missing); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("UpdatePost() on missing post error = %v, want ErrNotFound", err)
	}
}

func TestPostRepository_SlugExists(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.CreatePost(ctx, newTestPost("p1", "Hello World", baseTime)); err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	tests := []struct {
		slug      string
		excludeID string
		expected  bool
	}{
		{slug: "hello-world", excludeID: "", expected: true},
		{slug: "hello-world", excludeID: "p1", expected: false},
		{slug: "other", excludeID: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s excluding %q", tt.slug, tt.excludeID), func(t *testing.T) {
			got, err := repo.SlugExists(ctx, tt.slug, tt.excludeID)
			if err != nil {
				t.Fatalf("SlugExists() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("SlugExists(%q, %q) = %v, want %v", tt.slug, tt.excludeID, got, tt.expected)
			}
		})
	}
}

func TestPostRepository_ListPosts(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		post := newTestPost(fmt.Sprintf("p%d", i), fmt.Sprintf("Post %d", i), baseTime.Add(time.Duration(i)*time.Minute))
		if i == 3 {
			post.Content = "All about Golang"
		}
		if err := repo.CreatePost(ctx, post); err != nil {
			t.Fatalf("CreatePost(%d) error = %v", i, err)
		}
	}

	t.Run("second page newest first", func(t *testing.T) {
		posts, total, err := repo.ListPosts(ctx, domain.PostFilter{Limit: 5, Offset: 5})
		if err != nil {
			t.Fatalf("ListPosts() error = %v", err)
		}
		if total != 12 {
			t.Errorf("total = %d, want 12", total)
		}
		if len(posts) != 5 {
			t.Fatalf("len(posts) = %d, want 5", len(posts))
		}
		for i, p := range posts {
			want := fmt.Sprintf("p%d", 7-i)
			if p.ID != want {
				t.Errorf("posts[%d].ID = %q, want %q", i, p.ID, want)
			}
		}
	})

	t.Run("last page is short", func(t *testing.T) {
		posts, _, err := repo.ListPosts(ctx, domain.PostFilter{Limit: 5, Offset: 10})
		if err != nil {
			t.Fatalf("ListPosts() error = %v", err)
		}
		if len(posts) != 2 {
			t.Errorf("len(posts) = %d, want 2", len(posts))
		}
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		posts, total, err := repo.ListPosts(ctx, domain.PostFilter{Search: "GOLANG", Limit: 5})
		if err != nil {
			t.Fatalf("ListPosts() error = %v", err)
		}
		if total != 1 || len(posts) != 1 || posts[0].ID != "p3" {
			t.Errorf("ListPosts(search=GOLANG) = %d posts (total %d), want only p3", len(posts), total)
		}
	})

	t.Run("search matches titles", func(t *testing.T) {
		_, total, err := repo.ListPosts(ctx, domain.PostFilter{Search: "post 1", Limit: 5})
		if err != nil {
			t.Fatalf("ListPosts() error = %v", err)
		}
		// Post 1, Post 10, Post 11, Post 12
		if total != 4 {
			t.Errorf("total = %d, want 4", total)
		}
	})
}

func TestPostRepository_ListPosts_UnicodeSearch(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	ete := newTestPost("p1", "Été à Paris", base)
	ete.Slug = "ete-a-paris"
	cafe := newTestPost("p2", "Notes", base.Add(time.Hour))
	cafe.Slug = "notes"
	cafe.Content = "Un CAFÉ près de la GARE"

	for _, p := range []*domain.Post{ete, cafe} {
		if err := repo.CreatePost(ctx, p); err != nil {
			t.Fatalf("Failed to create post %s: %v", p.ID, err)
		}
	}

	tests := []struct {
		search string
		want   []string
	}{
		{search: "Été", want: []string{"p1"}},
		{search: "été", want: []string{"p1"}},
		{search: "ÉTÉ", want: []string{"p1"}},
		{search: "paris", want: []string{"p1"}},
		{search: "café", want: []string{"p2"}},
		{search: "Près De", want: []string{"p2"}},
		{search: "à", want: []string{"p1"}},
		{search: "ete", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			posts, total, err := repo.ListPosts(ctx, domain.PostFilter{Search: tt.search, Limit: 5})
			if err != nil {
				t.Fatalf("ListPosts() error = %v", err)
			}
			if total != len(tt.want) || len(posts) != len(tt.want) {
				t.Fatalf("ListPosts(%q) total = %d, posts = %d, want %d", tt.search, total, len(posts), len(tt.want))
			}
			for i, id := range tt.want {
				if posts[i].ID != id {
					t.Errorf("posts[%d].ID = %q, want %q", i, posts[i].ID, id)
				}
			}
		})
	}
}

func TestPostRepository_ListPosts_Empty(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))

	posts, total, err := repo.ListPosts(context.Background(), domain.PostFilter{Limit: 5})
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Errorf("posts = %v, want empty non-nil slice", posts)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
}

func TestPostRepository_ToggleLike(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.CreatePost(ctx, newTestPost("p1", "Hello World", baseTime)); err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	steps := []struct {
		userID    string
		wantLiked bool
		wantCount int
	}{
		{userID: "u1", wantLiked: true, wantCount: 1},
		{userID: "u2", wantLiked: true, wantCount: 2},
		{userID: "u1", wantLiked: false, wantCount: 1},
	}

	for i, step := range steps {
		liked, count, err := repo.ToggleLike(ctx, "p1", step.userID)
		if err != nil {
			t.Fatalf("step %d: ToggleLike() error = %v", i, err)
		}
		if liked != step.wantLiked || count != step.wantCount {
			t.Errorf("step %d: ToggleLike(%s) = (%v, %d), want (%v, %d)", i, step.userID, liked, count, step.wantLiked, step.wantCount)
		}
	}

	post, err := repo.GetPost(ctx, "p1")
	if err != nil {
		t.Fatalf("GetPost() error = %v", err)
	}
	if len(post.Likes) != 1 || !post.HasLike("u2") {
		t.Errorf("Likes = %v, want [u2]", post.Likes)
	}

	if _, _, err := repo.ToggleLike(ctx, "missing", "u1"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("ToggleLike() on missing post error = %v, want ErrNotFound", err)
	}
}

func TestPostRepository_DeletePost(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewPostRepository(conn)
	comments := NewCommentRepository(conn)
	ctx := context.Background()

	if err := repo.CreatePost(ctx, newTestPost("p1", "Hello World", baseTime)); err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if err := comments.AddComment(ctx, &domain.Comment{ID: "m1", PostID: "p1", AuthorID: "u2", Content: "Nice", CreatedAt: baseTime}); err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	if _, _, err := repo.ToggleLike(ctx, "p1", "u2"); err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}

	if err := repo.DeletePost(ctx, "p1"); err != nil {
		t.Fatalf("DeletePost() error = %v", err)
	}

	if _, err := repo.GetPost(ctx, "p1"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("GetPost() after delete error = %v, want ErrNotFound", err)
	}

	for _, table := range []string{"comments", "post_likes"} {
		var count int
		if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Fatalf("failed to count %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("%s rows = %d, want 0", table, count)
		}
	}

	if err := repo.DeletePost(ctx, "p1"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("second DeletePost() error = %v, want ErrNotFound", err)
	}
}
