package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/dfryer1193/goblog-api/blog/domain"
	"github.com/dfryer1193/goblog-api/shared/errs"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 100
)

// ImageUploader stores an uploaded file and returns the URL it is served from.
// Remove drops a stored file by that URL and ignores URLs it did not issue.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, body io.Reader) (string, error)
	Remove(ctx context.Context, url string) error
}

// ImageUpload is a file received with a create or update request
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

type CreatePostInput struct {
	Title      string
	Content    string
	AuthorID   string
	CategoryID string
	// Tags is a comma separated list
	Tags  string
	Image *ImageUpload
}

// UpdatePostInput lists the only fields a post owner may change. Nil fields
// are left untouched.
type UpdatePostInput struct {
	Title      *string
	Content    *string
	CategoryID *string
	Tags       *string
	Image      *ImageUpload
}

// PostPage is one page of the newest-first post listing
type PostPage struct {
	Posts       []*domain.Post
	CurrentPage int
	TotalPages  int
	TotalPosts  int
}

type PostService struct {
	repo       domain.PostRepository
	categories domain.CategoryRepository
	markdown   MarkdownRenderer
	images     ImageUploader
	now        func() time.Time
}

func NewPostService(repo domain.PostRepository, categories domain.CategoryRepository, markdown MarkdownRenderer, images ImageUploader) *PostService {
	return &PostService{
		repo:       repo,
		categories: categories,
		markdown:   markdown,
		images:     images,
		now:        time.Now,
	}
}

// ListPosts returns a page of posts. Page and limit fall back to their
// defaults when below 1; limit is capped at MaxLimit and page at the largest
// value whose offset still fits in an int.
func (s *PostService) ListPosts(ctx context.Context, page, limit int, search string) (*PostPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)
	page = min(page, math.MaxInt/limit)

	posts, total, err := s.repo.ListPosts(ctx, domain.PostFilter{
		Search: strings.TrimSpace(search),
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	for _, p := range posts {
		if err := s.render(p); err != nil {
			log.Error().Err(err).Str("postID", p.ID).Msg("Failed to render post")
		}
	}

	return &PostPage{
		Posts:       posts,
		CurrentPage: page,
		TotalPages:  (total + limit - 1) / limit,
		TotalPosts:  total,
	}, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.render(post); err != nil {
		return nil, err
	}

	return post, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*domain.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Content) == "" || in.AuthorID == "" || in.CategoryID == "" {
		return nil, errs.New(errs.ErrValidation, "All fields are required")
	}

	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, title, "")
	if err != nil {
		return nil, err
	}

	featuredImage := domain.DefaultFeaturedImage
	if in.Image != nil {
		featuredImage, err = s.images.Upload(ctx, in.Image.Filename, in.Image.Body)
		if err != nil {
			return nil, err
		}
	}

	post := &domain.Post{
		ID:            uuid.NewString(),
		Title:         title,
		Content:       in.Content,
		Slug:          slug,
		AuthorID:      in.AuthorID,
		CategoryID:    in.CategoryID,
		Tags:          domain.ParseTags(in.Tags),
		FeaturedImage: featuredImage,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	log.Info().Str("postID", post.ID).Str("slug", post.Slug).Msg("Created post")

	return s.GetPost(ctx, post.ID)
}

// UpdatePost applies in to the post when callerID is its author
func (s *PostService) UpdatePost(ctx context.Context, id, callerID string, in UpdatePostInput) (*domain.Post, error) {
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if !post.IsAuthoredBy(callerID) {
		return nil, errs.New(errs.ErrForbidden, "Not authorized")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, errs.New(errs.ErrValidation, "Title cannot be empty")
		}
		post.Slug, err = s.uniqueSlug(ctx, title, post.ID)
		if err != nil {
			return nil, err
		}
		post.Title = title
	}

	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, errs.New(errs.ErrValidation, "Content cannot be empty")
		}
		post.Content = *in.Content
	}

	if in.CategoryID != nil {
		if err := s.requireCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		post.CategoryID = *in.CategoryID
	}

	if in.Tags != nil {
		post.Tags = domain.ParseTags(*in.Tags)
	}

	previousImage := post.FeaturedImage
	if in.Image != nil {
		post.FeaturedImage, err = s.images.Upload(ctx, in.Image.Filename, in.Image.Body)
		if err != nil {
			return nil, err
		}
	}

	post.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdatePost(ctx, post); err != nil {
		return nil, err
	}

	if previousImage != post.FeaturedImage {
		s.releaseImage(ctx, previousImage)
	}

	return s.GetPost(ctx, post.ID)
}

func (s *PostService) DeletePost(ctx context.Context, id, callerID string) error {
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return err
	}

	if !post.IsAuthoredBy(callerID) {
		return errs.New(errs.ErrForbidden, "Not authorized")
	}

	if err := s.repo.DeletePost(ctx, id); err != nil {
		return err
	}

	log.Info().Str("postID", id).Msg("Deleted post")
	s.releaseImage(ctx, post.FeaturedImage)
	return nil
}

// ToggleLike likes the post for callerID, or unlikes it if already liked
func (s *PostService) ToggleLike(ctx context.Context, id, callerID string) (bool, int, error) {
	return s.repo.ToggleLike(ctx, id, callerID)
}

// releaseImage removes an uploaded featured image once no post shows it.
// Uploads are content addressed, so another post may share the same URL.
func (s *PostService) releaseImage(ctx context.Context, url string) {
	if url == "" || url == domain.DefaultFeaturedImage {
		return
	}

	inUse, err := s.repo.FeaturedImageInUse(ctx, url)
	if err != nil {
		log.Warn().Err(err).Str("image", url).Msg("Failed to check image references")
		return
	}
	if inUse {
		return
	}

	if err := s.images.Remove(ctx, url); err != nil {
		log.Warn().Err(err).Str("image", url).Msg("Failed to remove unreferenced image")
	}
}

func (s *PostService) uniqueSlug(ctx context.Context, title, postID string) (string, error) {
	slug := domain.Slugify(title)
	if strings.Trim(slug, "-") == "" {
		return "", errs.New(errs.ErrValidation, "Title must contain letters or digits")
	}

	exists, err := s.repo.SlugExists(ctx, slug, postID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", errs.New(errs.ErrConflict, "A post with this title already exists")
	}

	return slug, nil
}

func (s *PostService) requireCategory(ctx context.Context, categoryID string) error {
	_, err := s.categories.GetCategory(ctx, categoryID)
	if errors.Is(err, errs.ErrNotFound) {
		return errs.New(errs.ErrValidation, "Category does not exist")
	}
	return err
}

func (s *PostService) render(p *domain.Post) error {
	rendered, err := s.markdown.Render(p.Content)
	if err != nil {
		return err
	}

	p.ContentHTML = rendered.HTML
	p.Excerpt = rendered.Excerpt
	return nil
}
