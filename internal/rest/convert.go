package rest

import (
	"time"

	"github.com/dfryer1193/goblog-api/api"
	authdomain "github.com/dfryer1193/goblog-api/auth/domain"
	"github.com/dfryer1193/goblog-api/blog/domain"
)

func toAuthor(a *domain.Author) api.Author {
	if a == nil {
		return api.Author{}
	}
	return api.Author{ID: a.ID, Name: a.Name, Email: a.Email}
}

func toUser(u *authdomain.User) api.Author {
	return api.Author{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toCategory(c *domain.Category) api.Category {
	if c == nil {
		return api.Category{}
	}

	out := api.Category{ID: c.ID, Name: c.Name}
	if !c.CreatedAt.IsZero() {
		out.CreatedAt = &c.CreatedAt
	}
	return out
}

func toComment(c *domain.Comment) api.Comment {
	return api.Comment{
		ID:        c.ID,
		User:      toAuthor(c.Author),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func toPost(p *domain.Post) api.Post {
	comments := make([]api.Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, toComment(c))
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		updatedAt = &p.UpdatedAt
	}

	return api.Post{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		ContentHTML:   p.ContentHTML,
		Excerpt:       p.Excerpt,
		Author:        toAuthor(p.Author),
		Category:      toCategory(p.Category),
		Tags:          nonNil(p.Tags),
		FeaturedImage: p.FeaturedImage,
		Likes:         nonNil(p.Likes),
		Comments:      comments,
		CommentCount:  p.CommentCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
