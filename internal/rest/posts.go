package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dfryer1193/goblog-api/api"
	"github.com/dfryer1193/goblog-api/blog/application"
	"github.com/dfryer1193/goblog-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

type postHandler struct {
	posts *application.PostService
}

func (h *postHandler) listPosts(c *gin.Context) {
	// Non-numeric values fall back to the defaults
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.posts.ListPosts(c.Request.Context(), page, limit, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	posts := make([]api.Post, 0, len(result.Posts))
	for _, p := range result.Posts {
		posts = append(posts, toPost(p))
	}

	c.JSON(http.StatusOK, api.PostList{
		Posts:       posts,
		CurrentPage: result.CurrentPage,
		TotalPages:  result.TotalPages,
		TotalPosts:  result.TotalPosts,
	})
}

func (h *postHandler) getPost(c *gin.Context) {
	post, err := h.posts.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPost(post))
}

func (h *postHandler) createPost(c *gin.Context) {
	var req api.CreatePostRequest
	var image *application.ImageUpload

	if c.ContentType() == gin.MIMEJSON {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
	} else {
		req.Title = c.PostForm("title")
		req.Content = c.PostForm("content")
		req.Category = c.PostForm("category")
		req.Tags = api.Tags(c.PostForm("tags"))

		upload, closeUpload, err := formImage(c, "image")
		if err != nil {
			badRequest(c, "Invalid image upload")
			return
		}
		defer closeUpload()
		image = upload
	}

	post, err := h.posts.CreatePost(c.Request.Context(), application.CreatePostInput{
		Title:      req.Title,
		Content:    req.Content,
		AuthorID:   middleware.UserID(c),
		CategoryID: req.Category,
		Tags:       string(req.Tags),
		Image:      image,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toPost(post))
}

func (h *postHandler) updatePost(c *gin.Context) {
	var in application.UpdatePostInput

	if c.ContentType() == gin.MIMEJSON {
		var req api.UpdatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		in = application.UpdatePostInput{
			Title:      req.Title,
			Content:    req.Content,
			CategoryID: req.Category,
			Tags:       tagsValue(req.Tags),
		}
	} else {
		in = application.UpdatePostInput{
			Title:      optionalForm(c, "title"),
			Content:    optionalForm(c, "content"),
			CategoryID: optionalForm(c, "category"),
			Tags:       optionalForm(c, "tags"),
		}

		upload, closeUpload, err := formImage(c, "featuredImage")
		if err != nil {
			badRequest(c, "Invalid image upload")
			return
		}
		defer closeUpload()
		in.Image = upload
	}

	post, err := h.posts.UpdatePost(c.Request.Context(), c.Param("id"), middleware.UserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPost(post))
}

func (h *postHandler) deletePost(c *gin.Context) {
	if err := h.posts.DeletePost(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Message{Message: "Post deleted successfully"})
}

func (h *postHandler) toggleLike(c *gin.Context) {
	liked, likes, err := h.posts.ToggleLike(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}

	c.JSON(http.StatusOK, api.LikeResponse{Message: message, Likes: likes})
}

// formImage opens the uploaded file in field. A request without one yields a
// nil upload; the returned func closes the file.
func formImage(c *gin.Context, field string) (*application.ImageUpload, func(), error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, func() {}, err
	}

	return &application.ImageUpload{Filename: header.Filename, Body: file}, func() { file.Close() }, nil
}

func tagsValue(t *api.Tags) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

func optionalForm(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}
