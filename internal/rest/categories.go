package rest

import (
	"net/http"

	"github.com/dfryer1193/goblog-api/api"
	"github.com/dfryer1193/goblog-api/blog/application"
	"github.com/gin-gonic/gin"
)

type categoryHandler struct {
	categories *application.CategoryService
}

func (h *categoryHandler) createCategory(c *gin.Context) {
	var req api.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	category, err := h.categories.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCategory(category))
}

func (h *categoryHandler) listCategories(c *gin.Context) {
	categories, err := h.categories.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]api.Category, 0, len(categories))
	for _, category := range categories {
		out = append(out, toCategory(category))
	}

	c.JSON(http.StatusOK, out)
}
