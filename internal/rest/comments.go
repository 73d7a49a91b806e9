package rest

import (
	"net/http"

	"github.com/dfryer1193/goblog-api/api"
	"github.com/dfryer1193/goblog-api/blog/application"
	"github.com/dfryer1193/goblog-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

type commentHandler struct {
	comments *application.CommentService
}

func (h *commentHandler) addComment(c *gin.Context) {
	var req api.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	comment, err := h.comments.AddComment(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.CommentCreatedResponse{Message: "Comment added", Comment: toComment(comment)})
}

func (h *commentHandler) deleteComment(c *gin.Context) {
	err := h.comments.DeleteComment(c.Request.Context(), c.Param("id"), c.Param("commentId"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Message{Message: "Comment deleted successfully"})
}
