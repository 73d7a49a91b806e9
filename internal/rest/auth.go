package rest

import (
	"net/http"

	"github.com/dfryer1193/goblog-api/api"
	"github.com/dfryer1193/goblog-api/auth/application"
	"github.com/gin-gonic/gin"
)

type authHandler struct {
	auth *application.AuthService
}

func (h *authHandler) register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	result, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.AuthResponse{User: toUser(result.User), Token: result.Token})
}

func (h *authHandler) login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.AuthResponse{User: toUser(result.User), Token: result.Token})
}
