package rest

import (
	"net/http"

	"github.com/dfryer1193/goblog-api/api"
	"github.com/dfryer1193/goblog-api/media/application"
	"github.com/dfryer1193/goblog-api/shared/db"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type imageHandler struct {
	images *application.UploadService
}

func (h *imageHandler) getImage(c *gin.Context) {
	path, err := h.images.LocalPath(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.File(path)
}

type healthHandler struct {
	db db.Database
}

func (h *healthHandler) healthz(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		c.JSON(http.StatusServiceUnavailable, api.Message{Message: "database unavailable"})
		return
	}

	c.JSON(http.StatusOK, api.Message{Message: "ok"})
}
