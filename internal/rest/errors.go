package rest

import (
	"errors"
	"net/http"

	"github.com/dfryer1193/goblog-api/api"
	"github.com/dfryer1193/goblog-api/internal/middleware"
	"github.com/dfryer1193/goblog-api/shared/errs"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondError maps err onto a status code. Errors outside the errs taxonomy
// are logged and reported with a generic message.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrValidation),
		errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrInvalidCredentials):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("requestID", middleware.RequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		c.AbortWithStatusJSON(status, api.Message{Message: "internal server error"})
		return
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, api.Message{Message: errs.Message(err, http.StatusText(status))})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, api.Message{Message: message})
}
