package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dfryer1193/goblog-api/api"
	"github.com/dfryer1193/goblog-api/shared/errs"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const userIDKey = "userID"

// Authenticator resolves a bearer token to a user ID
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's user ID on the context for handlers to read with UserID.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Message{Message: "Not authorized, no token"})
			return
		}

		userID, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, errs.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, api.Message{Message: errs.Message(err, "Not authorized")})
				return
			}

			log.Error().Err(err).Str("requestID", RequestID(c)).Msg("Failed to authenticate request")
			c.AbortWithStatusJSON(http.StatusInternalServerError, api.Message{Message: "internal server error"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated caller, or "" outside RequireAuth
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
