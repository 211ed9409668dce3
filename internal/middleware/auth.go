package middleware

import (
	"context"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yukikurage/group-task-api/internal/constants"
	apierrors "github.com/yukikurage/group-task-api/internal/errors"
)

// SessionResolver maps a session token to the id of its user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (string, error)
}

// RequireAuth checks if the user is authenticated. The token is taken from
// an "Authorization: Bearer" header or, failing that, from the session.
func RequireAuth(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if v, ok := sessions.Default(c).Get(constants.SessionTokenKey).(string); ok {
				token = v
			}
		}

		if token == "" {
			apierrors.Unauthorized(c, "")
			return
		}

		userID, err := resolver.ResolveSession(c.Request.Context(), token)
		if err != nil {
			log.Debug().Err(err).Str("path", c.FullPath()).Msg("rejected session")
			apierrors.Unauthorized(c, "Invalid or expired session")
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
