package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mohamedm999/TruckFlow/internal/config"
	"github.com/mohamedm999/TruckFlow/internal/models"
	"github.com/mohamedm999/TruckFlow/internal/security"
)

// UserLoader resolves the authenticated user id to a full user record.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

// Auth gates protected routes on a bearer access token. The client always
// gets the same generic 401; the expired-vs-invalid split only reaches the
// log, so token probing reveals nothing.
func Auth(cfg *config.AppConfig, users UserLoader, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, no token provided"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ParseAccessToken(tokenStr, cfg.Security.JWTAccessSecret)
		if err != nil {
			reason := "invalid"
			if errors.Is(err, security.ErrTokenExpired) {
				reason = "expired"
			}
			log.Warn().
				Str("reason", reason).
				Str("path", c.Request.URL.Path).
				Msg("access token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
			return
		}

		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Account is deactivated"})
			return
		}

		setCurrentUser(c, user)

		c.Next()
	}
}
