package middleware

import (
	"errors"
	"net/http"
	"strings"

	"grabbi-storefront/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const sessionKey = "session"

// SessionAuth resolves the bearer token to a stored session and makes it
// available to handlers through CurrentSession.
func SessionAuth(store session.Store, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		sess, err := store.Get(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired. Please sign in again."})
			} else {
				logger.WithError(err).Error("Failed to load session")
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Session store unavailable"})
			}
			c.Abort()
			return
		}

		identity := sess.Identity()
		c.Set(sessionKey, sess)
		c.Set("user_id", identity.ID)
		c.Set("user_role", identity.Role)
		c.Next()
	}
}

// CurrentSession returns the session resolved by SessionAuth.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

// RequireRole allows the request only when the session role is one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("user_role")
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this page"})
		c.Abort()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return RequireRole("admin")
}
