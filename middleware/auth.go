package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"reserva/utils"
)

// Context keys set by the auth middleware.
const (
	ContextActorID = "actorID"
	ContextRole    = "actorRole"
)

// JWTAuthMiddleware validates a Bearer token and stores the actor identity
// on the request context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		subject, role, err := utils.ExtractActorFromToken(tokenString)
		if err != nil || subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		c.Set(ContextActorID, subject)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// RequireRole gates a route group to one role. It must run after
// JWTAuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetString(ContextRole)
		if got != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Forbidden for role",
			})
			return
		}
		c.Next()
	}
}

// ActorFrom returns the authenticated subject and role from the context.
func ActorFrom(c *gin.Context) (string, string) {
	return c.GetString(ContextActorID), c.GetString(ContextRole)
}
