package middleware

import (
	"net/http"
	"strings"

	"github.com/cadizmarco/MoneyTracker/utils"

	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// AuthMiddleware validates the bearer token and stores the caller's user id
// in the request context. WebSocket clients cannot set headers, so a
// ?token= query parameter is accepted as a fallback.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			utils.RespondError(c, http.StatusUnauthorized, "Not authorized")
			c.Abort()
			return
		}

		claims, err := utils.ParseAccessToken(tokenStr)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Not authorized")
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// GetUserID returns the authenticated user's id, or "" outside AuthMiddleware.
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
