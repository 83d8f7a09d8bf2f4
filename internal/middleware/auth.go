package middleware

import (
	"net/http"
	"strings"

	"bandz-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token and loads the actor's identity
// into the request context. Practice membership comes from the token claims,
// so a caller can never act on behalf of another practice.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Missing token", nil)
			c.Abort()
			return
		}

		// Must be "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Malformed token", nil)
			c.Abort()
			return
		}

		token, err := utils.ValidateToken(parts[1])
		if err != nil || !token.Valid {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Invalid token", nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			utils.APIResponse(c, http.StatusUnauthorized, false, "Invalid token claims", nil)
			c.Abort()
			return
		}

		// JWT parses numbers as float64, convert before storing
		var userID uint64
		if val, ok := claims["user_id"].(float64); ok {
			userID = uint64(val)
		}
		var practiceID uint64
		if val, ok := claims["practice_id"].(float64); ok {
			practiceID = uint64(val)
		}
		role, _ := claims["role"].(string)

		c.Set("userID", userID)
		c.Set("practiceID", practiceID)
		c.Set("role", role)

		c.Next()
	}
}

// OrthoOnly gates the dashboard routes: reviews, schedules, reports.
func OrthoOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role.(string) != utils.RoleOrtho {
			utils.APIResponse(c, http.StatusForbidden, false, "Orthodontist access only", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
