package middleware

import (
	"net/http"
	"strings"

	"shop_backend/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey   = "authUser"
	AuthRoleKey   = "authRole"
	AuthEmailKey  = "authEmail"
	AuthClaimsKey = "authClaims"

	// AdminCookieName is the cookie carrying the privileged session token.
	AdminCookieName = "admin_token"
)

// ExtractToken pulls the session token from the request: the admin cookie
// is preferred, an Authorization bearer header is the fallback. Returns ""
// when neither is present.
func ExtractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AdminCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// JWTAuthMiddleware creates a middleware for session token authentication
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
			return
		}

		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}

		// Set session information in context
		c.Set(AuthUserKey, claims.UserID)
		c.Set(AuthRoleKey, claims.Role)
		c.Set(AuthEmailKey, claims.Email)
		c.Set(AuthClaimsKey, claims)

		c.Next()
	}
}
