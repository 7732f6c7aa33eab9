package middleware

import (
	"errors"
	"log"
	"net/http"

	"shop_backend/internal/model"
	"shop_backend/internal/service"
	"shop_backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware creates a middleware to check the session role against an
// allowed set. Pure membership test over the token claims; an unrecognized
// role matches nothing and is therefore least privilege.
func RoleMiddleware(allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Role not found in token, ensure JWT middleware runs first"})
			return
		}

		userRole, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Invalid role type in token"})
			return
		}

		isAllowed := false
		for _, allowedRole := range allowedRoles {
			if model.Role(userRole) == allowedRole {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "You do not have permission to access this resource"})
			return
		}

		c.Next()
	}
}

// AdminMiddleware checks the token's role claim for admin-level access
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin, model.RoleSuperAdmin)
}

// UserMiddleware allows any role from the closed set
func UserMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleUser, model.RoleAdmin, model.RoleSuperAdmin)
}

// FreshAdminMiddleware re-reads the subject from the credential store on
// every privileged request and re-checks its current role, because claims in
// a still-valid token may be stale after a role change or account deletion.
func FreshAdminMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsVal, exists := c.Get(AuthClaimsKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
			return
		}
		claims, ok := claimsVal.(*utils.JWTClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
			return
		}

		user, err := authService.VerifyPrivileged(c.Request.Context(), claims)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrPrivilegeRevoked):
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Admin access revoked"})
			case errors.Is(err, service.ErrSubjectNotFound):
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "message": "Account not found"})
			default:
				log.Printf("Error verifying privileged session: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
			}
			return
		}

		// Downstream handlers get the store's current role, not the claim's.
		c.Set(AuthRoleKey, string(user.Role))
		c.Next()
	}
}
