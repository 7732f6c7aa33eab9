package handler

import (
	"errors"
	"log"
	"net/http"

	"shop_backend/internal/middleware"
	"shop_backend/internal/model"
	"shop_backend/internal/service"
	"shop_backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// publicUser is the user shape returned to clients; the password hash never
// leaves the server.
func publicUser(u *model.User) gin.H {
	return gin.H{
		"id":           u.ID,
		"email":        u.Email,
		"first_name":   u.FirstName,
		"last_name":    u.LastName,
		"display_name": u.DisplayName(),
		"role":         u.Role,
		"created_at":   u.CreatedAt,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		FirstName       string `json:"first_name" binding:"required"`
		LastName        string `json:"last_name" binding:"required"`
		Email           string `json:"email" binding:"required,email"`
		Password        string `json:"password" binding:"required,min=8"`
		ConfirmPassword string `json:"confirm_password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request: " + err.Error()})
		return
	}

	user, token, err := h.service.Register(c.Request.Context(), service.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email is already registered"})
		default:
			log.Printf("Error during registration: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    publicUser(user),
		"token":   token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	h.login(c, false)
}

// AdminLogin requires an admin-level role and additionally sets the session
// token as an http-only cookie.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, true)
}

func (h *AuthHandler) login(c *gin.Context, privileged bool) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request: " + err.Error()})
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password, privileged)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
			return
		}
		log.Printf("Error during login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to login"})
		return
	}

	if privileged {
		h.setAdminCookie(c, token, int(utils.AdminTokenTTL.Seconds()))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    publicUser(user),
		"token":   token,
	})
}

// AdminVerify validates the presented token and re-reads the subject from
// the store, so a revoked role or deleted account is caught even while the
// token itself is still valid.
func (h *AuthHandler) AdminVerify(c *gin.Context) {
	claims, err := h.service.Authenticate(middleware.ExtractToken(c))
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	user, err := h.service.VerifyPrivileged(c.Request.Context(), claims)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": publicUser(user)})
}

// AdminLogout clears the admin session cookie
func (h *AuthHandler) AdminLogout(c *gin.Context) {
	h.setAdminCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// Refresh mints a fresh 7-day ordinary token from a still-valid one
func (h *AuthHandler) Refresh(c *gin.Context) {
	claims, err := h.service.Authenticate(middleware.ExtractToken(c))
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	user, token, err := h.service.Refresh(c.Request.Context(), claims)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    publicUser(user),
		"token":   token,
	})
}

// Me returns the authenticated user's own profile
func (h *AuthHandler) Me(c *gin.Context) {
	claims, err := h.service.Authenticate(middleware.ExtractToken(c))
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	user, err := h.service.Subject(c.Request.Context(), claims)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": publicUser(user)})
}

func (h *AuthHandler) setAdminCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AdminCookieName, token, maxAge, "/", "", false, true)
}

func (h *AuthHandler) writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
	case errors.Is(err, service.ErrPrivilegeRevoked):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Admin access revoked"})
	case errors.Is(err, service.ErrSubjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Account not found"})
	default:
		log.Printf("Error during token verification: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}

// RegisterAuthRoutes registers authentication routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.GET("/me", h.Me)
	}

	adminGroup := rg.Group("/admin")
	{
		adminGroup.POST("/login", h.AdminLogin)
		adminGroup.GET("/verify", h.AdminVerify)
		adminGroup.POST("/logout", h.AdminLogout)
	}
}
