package handler

import (
	"errors"
	"log"
	"net/http"

	"shop_backend/internal/middleware"
	"shop_backend/internal/model"
	"shop_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles the admin account-administration surface
type AccountHandler struct {
	service service.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(s service.AccountService) *AccountHandler {
	return &AccountHandler{service: s}
}

// Helper to get the authenticated user ID from context
func getAuthUserID(c *gin.Context) (string, error) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	userID, ok := userIDVal.(string)
	if !ok {
		return "", errors.New("invalid user ID type in context")
	}
	return userID, nil
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	users, err := h.service.ListAccounts(c.Request.Context())
	if err != nil {
		log.Printf("Error listing accounts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to list accounts"})
		return
	}

	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, publicUser(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": out})
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	user, err := h.service.GetAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Account not found"})
			return
		}
		log.Printf("Error getting account: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": publicUser(user)})
}

// ChangeRole assigns a role from the closed set to an account. An admin
// cannot change their own role, so a deployment always keeps at least the
// acting admin privileged.
func (h *AccountHandler) ChangeRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request: " + err.Error()})
		return
	}

	targetID := c.Param("id")
	if actorID, err := getAuthUserID(c); err == nil && actorID == targetID {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cannot change your own role"})
		return
	}

	err := h.service.ChangeRole(c.Request.Context(), targetID, model.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownRole):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unknown role"})
		case errors.Is(err, service.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Account not found"})
		default:
			log.Printf("Error changing role: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to change role"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Role updated"})
}

// RegisterAccountRoutes registers the admin-gated account routes. Every
// request passes token validation, a store-fresh role re-check, and the role
// gate, in that order.
func (h *AccountHandler) RegisterAccountRoutes(rg *gin.RouterGroup, jwtAuthMW, freshAdminMW, adminRoleMW gin.HandlerFunc) {
	adminGroup := rg.Group("/admin/users")
	adminGroup.Use(jwtAuthMW, freshAdminMW, adminRoleMW)
	{
		adminGroup.GET("", h.ListAccounts)
		adminGroup.GET("/:id", h.GetAccount)
		adminGroup.PATCH("/:id/role", h.ChangeRole)
	}
}
