package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"shop_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAccountsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "adm-1", "root@x.com", "right-password", model.RoleAdmin)
	env.seed(t, "u-1", "a@x.com", "right-password", model.RoleUser)
	token := env.adminToken(t)

	w := env.do(http.MethodGet, "/api/v1/admin/users", nil, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Users []map[string]any `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Users, 2)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestListAccountsEndpoint_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "u-1", "a@x.com", "right-password", model.RoleUser)

	w := env.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "a@x.com", "password": "right-password"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = env.do(http.MethodGet, "/api/v1/admin/users", nil, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+resp.Token)
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestChangeRoleEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "adm-1", "root@x.com", "right-password", model.RoleAdmin)
	env.seed(t, "u-1", "a@x.com", "right-password", model.RoleUser)
	token := env.adminToken(t)

	w := env.do(http.MethodPatch, "/api/v1/admin/users/u-1/role", gin.H{"role": "admin"}, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.RoleAdmin, env.repo.users["u-1"].Role)
}

func TestChangeRoleEndpoint_UnknownRole(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "adm-1", "root@x.com", "right-password", model.RoleAdmin)
	env.seed(t, "u-1", "a@x.com", "right-password", model.RoleUser)
	token := env.adminToken(t)

	w := env.do(http.MethodPatch, "/api/v1/admin/users/u-1/role", gin.H{"role": "owner"}, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, model.RoleUser, env.repo.users["u-1"].Role)
}

func TestChangeRoleEndpoint_SelfChangeRejected(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "adm-1", "root@x.com", "right-password", model.RoleAdmin)
	token := env.adminToken(t)

	w := env.do(http.MethodPatch, "/api/v1/admin/users/adm-1/role", gin.H{"role": "user"}, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, model.RoleAdmin, env.repo.users["adm-1"].Role)
}

func TestChangeRoleEndpoint_AccountNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "adm-1", "root@x.com", "right-password", model.RoleAdmin)
	token := env.adminToken(t)

	w := env.do(http.MethodPatch, "/api/v1/admin/users/missing/role", gin.H{"role": "admin"}, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAccountEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "adm-1", "root@x.com", "right-password", model.RoleAdmin)
	env.seed(t, "u-1", "a@x.com", "right-password", model.RoleUser)
	token := env.adminToken(t)

	w := env.do(http.MethodGet, "/api/v1/admin/users/u-1", nil, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"a@x.com"`)
}
