package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"shop_backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestRouter(jwtUtil *utils.JWTUtil) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(jwtUtil), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(AuthUserKey),
			"role":    c.GetString(AuthRoleKey),
		})
	})
	return r
}

func TestJWTAuthMiddleware_NoToken(t *testing.T) {
	r := newAuthTestRouter(utils.NewJWTUtil("secret"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_BearerToken(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret")
	r := newAuthTestRouter(jwtUtil)

	token, err := jwtUtil.GenerateToken("u-1", "a@x.com", "user", false)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u-1"`)
}

func TestJWTAuthMiddleware_CookieToken(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret")
	r := newAuthTestRouter(jwtUtil)

	token, err := jwtUtil.GenerateToken("adm-1", "root@x.com", "admin", true)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestJWTAuthMiddleware_CookiePreferredOverHeader(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret")
	r := newAuthTestRouter(jwtUtil)

	cookieToken, err := jwtUtil.GenerateToken("cookie-user", "c@x.com", "admin", true)
	require.NoError(t, err)
	headerToken, err := jwtUtil.GenerateToken("header-user", "h@x.com", "user", false)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: cookieToken})
	req.Header.Set("Authorization", "Bearer "+headerToken)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"cookie-user"`)
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	r := newAuthTestRouter(utils.NewJWTUtil("secret"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_BadToken(t *testing.T) {
	r := newAuthTestRouter(utils.NewJWTUtil("secret"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
