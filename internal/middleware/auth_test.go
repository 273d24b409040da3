package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JamLaMin/rsw-webapp/internal/middleware"
	"github.com/JamLaMin/rsw-webapp/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, role string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id":  uint(7),
		"username": "kassa",
		"role":     role,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected",
		middleware.JWTAuth(testSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleCashier),
		func(c *gin.Context) {
			claims, ok := middleware.GetClaims(c)
			if !ok {
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, gin.H{"username": claims.Username})
		})
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_ValidToken(t *testing.T) {
	r := newProtectedRouter()
	token := signToken(t, testSecret, model.RoleCashier, time.Hour)

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kassa")
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	w := get(newProtectedRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	w := get(newProtectedRouter(), "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_WrongSignature(t *testing.T) {
	token := signToken(t, "other-secret", model.RoleCashier, time.Hour)
	w := get(newProtectedRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, model.RoleCashier, -time.Minute)
	w := get(newProtectedRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_UnknownRole(t *testing.T) {
	token := signToken(t, testSecret, "GAST", time.Hour)
	w := get(newProtectedRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_AdminAllowed(t *testing.T) {
	token := signToken(t, testSecret, model.RoleAdmin, time.Hour)
	w := get(newProtectedRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}
