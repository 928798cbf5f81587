package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"classbook/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func accessClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": "u-1",
		"email":   "a@b.co",
		"role":    role,
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": c.GetString(ContextUserRole)})
	})
	r.GET("/", handlers...)
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	r := newEngine(JWTAuthWithConfig(cfg))

	expired := accessClaims("USER")
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	refresh := accessClaims("USER")
	refresh["type"] = "refresh"

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"missing header", "", http.StatusUnauthorized, `{"error":"Authorization header is required"}`},
		{"wrong scheme", "Token abc", http.StatusUnauthorized, `{"error":"authorization header format must be Bearer {token}"}`},
		{"bad signature", "Bearer " + signToken(t, accessClaims("USER"), "other"), http.StatusUnauthorized, `{"error":"invalid or expired token"}`},
		{"expired", "Bearer " + signToken(t, expired, testSecret), http.StatusUnauthorized, `{"error":"invalid or expired token"}`},
		{"refresh token", "Bearer " + signToken(t, refresh, testSecret), http.StatusUnauthorized, `{"error":"invalid token type"}`},
		{"unknown role", "Bearer " + signToken(t, accessClaims("ROOT"), testSecret), http.StatusUnauthorized, `{"error":"invalid token role"}`},
		{"valid", "Bearer " + signToken(t, accessClaims("USER"), testSecret), http.StatusOK, `{"id":"u-1","role":"USER"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.header)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	r := newEngine(JWTAuthWithConfig(cfg), RequireAdmin())

	w := do(r, "Bearer "+signToken(t, accessClaims("USER"), testSecret))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Insufficient permissions"}`, w.Body.String())

	w = do(r, "Bearer "+signToken(t, accessClaims("ADMIN"), testSecret))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoles_WithoutIdentity(t *testing.T) {
	r := newEngine(RequireRoles("ADMIN", "USER"))
	w := do(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	r := newEngine(OptionalAuthWithConfig(cfg))

	w := do(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"","role":""}`, w.Body.String())

	w = do(r, "Bearer garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"","role":""}`, w.Body.String())

	w = do(r, "Bearer "+signToken(t, accessClaims("USER"), testSecret))
	assert.JSONEq(t, `{"id":"u-1","role":"USER"}`, w.Body.String())
}
