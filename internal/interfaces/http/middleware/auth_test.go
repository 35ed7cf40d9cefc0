package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/distriflow/backend/internal/domain/order"
	"github.com/distriflow/backend/internal/infrastructure/auth"
	"github.com/distriflow/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestTokenService() *auth.TokenService {
	return auth.NewTokenService(config.JWTConfig{
		Secret: "test-secret-key-at-least-32-chars",
		Issuer: "test-issuer",
	})
}

func authRouter(tokens *auth.TokenService, skipPaths ...string) *gin.Engine {
	router := gin.New()
	router.Use(Auth(AuthConfig{Tokens: tokens, SkipPaths: skipPaths}))
	router.GET("/test", func(c *gin.Context) {
		userID, _ := SessionUserID(c)
		role, _ := SessionRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID.String(), "role": string(role)})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload.Error.Code
}

func TestAuth_ValidToken(t *testing.T) {
	tokens := newTestTokenService()
	userID := uuid.New()
	token, err := tokens.GenerateToken(userID, string(order.RoleCommercial))
	require.NoError(t, err)

	router := authRouter(tokens)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, userID.String(), payload.UserID)
	assert.Equal(t, "COMMERCIAL", payload.Role)
}

func TestAuth_MissingHeader(t *testing.T) {
	router := authRouter(newTestTokenService())
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec.Body.Bytes()))
}

func TestAuth_InvalidHeaderFormat(t *testing.T) {
	router := authRouter(newTestTokenService())
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_GarbageToken(t *testing.T) {
	router := authRouter(newTestTokenService())
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_UnknownRole(t *testing.T) {
	tokens := newTestTokenService()
	token, err := tokens.GenerateToken(uuid.New(), "SUPERVISOR")
	require.NoError(t, err)

	router := authRouter(tokens)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_SkipPaths(t *testing.T) {
	router := authRouter(newTestTokenService(), "/health")
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoles(t *testing.T) {
	tokens := newTestTokenService()
	router := gin.New()
	router.Use(Auth(AuthConfig{Tokens: tokens}))
	admin := router.Group("", RequireRoles(order.RoleAdmin))
	admin.GET("/admin", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	clientToken, err := tokens.GenerateToken(uuid.New(), string(order.RoleClient))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+clientToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, rec.Body.Bytes()))

	adminToken, err := tokens.GenerateToken(uuid.New(), string(order.RoleAdmin))
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
