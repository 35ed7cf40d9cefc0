package middleware

import (
	"net/http"
	"strings"

	"github.com/distriflow/backend/internal/domain/order"
	"github.com/distriflow/backend/internal/infrastructure/auth"
	"github.com/distriflow/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session context keys
const (
	SessionClaimsKey = "session_claims"
	SessionUserIDKey = "session_user_id"
	SessionRoleKey   = "session_role"
	AuthHeaderKey    = "Authorization"
	BearerPrefix     = "Bearer "
)

// AuthConfig holds configuration for the session auth middleware
type AuthConfig struct {
	Tokens *auth.TokenService
	// SkipPaths are exact paths that don't require authentication
	SkipPaths []string
	Logger    *zap.Logger
}

// Auth verifies the bearer session token and exposes the caller's
// identity (user id and role) to downstream handlers.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}

		header := c.GetHeader(AuthHeaderKey)
		if header == "" || !strings.HasPrefix(header, BearerPrefix) {
			rejectUnauthenticated(c, cfg, auth.ErrInvalidToken, "Missing bearer token")
			return
		}

		tokenString := strings.TrimPrefix(header, BearerPrefix)
		claims, err := cfg.Tokens.ValidateToken(tokenString)
		if err != nil {
			rejectUnauthenticated(c, cfg, err, "Token validation failed")
			return
		}

		userID, err := claims.GetUserUUID()
		if err != nil || userID == uuid.Nil {
			rejectUnauthenticated(c, cfg, auth.ErrInvalidClaims, "Malformed user id")
			return
		}
		role := order.Role(claims.Role)
		if !role.IsValid() {
			rejectUnauthenticated(c, cfg, auth.ErrInvalidClaims, "Unknown role")
			return
		}

		c.Set(SessionClaimsKey, claims)
		c.Set(SessionUserIDKey, userID)
		c.Set(SessionRoleKey, role)

		// Propagate the user into the request context for log correlation
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithUserID(ctx, log, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func rejectUnauthenticated(c *gin.Context, cfg AuthConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("Authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	code := "UNAUTHORIZED"
	userMessage := "Authentification requise"
	if err == auth.ErrExpiredToken {
		code = "TOKEN_EXPIRED"
		userMessage = "Session expirée, veuillez vous reconnecter"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": userMessage,
		},
	})
}

// SessionUserID retrieves the authenticated user ID from the context
func SessionUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(SessionUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// SessionRole retrieves the authenticated caller's role from the context
func SessionRole(c *gin.Context) (order.Role, bool) {
	v, exists := c.Get(SessionRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(order.Role)
	return role, ok
}

// RequireRoles aborts with 403 unless the caller's role is one of the given
// roles. It must run after Auth.
func RequireRoles(roles ...order.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := SessionRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentification requise",
				},
			})
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Vous n'êtes pas autorisé à effectuer cette action",
			},
		})
	}
}
