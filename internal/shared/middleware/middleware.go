package middleware

import (
	"net/http"
	"strings"

	"classbook/internal/shared/config"
	"classbook/internal/shared/utils/response"
	"classbook/internal/users"
	"classbook/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Keys set on the gin context by JWTAuthWithConfig
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
)

// JWTAuth creates a JWT authentication middleware from the environment config
func JWTAuth() gin.HandlerFunc {
	return JWTAuthWithConfig(config.Load())
}

// JWTAuthWithConfig requires a valid bearer access token
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			response.AbortWithError(c, http.StatusUnauthorized, "authorization header format must be Bearer {token}")
			return
		}

		claims, err := parseAccessToken(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.GetDefault().LogAuthFailure(c.Request.Context(), err.Error(), c.ClientIP())
			response.AbortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuthWithConfig sets the identity when a valid token is present
// but never rejects the request
func OptionalAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := parseAccessToken(tokenString, cfg.JWT.Secret); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRole checks the authenticated user's role
func RequireRole(requiredRole string) gin.HandlerFunc {
	return RequireRoles(requiredRole)
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRole(string(users.RoleAdmin))
}

// RequireRoles passes when the user holds any of requiredRoles
func RequireRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(ContextUserRole)
		if userRole == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "user role not found in context")
			return
		}

		for _, role := range requiredRoles {
			if userRole == role {
				c.Next()
				return
			}
		}

		response.AbortWithError(c, http.StatusForbidden, "Insufficient permissions")
	}
}

// CurrentUserID returns the authenticated user id
func CurrentUserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextUserID)
	return id, id != ""
}

// CurrentUserUUID returns the authenticated user id parsed as a UUID
func CurrentUserUUID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := CurrentUserID(c)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	return id, err == nil
}

// CurrentUserEmail returns the email carried by the access token
func CurrentUserEmail(c *gin.Context) string {
	return c.GetString(ContextUserEmail)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

type tokenError string

func (e tokenError) Error() string { return string(e) }

const (
	errInvalidToken     = tokenError("invalid or expired token")
	errInvalidTokenType = tokenError("invalid token type")
	errInvalidTokenRole = tokenError("invalid token role")
)

func parseAccessToken(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidToken
	}
	if tokenType, ok := claims["type"].(string); !ok || tokenType != "access" {
		return nil, errInvalidTokenType
	}
	if role, _ := claims["role"].(string); !users.IsValidRole(role) {
		return nil, errInvalidTokenRole
	}
	return claims, nil
}

func setIdentity(c *gin.Context, claims jwt.MapClaims) {
	if v, ok := claims["user_id"].(string); ok {
		c.Set(ContextUserID, v)
	}
	if v, ok := claims["email"].(string); ok {
		c.Set(ContextUserEmail, v)
	}
	if v, ok := claims["role"].(string); ok {
		c.Set(ContextUserRole, v)
	}
}
