package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"dealhub.backend/internal/domain/entities"
	domainerrors "dealhub.backend/internal/domain/errors"
	"dealhub.backend/internal/interfaces/http/response"
	"dealhub.backend/pkg/jwt"
	"dealhub.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// UserEmailKey is the context key for user email
	UserEmailKey = "userEmail"
	// UserRoleKey is the context key for user role
	UserRoleKey = "userRole"
)

// Authenticator resolves request credentials to access token claims
type Authenticator interface {
	VerifyAccessToken(token string) (*jwt.Claims, error)
	ResolveSession(ctx context.Context, sessionID string) (*jwt.Claims, error)
}

// AuthMiddleware requires a valid access token, given either as a bearer
// token or through a server side session.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c, auth)
		if err != nil {
			logger.Warn(c.Request.Context(), "Authentication failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			response.AbortWithError(c, err)
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader(AuthorizationHeader)
	if authHeader == "" {
		return "", domainerrors.Unauthorized("Authorization header is required")
	}
	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return "", domainerrors.Unauthorized("Invalid authorization format. Use: Bearer <token>")
	}
	return strings.TrimPrefix(authHeader, BearerPrefix), nil
}

func setClaims(c *gin.Context, claims *jwt.Claims) {
	c.Set(UserIDKey, claims.UserID)
	c.Set(UserEmailKey, claims.Email)
	c.Set(UserRoleKey, claims.Role)

	ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, claims.UserID.String())
	c.Request = c.Request.WithContext(ctx)
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// GetUserEmail gets the user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}

// GetUserRole gets the user role from context
func GetUserRole(c *gin.Context) (entities.UserRole, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	s, ok := role.(string)
	return entities.UserRole(s), ok
}

// RequireRole creates a middleware that requires one of roles
func RequireRole(roles ...entities.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := GetUserRole(c)
		if !exists {
			response.AbortWithError(c, domainerrors.Unauthorized("User role not found"))
			return
		}

		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}

		response.AbortWithError(c, domainerrors.Forbidden("Insufficient permissions"))
	}
}

// RequireAdmin creates a middleware that requires admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(entities.UserRoleAdmin)
}

// RequireOwnerOrAdmin admits restaurant owners and admins
func RequireOwnerOrAdmin() gin.HandlerFunc {
	return RequireRole(entities.UserRoleRestaurantOwner, entities.UserRoleAdmin)
}

// ActiveUserChecker reports whether the account behind a token is still usable
type ActiveUserChecker interface {
	EnsureActive(ctx context.Context, userID uuid.UUID) error
}

// RequireActiveUser rejects callers whose account was deactivated after their
// access token was issued. It must run after AuthMiddleware.
func RequireActiveUser(checker ActiveUserChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AbortWithError(c, domainerrors.Unauthorized("User not authenticated"))
			return
		}
		if err := checker.EnsureActive(c.Request.Context(), userID); err != nil {
			logger.Warn(c.Request.Context(), "Inactive account rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			response.AbortWithError(c, err)
			return
		}
		c.Next()
	}
}
