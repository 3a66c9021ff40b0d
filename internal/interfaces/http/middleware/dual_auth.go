package middleware

import (
	"github.com/gin-gonic/gin"

	"dealhub.backend/pkg/jwt"
)

// SessionIDHeader carries the id returned by a session login
const SessionIDHeader = "X-Session-Id"

// authenticate prefers a session id over a bearer token
func authenticate(c *gin.Context, auth Authenticator) (*jwt.Claims, error) {
	if sessionID := c.GetHeader(SessionIDHeader); sessionID != "" {
		return auth.ResolveSession(c.Request.Context(), sessionID)
	}

	token, err := bearerToken(c)
	if err != nil {
		return nil, err
	}
	return auth.VerifyAccessToken(token)
}

// OptionalAuthMiddleware sets the caller identity when credentials are
// present and valid, and otherwise lets the request through anonymously.
func OptionalAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(SessionIDHeader) == "" && c.GetHeader(AuthorizationHeader) == "" {
			c.Next()
			return
		}
		if claims, err := authenticate(c, auth); err == nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}
