package security

import (
	"net/http"

	"tableconfig-editor/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware provides JWT authentication middleware. When enabled is
// false all checks pass through, which is the default for local use against
// a personal warehouse.
type AuthMiddleware struct {
	jwtManager *JWTManager
	enabled    bool
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtManager *JWTManager, enabled bool) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		enabled:    enabled,
	}
}

// RequireAuth creates a middleware that requires a valid token
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !am.enabled {
			c.Next()
			return
		}

		if _, ok := am.authenticate(c); !ok {
			return
		}

		c.Next()
	}
}

// RequireEditor requires a valid token carrying the editor role
func (am *AuthMiddleware) RequireEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !am.enabled {
			c.Next()
			return
		}

		claims, ok := am.authenticate(c)
		if !ok {
			return
		}

		if !claims.HasRole(RoleEditor) {
			c.JSON(http.StatusForbidden, response.ErrorResponse(
				"FORBIDDEN",
				"Editor role required",
				"",
				am.getCorrelationID(c),
			))
			c.Abort()
			return
		}

		c.Next()
	}
}

// authenticate validates the bearer token and stores the claims. On failure
// it writes the 401 response and aborts.
func (am *AuthMiddleware) authenticate(c *gin.Context) (*Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, response.UnauthorizedResponse(
			"Authorization header is required",
			am.getCorrelationID(c),
		))
		c.Abort()
		return nil, false
	}

	token, err := am.jwtManager.ExtractTokenFromHeader(authHeader)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.UnauthorizedResponse(
			err.Error(),
			am.getCorrelationID(c),
		))
		c.Abort()
		return nil, false
	}

	claims, err := am.jwtManager.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.UnauthorizedResponse(
			"Invalid or expired token",
			am.getCorrelationID(c),
		))
		c.Abort()
		return nil, false
	}

	am.storeClaims(c, claims)
	return claims, true
}

// OptionalAuth attaches claims when a valid token is present and passes
// through otherwise
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !am.enabled {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		token, err := am.jwtManager.ExtractTokenFromHeader(authHeader)
		if err != nil {
			c.Next()
			return
		}

		claims, err := am.jwtManager.ValidateToken(token)
		if err != nil {
			c.Next()
			return
		}

		am.storeClaims(c, claims)
		c.Next()
	}
}

func (am *AuthMiddleware) storeClaims(c *gin.Context, claims *Claims) {
	c.Set("auth_claims", claims)
	c.Set("auth_subject", claims.Username)
}

func (am *AuthMiddleware) getCorrelationID(c *gin.Context) string {
	if correlationID, exists := c.Get("correlation_id"); exists {
		if id, ok := correlationID.(string); ok {
			return id
		}
	}
	return ""
}

// GetClaims extracts claims from context
func GetClaims(c *gin.Context) (*Claims, bool) {
	claims, exists := c.Get("auth_claims")
	if !exists {
		return nil, false
	}
	userClaims, ok := claims.(*Claims)
	return userClaims, ok
}
