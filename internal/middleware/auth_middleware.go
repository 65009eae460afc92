package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursehub/course-service/internal/app/clients"
	"github.com/coursehub/course-service/internal/app/models/dto"
	"github.com/coursehub/course-service/internal/pkg/auth"
)

// Context keys set by the authentication middleware
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// RoleAdmin is the role required for catalog mutations
const RoleAdmin = "admin"

// AuthMiddleware authenticates requests against the Access Gate. When a
// remote validator is configured the token is delegated to the auth
// service; otherwise it is verified locally against the shared JWT
// secret.
type AuthMiddleware struct {
	jwtService *auth.JWTService
	validator  clients.TokenValidator
}

// NewAuthMiddleware creates a new AuthMiddleware. validator may be nil,
// which selects local JWT verification.
func NewAuthMiddleware(jwtService *auth.JWTService, validator clients.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		validator:  validator,
	}
}

// Authenticate validates the bearer token and stores the caller's
// identity in the request context. Validation failure is always fatal
// to the request; there is no partial authentication.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("No token provided"))
			return
		}

		if m.validator != nil {
			identity, err := m.validator.ValidateToken(c.Request.Context(), token)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Invalid or expired token"))
				return
			}
			c.Set(ContextUserID, identity.UserID)
			c.Set(ContextEmail, identity.Email)
			c.Set(ContextRole, identity.Role)
			c.Next()
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Invalid or expired token"))
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// AdminOnly rejects authenticated callers that do not carry the admin
// role. Must run after Authenticate.
func (m *AuthMiddleware) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
			return
		}

		roleStr, ok := role.(string)
		if !ok || roleStr != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse("Admin access required"))
			return
		}

		c.Next()
	}
}
