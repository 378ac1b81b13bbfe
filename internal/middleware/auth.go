package middleware

import (
	"net/http"
	"strings"

	"homecook-backend/pkg/auth"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthRequired.
const (
	SessionIDKey  = "session_id"
	RoleKey       = "role"
	VendorIDKey   = "vendor_id"
	VendorNameKey = "vendor_name"
)

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
}

func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// AuthRequired middleware validates the bearer session token
func (a *AuthMiddleware) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := a.jwtManager.ValidateToken(tokenParts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(SessionIDKey, claims.SessionID)
		c.Set(RoleKey, claims.Role)
		c.Set(VendorIDKey, claims.VendorID)
		c.Set(VendorNameKey, claims.VendorName)
		c.Next()
	}
}

// RoleRequired middleware checks if the session has one of the roles
func (a *AuthMiddleware) RoleRequired(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(RoleKey)
		for _, requiredRole := range requiredRoles {
			if role == requiredRole {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// CookRequired middleware ensures the session acts for a vendor
func (a *AuthMiddleware) CookRequired() gin.HandlerFunc {
	return a.RoleRequired(auth.RoleCook)
}

// GetSessionID extracts the session ID set by AuthRequired
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// GetVendor extracts the vendor a cook session acts for
func GetVendor(c *gin.Context) (id, name string) {
	return c.GetString(VendorIDKey), c.GetString(VendorNameKey)
}
