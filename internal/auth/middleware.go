package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "session"

const (
	ctxUserID = "user_id"
	ctxRole   = "user_role"
)

// JWTMiddleware authenticates the request from a Bearer header or the session
// cookie and stores the caller in the gin context.
func JWTMiddleware(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		SetUser(c, claims.UserID, claims.Role)
		c.Next()
	}
}

// OptionalJWTMiddleware records the caller when a valid token is present and
// lets anonymous requests through.
func OptionalJWTMiddleware(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFromRequest(c); token != "" {
			if claims, err := jwtManager.ValidateToken(token); err == nil {
				SetUser(c, claims.UserID, claims.Role)
			}
		}
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// SetUser records the authenticated caller.
func SetUser(c *gin.Context, userID uuid.UUID, role string) {
	c.Set(ctxUserID, userID)
	c.Set(ctxRole, role)
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func GetUserRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// HasRole reports whether the caller holds one of roles.
func HasRole(c *gin.Context, roles ...string) bool {
	role := GetUserRole(c)
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}
