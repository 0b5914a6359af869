package jwtmw

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserID holds the authenticated user id (uint).
	ContextUserID = "userID"
	// ContextUserRole holds the role claim (string).
	ContextUserRole = "userRole"
	// ContextUserEmail holds the email claim (string).
	ContextUserEmail = "userEmail"

	accessTokenCookie = "access_token"
)

// AuthRequired rejects requests without a valid access token.
// The token is read from the Authorization header, then the access_token cookie.
func AuthRequired(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := v.Verify(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

// RoleRequired rejects authenticated requests whose role is not listed.
// It must run after AuthRequired.
func RoleRequired(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, c.GetString(ContextUserRole)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") && strings.TrimSpace(token) != "" {
		return strings.TrimSpace(token)
	}
	if cookie, err := c.Cookie(accessTokenCookie); err == nil {
		return cookie
	}
	return ""
}
