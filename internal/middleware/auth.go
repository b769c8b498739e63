package middleware

import (
	"context"
	"net/http"
	"strings"

	"frozenshop/internal/apierror"
	"frozenshop/internal/authz"

	"github.com/gin-gonic/gin"
)

const (
	AuthKey = "auth"
	// RememberCookie carries the long-lived "remember me" token.
	RememberCookie = "remember_token"
)

// Authenticator resolves credentials into an AuthContext.
type Authenticator interface {
	ParseToken(tokenStr string) (authz.AuthContext, error)
	AuthenticateRememberToken(ctx context.Context, token string) (authz.AuthContext, error)
}

// AdminAuth accepts a Bearer access token, falling back to the remember-me
// cookie when no Authorization header is sent.
func AdminAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			auth, err := a.ParseToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Invalid or expired token"))
				return
			}
			c.Set(AuthKey, auth)
			c.Next()
			return
		}

		if token, err := c.Cookie(RememberCookie); err == nil && token != "" {
			auth, err := a.AuthenticateRememberToken(c.Request.Context(), token)
			if err == nil {
				c.Set(AuthKey, auth)
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Authentication required"))
	}
}

// RequireCapability rejects requests whose role does not grant cap.
func RequireCapability(cap authz.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetAuth(c).Can(cap) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Access denied"))
			return
		}
		c.Next()
	}
}

// GetAuth returns the AuthContext set by AdminAuth, or the zero value.
func GetAuth(c *gin.Context) authz.AuthContext {
	auth, _ := c.Get(AuthKey)
	a, _ := auth.(authz.AuthContext)
	return a
}
