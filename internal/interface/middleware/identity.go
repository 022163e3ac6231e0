package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/platform/pkg/response"
)

// Gin context keys for the identity derived at the gateway.
const (
	CtxUserID    = "userID"
	CtxUserRole  = "userRole"
	CtxUserEmail = "userEmail"
)

// Identity copies the gateway's derived identity headers into the Gin
// context. It must run behind SecretGuard; the headers are meaningless
// otherwise.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxUserID, c.GetHeader(HeaderUserID))
		c.Set(CtxUserRole, c.GetHeader(HeaderUserRole))
		c.Set(CtxUserEmail, c.GetHeader(HeaderUserEmail))
		c.Next()
	}
}

// RequireIdentity aborts when no user identity was propagated, for routes
// the gateway classifies as secured.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserID) == "" {
			response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
