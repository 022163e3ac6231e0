package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SecretGuard rejects any request that did not come through the gateway.
// Runs before domain logic in every downstream service. The comparison is
// constant-time and the response leaks no detail about the mismatch.
func SecretGuard(expected string, logger *logrus.Logger) gin.HandlerFunc {
	want := []byte(expected)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(HeaderGatewaySecret))
		if len(got) != len(want) || subtle.ConstantTimeCompare(got, want) != 1 {
			if logger != nil {
				logger.WithFields(logrus.Fields{
					"path":      c.Request.URL.Path,
					"source_ip": c.ClientIP(),
				}).Warn("request bypasses api gateway or invalid secret")
			}
			c.String(http.StatusForbidden, "Access Denied: Request must come through API Gateway")
			c.Abort()
			return
		}
		c.Next()
	}
}
