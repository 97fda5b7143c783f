// Package httpapi is the HTTP facade over the services layer: bind the
// request, call the service, map the error family to a status. No business
// rules live here.
package httpapi

import (
	"chat-core/auth"
	"chat-core/domain"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const identityKey = "caller_identity"

// IdentityMiddleware verifies the bearer token when present and stores the
// resulting Identity in the request context. A missing or invalid token is
// not a transport error: the caller stays anonymous and the per-operation
// policy in the services decides what that means.
func IdentityMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, found := strings.CutPrefix(header, "Bearer "); found {
			if identity, err := auth.VerifyToken(token, secret); err == nil {
				c.Set(identityKey, identity)
			}
		}
		c.Next()
	}
}

// callerIdentity returns the verified identity, or the anonymous zero value.
func callerIdentity(c *gin.Context) domain.Identity {
	if value, ok := c.Get(identityKey); ok {
		if identity, ok := value.(domain.Identity); ok {
			return identity
		}
	}
	return domain.Identity{}
}

// RequestLogger logs each request with latency and status.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
