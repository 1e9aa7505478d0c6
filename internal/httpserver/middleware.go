package httpserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"vendormart/internal/metrics"
	authsvc "vendormart/internal/service/auth"
)

const identityKey = "identity"

// requireAuth validates the Bearer token and stores the caller's identity
// on the request context.
func requireAuth(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		id, err := auth.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// requireRole runs after requireAuth and rejects callers whose role is not
// in the allow list.
func requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identityFrom(c)
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

func identityFrom(c *gin.Context) authsvc.Identity {
	v, _ := c.Get(identityKey)
	id, _ := v.(authsvc.Identity)
	return id
}

// observeRequests records request counts and latency per route template.
func observeRequests(m *metrics.ServerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		m.ObserveRequest(handler, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
