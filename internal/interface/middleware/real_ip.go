package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// proxy headers in priority order; X-Forwarded-For contributes its left-most entry
var realIPHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// RealIP stores the client address (key: CtxRealIP) for rate limiting and audit logs,
// falling back to gin's ClientIP when no proxy header carries a valid IP.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		for _, h := range realIPHeaders {
			v := c.GetHeader(h)
			if h == "X-Forwarded-For" {
				v, _, _ = strings.Cut(v, ",")
			}
			if parsed := net.ParseIP(strings.TrimSpace(v)); parsed != nil {
				ip = parsed.String()
				break
			}
		}
		c.Set(CtxRealIP, ip)
		c.Next()
	}
}

// ClientIP returns the address RealIP resolved, or gin's view of the peer.
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(CtxRealIP); ip != "" {
		return ip
	}
	return c.ClientIP()
}
