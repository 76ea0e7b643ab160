package middleware

import (
	"github.com/NomadCrew/school-dashboard/config"
	"github.com/gin-gonic/gin"
)

// dashboardCSP allows the self-contained dashboard document and nothing else:
// inline styles, no scripts, no remote fetches.
const dashboardCSP = "default-src 'none'; style-src 'unsafe-inline'; img-src data:; frame-ancestors 'none'"

// SecurityHeadersMiddleware adds security-related HTTP headers to all responses.
func SecurityHeadersMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", dashboardCSP)

		// Only in production; local runs are plain http.
		if cfg.IsProduction() {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
