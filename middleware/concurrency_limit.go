package middleware

import (
	"strconv"

	apperrors "github.com/NomadCrew/school-dashboard/errors"
	"github.com/NomadCrew/school-dashboard/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
)

// retryAfterSeconds is what rejected clients are told to wait. A render takes
// a few seconds at most.
const retryAfterSeconds = 5

// ConcurrencyLimiter rejects requests beyond max in flight with 429. It guards
// routes that start a headless browser, each costing a few hundred MB.
func ConcurrencyLimiter(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)

	return func(c *gin.Context) {
		if !sem.TryAcquire(1) {
			logger.GetLogger().Warnw("Render capacity exhausted",
				"path", c.Request.URL.Path,
				"max_concurrent", max)
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
			_ = c.Error(apperrors.RateLimitExceeded("Too many renders in progress", retryAfterSeconds))
			c.Abort()
			return
		}
		defer sem.Release(1)

		c.Next()
	}
}
