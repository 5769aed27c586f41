package middlewares

import (
	"bitbucket.org/montealto-academy/academy_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIdMiddleware tags each request with a correlation id, honoring one
// supplied by the caller so log lines can be stitched across services.
func RequestIdMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationId := c.Request.Header.Get("X-Request-Id")
		if correlationId == "" {
			correlationId = uuid.NewString()
		}

		ctx := utils.SetCorrelationIdInContext(c.Request.Context(), correlationId)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Request-Id", correlationId)
		c.Next()
	}
}
