package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmstand/marketplace/pkg/response"
)

// BodyLimit rejects request bodies larger than max bytes with 413. Requests
// that understate or omit Content-Length are still cut off at max by the
// wrapped reader, so an oversized upload fails during parsing instead of
// being spooled to disk.
func BodyLimit(max int64) gin.HandlerFunc {
	if max <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > max {
			response.Error[any](c, http.StatusRequestEntityTooLarge, "request body too large", nil)
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}
