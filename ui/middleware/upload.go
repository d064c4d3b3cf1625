package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// multipart framing allowance on top of the file limit
const formOverhead = 1 << 20

// LimitBody caps the request body so an oversized upload fails while it is
// read instead of filling memory or disk. maxBytes <= 0 disables the cap.
func LimitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+formOverhead)
		}
		c.Next()
	}
}
