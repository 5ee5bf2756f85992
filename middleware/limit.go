package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LimitBody caps how much of the request body handlers can read. Reads past
// n fail with *http.MaxBytesError.
func LimitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
