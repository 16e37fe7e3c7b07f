package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oksasatya/sp-website-api/pkg/response"
)

const HeaderRequestID = "X-Request-ID"

// RequestIDMiddleware keeps a sane inbound X-Request-ID or mints a new one,
// and exposes it as request_id in the Gin context and on the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.New().String()
		}
		c.Set(response.RequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
