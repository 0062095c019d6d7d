package middleware

import (
	"github.com/gin-gonic/gin"

	"campus/spacehub/pkg/response"
)

// AdminAuth lets through only callers whose token carries the admin role.
// Must be used after JWTAuth middleware.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			response.Unauthorized(c, "missing authentication")
			c.Abort()
			return
		}

		if !identity.IsAdmin() {
			response.Forbidden(c, "admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
