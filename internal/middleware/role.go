package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursereviews/internal/pkg/response"
)

// AdminOnly requires the authenticated student to hold the admin privilege.
// Must run after TokenAuth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentStudent(c).IsAdmin() {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Admin privilege required")
			return
		}
		c.Next()
	}
}
