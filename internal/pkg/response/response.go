package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coursereviews/internal/pkg/apperr"
	"coursereviews/internal/pkg/logger"
)

// Result writes the success envelope {"result": data}.
func Result(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, gin.H{"result": data})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Abort writes the error envelope and stops the handler chain.
func Abort(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
	c.Abort()
}

// FromError maps a service error onto its HTTP status and generic message.
// Internal errors are logged and attached to the gin context, never echoed.
func FromError(c *gin.Context, err error) {
	kind := apperr.Classify(err)
	if kind.Status == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request failed",
			"path", c.FullPath(),
			"error", err.Error(),
		)
		_ = c.Error(err)
	}
	Error(c, kind.Status, kind.Code, kind.Message)
}
