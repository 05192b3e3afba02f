package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse sends a structured success response
func JSONResponse(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// JSONError sends a structured error response. message is shown to the user verbatim;
// err is attached to the context for the request logger.
func JSONError(c *gin.Context, status int, err error, message string) {
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}
