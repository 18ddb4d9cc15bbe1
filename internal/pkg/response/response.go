// Package response renders the JSON envelope shared by every handler:
// {success, data} on the happy path, {success: false, error: {code,
// message, details}} otherwise. Codes are stable machine-readable
// strings; messages are for humans.
package response

import "github.com/gin-gonic/gin"

// Success writes data under the standard envelope.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

// Error writes an error envelope without structured detail.
func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// ErrorWithDetails attaches a structured payload to the error, e.g. the
// per-occurrence conflict report of a rejected booking.
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
