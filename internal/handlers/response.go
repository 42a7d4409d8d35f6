package handlers

import "github.com/gin-gonic/gin"

// WriteJSONResponse writes a success envelope
func WriteJSONResponse(c *gin.Context, data interface{}, status int) {
	c.JSON(status, gin.H{
		"status": "success",
		"data":   data,
	})
}

// WriteJSONError writes an error envelope
func WriteJSONError(c *gin.Context, message string, status int) {
	c.JSON(status, gin.H{
		"status": "error",
		"error":  message,
	})
}
