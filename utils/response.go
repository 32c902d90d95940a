package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

// JSONError writes the error envelope used by every handler. field may be
// empty when the error is not tied to one input.
func JSONError(c *gin.Context, code int, errCode, message, field string) {
	body := gin.H{"code": errCode, "message": message}
	if field != "" {
		body["field"] = field
	}
	c.AbortWithStatusJSON(code, gin.H{"success": false, "error": body})
}
