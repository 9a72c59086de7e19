package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/musule-planner/internal/core/week"
)

const invalidWeekMessage = "Invalid week format (must be YYYY-WW)"

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, errMsg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": errMsg})
}

// respondFailure reports an operation that failed after validation passed,
// with the cause in message.
func respondFailure(c *gin.Context, errMsg string, err error) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   errMsg,
		"message": err.Error(),
	})
}

// weekParam reads :week, writing a 400 when it is missing or malformed.
func weekParam(c *gin.Context) (string, bool) {
	w := c.Param("week")
	if w == "" {
		respondError(c, http.StatusBadRequest, "Week parameter is required")
		return "", false
	}
	if week.Validate(w) != nil {
		respondError(c, http.StatusBadRequest, invalidWeekMessage)
		return "", false
	}
	return w, true
}
