package handlers

import (
	"github.com/gin-gonic/gin"
)

// attachError records err on the gin context so the request log carries the
// failure reason. c.Error returns *gin.Error rather than error, which trips
// errcheck, hence the suppression.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError writes the standard {"error": ...} envelope and records the
// underlying error for the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails adds a details field, used for binding failures
// where the caller gets the per-field breakdown.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) { //nolint:unparam
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}
