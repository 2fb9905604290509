package root

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck is the liveness probe. No side effects, always 200.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
