package spec

import (
	"errors"
	"net/http"
	"strconv"

	"bitwise74/vehicle-api/internal"
	"bitwise74/vehicle-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SpecRetrieve(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Specification not found",
			"requestID": requestID,
		})
		return
	}

	spec, err := d.Specs.Retrieve(userID, uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Specification not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch specification", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, spec)
}
