// Package spec exposes the specification endpoints. They behave exactly
// like tags, down to the assigned_only filter.
package spec

import (
	"net/http"
	"strconv"

	"bitwise74/vehicle-api/internal"
	"bitwise74/vehicle-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SpecList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	assignedOnly, err := strconv.Atoi(c.DefaultQuery("assigned_only", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid assigned_only value provided",
			"requestID": requestID,
		})
		return
	}

	specs, err := d.Specs.List(userID, service.AttrListOpts{
		AssignedOnly: assignedOnly != 0,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list specifications", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, specs)
}
