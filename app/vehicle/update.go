package vehicle

import (
	"errors"
	"net/http"
	"strconv"

	"bitwise74/vehicle-api/internal"
	"bitwise74/vehicle-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VehicleUpdate replaces all fields. A tags/specifications list in the
// payload replaces the linked set, an absent one leaves it alone.
func VehicleUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Vehicle not found",
			"requestID": requestID,
		})
		return
	}

	var data service.VehicleInput
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	vehicle, err := d.Vehicles.Update(userID, uint(id), data)
	if err != nil {
		respondUpdateError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, withImageURL(d, vehicle))
}

// VehiclePartialUpdate merges only the fields present in the payload.
func VehiclePartialUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Vehicle not found",
			"requestID": requestID,
		})
		return
	}

	var patch service.VehiclePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	vehicle, err := d.Vehicles.PartialUpdate(userID, uint(id), patch)
	if err != nil {
		respondUpdateError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, withImageURL(d, vehicle))
}

func respondUpdateError(c *gin.Context, requestID string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     verr.Error(),
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Vehicle not found",
			"requestID": requestID,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update vehicle", zap.Error(err), zap.String("requestID", requestID))
	}
}
