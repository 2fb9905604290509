package vehicle

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bitwise74/vehicle-api/internal"
	"bitwise74/vehicle-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func VehicleList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	tagIDs, err := paramsToIDs(c.Query("tags"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "tags must be a comma separated list of IDs",
			"requestID": requestID,
		})
		return
	}

	specIDs, err := paramsToIDs(c.Query("specifications"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "specifications must be a comma separated list of IDs",
			"requestID": requestID,
		})
		return
	}

	vehicles, err := d.Vehicles.List(userID, service.VehicleFilters{
		TagIDs:   tagIDs,
		SpecIDs:  specIDs,
		Ordering: c.Query("ordering"),
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     verr.Error(),
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list vehicles", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	for i := range vehicles {
		withImageURL(d, &vehicles[i])
	}

	c.JSON(http.StatusOK, vehicles)
}

// paramsToIDs converts a comma separated query value to numeric IDs.
func paramsToIDs(qs string) ([]uint, error) {
	if qs == "" {
		return nil, nil
	}

	parts := strings.Split(qs, ",")
	ids := make([]uint, 0, len(parts))

	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return nil, err
		}

		ids = append(ids, uint(id))
	}

	return ids, nil
}
