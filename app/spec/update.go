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

type updateBody struct {
	Name string `json:"name"`
}

type patchBody struct {
	Name *string `json:"name"`
}

func SpecUpdate(c *gin.Context, d *internal.Deps) {
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

	var data updateBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	rename(c, d, requestID, userID, uint(id), data.Name)
}

func SpecPartialUpdate(c *gin.Context, d *internal.Deps) {
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

	var data patchBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	if data.Name == nil {
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
		return
	}

	rename(c, d, requestID, userID, uint(id), *data.Name)
}

func rename(c *gin.Context, d *internal.Deps, requestID, userID string, id uint, name string) {
	spec, err := d.Specs.Update(userID, id, name)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     verr.Error(),
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Specification not found",
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to update specification", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, spec)
}
