package service

import (
	"time"

	"bitwise74/vehicle-api/internal/model"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StartTokenCleanup schedules a daily job that prunes expired auth
// tokens. Expired tokens already fail authentication, this only keeps
// the table from growing.
func StartTokenCleanup(db *gorm.DB) *cron.Cron {
	c := cron.New()

	c.AddFunc("@daily", func() {
		res := db.Where("expires_at < ?", time.Now()).Delete(&model.AuthToken{})
		if res.Error != nil {
			zap.L().Error("Failed to cleanup expired tokens", zap.Error(res.Error))
			return
		}

		if res.RowsAffected > 0 {
			zap.L().Debug("Cleaned up expired tokens", zap.Int64("count", res.RowsAffected))
		}
	})

	c.Start()
	return c
}
