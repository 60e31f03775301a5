package utils

import (
	"time"

	"finboard/database"
	"finboard/logger"
	"finboard/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartMaintenanceScheduler runs housekeeping daily at 03:00.
func StartMaintenanceScheduler() *cron.Cron {
	c := cron.New()
	c.AddFunc("0 3 * * *", func() {
		RunMaintenance(database.Database.Db)
	})
	c.Start()
	logger.Log.Info().Msg("maintenance scheduler started, daily at 03:00")
	return c
}

// RunMaintenance deactivates expired promo codes, hard-deletes rows that
// were soft-deleted more than 30 days ago, and trims old login history.
func RunMaintenance(db *gorm.DB) {
	now := time.Now()

	expired := db.Model(&models.PromoCode{}).
		Where("is_active = true AND expires_at IS NOT NULL AND expires_at < ?", now).
		Update("is_active", false)
	if expired.Error != nil {
		logger.Log.Error().Err(expired.Error).Msg("maintenance: expiring promos failed")
	}

	cutoff := now.AddDate(0, 0, -30)
	purged := int64(0)
	for _, model := range []interface{}{
		&models.Alert{},
		&models.Holding{},
		&models.Portfolio{},
		&models.Analysis{},
		&models.ContactMessage{},
		&models.PromoCode{},
	} {
		res := db.Unscoped().
			Where("is_deleted = true AND updated_at < ?", cutoff).
			Delete(model)
		if res.Error != nil {
			logger.Log.Error().Err(res.Error).Msg("maintenance: purge failed")
			continue
		}
		purged += res.RowsAffected
	}

	loginCutoff := now.AddDate(0, 0, -90)
	trimmed := db.Unscoped().
		Where("timestamp < ?", loginCutoff).
		Delete(&models.LoginTracking{})
	if trimmed.Error != nil {
		logger.Log.Error().Err(trimmed.Error).Msg("maintenance: login history trim failed")
	}

	logger.Log.Info().
		Int64("promosExpired", expired.RowsAffected).
		Int64("rowsPurged", purged).
		Int64("loginsTrimmed", trimmed.RowsAffected).
		Msg("maintenance complete")
}
