package utils

import (
	"finboard/credits"
	"finboard/database"
	"finboard/logger"
	"finboard/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartCreditScheduler grants each paid plan's monthly credit allowance on
// the 1st at 00:10.
func StartCreditScheduler() *cron.Cron {
	c := cron.New()
	c.AddFunc("10 0 1 * *", func() {
		GrantMonthlyCredits(database.Database.Db)
	})
	c.Start()
	logger.Log.Info().Msg("credit scheduler started, monthly grants on the 1st at 00:10")
	return c
}

// GrantMonthlyCredits writes a MONTHLY_GRANT ledger row for every active
// user on a plan with a monthly allowance.
func GrantMonthlyCredits(db *gorm.DB) {
	var plans []models.Plan
	if err := db.Where("monthly_credits > 0 AND is_active = true").Find(&plans).Error; err != nil {
		logger.Log.Error().Err(err).Msg("monthly grant: loading plans failed")
		return
	}

	granted := 0
	for _, plan := range plans {
		var users []models.User
		if err := db.Where("plan = ? AND is_deleted = false AND is_blocked = false", plan.Key).Find(&users).Error; err != nil {
			logger.Log.Error().Err(err).Str("plan", plan.Key).Msg("monthly grant: loading users failed")
			continue
		}

		for _, user := range users {
			_, err := credits.Grant(db, user.ID, plan.MonthlyCredits, models.CreditTypeMonthlyGrant, credits.Entry{
				Description:   "Monthly plan allowance",
				ReferenceType: "plan",
				ReferenceID:   plan.Key,
			})
			if err != nil {
				logger.Log.Error().Err(err).Uint("userId", user.ID).Msg("monthly grant failed")
				continue
			}
			granted++
			SendMonthlyCreditsEmail(user.Email, user.Name, plan.MonthlyCredits, plan.Name)
		}
	}

	logger.Log.Info().Int("granted", granted).Msg("monthly credit grants complete")
}
