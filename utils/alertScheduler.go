package utils

import (
	"context"
	"time"

	"finboard/database"
	"finboard/logger"
	"finboard/marketdata"
	"finboard/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// QuoteBatcher is the slice of the market service the sweep needs.
type QuoteBatcher interface {
	BatchQuotes(ctx context.Context, symbols []string) marketdata.BatchResult
}

// StartAlertScheduler runs the price alert sweep every five minutes.
func StartAlertScheduler(market QuoteBatcher) *cron.Cron {
	c := cron.New()
	c.AddFunc("*/5 * * * *", func() {
		SweepAlerts(database.Database.Db, market)
	})
	c.Start()
	logger.Log.Info().Msg("alert scheduler started, sweeping every 5 minutes")
	return c
}

// SweepAlerts loads every active alert, quotes the distinct symbols in one
// batch, and fires the alerts whose condition the price now meets. Fired
// alerts are one-shot: they deactivate and record the triggering price.
func SweepAlerts(db *gorm.DB, market QuoteBatcher) {
	var alerts []models.Alert
	if err := db.Where("is_active = true AND is_deleted = false").Find(&alerts).Error; err != nil {
		logger.Log.Error().Err(err).Msg("alert sweep: loading alerts failed")
		return
	}
	if len(alerts) == 0 {
		return
	}

	seen := make(map[string]bool)
	symbols := make([]string, 0, len(alerts))
	for _, a := range alerts {
		if !seen[a.Symbol] {
			seen[a.Symbol] = true
			symbols = append(symbols, a.Symbol)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	batch := market.BatchQuotes(ctx, symbols)
	prices := make(map[string]float64, len(batch.Quotes))
	for _, q := range batch.Quotes {
		prices[q.Symbol] = q.Price
	}

	fired := 0
	for i := range alerts {
		alert := &alerts[i]
		price, ok := prices[alert.Symbol]
		if !ok {
			continue
		}
		if !alertTripped(alert.Condition, alert.Threshold, price) {
			continue
		}

		now := time.Now()
		alert.IsActive = false
		alert.TriggeredAt = &now
		alert.TriggeredPrice = price
		alert.NotifiedAt = &now
		if err := db.Save(alert).Error; err != nil {
			logger.Log.Error().Err(err).Uint("alertId", alert.ID).Msg("alert sweep: save failed")
			continue
		}
		fired++

		var user models.User
		if err := db.Where("id = ? AND is_deleted = false", alert.UserID).First(&user).Error; err == nil {
			SendAlertTriggeredEmail(user.Email, user.Name, alert.Symbol, string(alert.Condition), alert.Threshold, price)
		}
	}

	logger.Log.Info().
		Int("checked", len(alerts)).
		Int("fired", fired).
		Int("failedSymbols", len(batch.Failed)).
		Msg("alert sweep complete")
}

func alertTripped(condition models.AlertCondition, threshold, price float64) bool {
	switch condition {
	case models.AlertConditionAbove:
		return price >= threshold
	case models.AlertConditionBelow:
		return price <= threshold
	default:
		return false
	}
}
