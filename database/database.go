package database

import (
	"fmt"

	"finboard/config"
	"finboard/logger"
	"finboard/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes the database connection. PostgreSQL is used when
// DB_HOST is configured; otherwise a local SQLite file keeps development
// and tests self-contained.
func ConnectDb() {
	cfg := config.AppConfig

	var (
		db  *gorm.DB
		err error
	)

	if cfg.DBHost != "" {
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.DBName), &gorm.Config{})
	}
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to get database instance")
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	RunMigrations(db)
	SeedPlans(db)
	SeedRateLimitRules(db)

	Database = DbInstance{Db: db}
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) {
	logger.Log.Info().Msg("Running migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.LoginTracking{},
		&models.CreditTransaction{},
		&models.PromoCode{},
		&models.PromoRedemption{},
		&models.Portfolio{},
		&models.Holding{},
		&models.Alert{},
		&models.ContactMessage{},
		&models.RateLimitRule{},
		&models.Analysis{},
		&models.Plan{},
	)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Migration failed")
	}

	logger.Log.Info().Msg("Migrations completed successfully")
}

// SeedPlans inserts the pricing catalog if it is empty.
func SeedPlans(db *gorm.DB) {
	var count int64
	db.Model(&models.Plan{}).Count(&count)
	if count > 0 {
		return
	}

	plans := []models.Plan{
		{
			Key:            "free",
			Name:           "Free",
			PriceMonthly:   0,
			MonthlyCredits: 0,
			MaxPortfolios:  1,
			MaxAlerts:      5,
			Description:    "Delayed quotes, one portfolio, basic metrics.",
			SortOrder:      1,
		},
		{
			Key:            "pro",
			Name:           "Pro",
			PriceMonthly:   9.99,
			MonthlyCredits: 200,
			MaxPortfolios:  5,
			MaxAlerts:      25,
			Description:    "AI analysis credits, price alerts, full metric benchmarks.",
			SortOrder:      2,
		},
		{
			Key:            "max",
			Name:           "Max",
			PriceMonthly:   29.99,
			MonthlyCredits: 1000,
			MaxPortfolios:  25,
			MaxAlerts:      100,
			Description:    "Everything in Pro with the highest credit allowance.",
			SortOrder:      3,
		},
	}

	if err := db.Create(&plans).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to seed plans")
		return
	}
	logger.Log.Info().Int("plans", len(plans)).Msg("Seeded pricing catalog")
}

// SeedRateLimitRules inserts default limiter rules if none exist.
func SeedRateLimitRules(db *gorm.DB) {
	var count int64
	db.Model(&models.RateLimitRule{}).Count(&count)
	if count > 0 {
		return
	}

	rules := []models.RateLimitRule{
		{Scope: models.RateLimitScopeAPI, PerMinute: config.AppConfig.RateLimitPerMin, Enabled: true},
		{Scope: models.RateLimitScopeContact, PerMinute: 5, Enabled: true},
		{Scope: models.RateLimitScopeAnalysis, PerMinute: 10, Enabled: true},
	}

	if err := db.Create(&rules).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to seed rate limit rules")
	}
}
