package utils

import (
	"fmt"
	"testing"

	"finboard/config"
	"finboard/database"
	"finboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.AppConfig = &config.Config{}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Plan{}, &models.CreditTransaction{}))
	database.Database = database.DbInstance{Db: db}
	return db
}

func TestGrantMonthlyCreditsPerPlan(t *testing.T) {
	db := setupLedgerDB(t)

	require.NoError(t, db.Create(&models.Plan{Key: "free", Name: "Free", MonthlyCredits: 0, IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Plan{Key: "pro", Name: "Pro", MonthlyCredits: 200, IsActive: true}).Error)

	alice := models.User{Name: "Alice", Email: "alice@example.com", Password: "x", Plan: "pro", CreditBalance: 10}
	require.NoError(t, db.Create(&alice).Error)
	bob := models.User{Name: "Bob", Email: "bob@example.com", Password: "x", Plan: "free", CreditBalance: 5}
	require.NoError(t, db.Create(&bob).Error)
	carol := models.User{Name: "Carol", Email: "carol@example.com", Password: "x", Plan: "pro", IsBlocked: true}
	require.NoError(t, db.Create(&carol).Error)

	GrantMonthlyCredits(db)

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, alice.ID).Error)
	assert.Equal(t, int64(210), refreshed.CreditBalance)

	require.NoError(t, db.First(&refreshed, bob.ID).Error)
	assert.Equal(t, int64(5), refreshed.CreditBalance, "plans without an allowance grant nothing")

	require.NoError(t, db.First(&refreshed, carol.ID).Error)
	assert.Equal(t, int64(0), refreshed.CreditBalance, "blocked accounts are skipped")

	var entry models.CreditTransaction
	require.NoError(t, db.Where("user_id = ?", alice.ID).First(&entry).Error)
	assert.Equal(t, models.CreditTypeMonthlyGrant, entry.TransactionType)
	assert.Equal(t, int64(200), entry.Amount)
	assert.Equal(t, "pro", entry.ReferenceID)

	var total int64
	db.Model(&models.CreditTransaction{}).Count(&total)
	assert.Equal(t, int64(1), total, "exactly one grant per eligible user")
}

func TestGrantMonthlyCreditsIgnoresInactivePlans(t *testing.T) {
	db := setupLedgerDB(t)

	require.NoError(t, db.Create(&models.Plan{Key: "legacy", Name: "Legacy", MonthlyCredits: 500, IsActive: false}).Error)
	user := models.User{Name: "Dan", Email: "dan@example.com", Password: "x", Plan: "legacy"}
	require.NoError(t, db.Create(&user).Error)

	GrantMonthlyCredits(db)

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, user.ID).Error)
	assert.Equal(t, int64(0), refreshed.CreditBalance)
}
