package creditsController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finboard/config"
	"finboard/credits"
	"finboard/database"
	"finboard/middleware"
	"finboard/models"
	creditsValidator "finboard/validators/credits"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupCreditsApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Plan{},
		&models.PromoCode{},
		&models.PromoRedemption{},
		&models.CreditTransaction{},
	))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Get("/api/credits/balance", middleware.JWTMiddleware, GetBalance)
	app.Get("/api/credits/history", creditsValidator.CreditHistory(), middleware.JWTMiddleware, CreditHistory)
	app.Post("/api/credits/redeem", creditsValidator.RedeemPromo(), middleware.JWTMiddleware, RedeemPromo)
	return app, db
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func request(t *testing.T, app *fiber.App, method, target, token string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func seedUser(t *testing.T, db *gorm.DB, balance int64) (*models.User, string) {
	t.Helper()

	user := models.User{
		Name:          "Test User",
		Email:         fmt.Sprintf("%s@example.com", t.Name()),
		Password:      "hashed",
		CreditBalance: balance,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return &user, token
}

func seedPromo(t *testing.T, db *gorm.DB, promo models.PromoCode) *models.PromoCode {
	t.Helper()

	require.NoError(t, db.Create(&promo).Error)
	return &promo
}

func TestRedeemPromoGrantsBonus(t *testing.T) {
	app, db := setupCreditsApp(t)
	user, token := seedUser(t, db, 10)
	promo := seedPromo(t, db, models.PromoCode{Code: "SPRING40", Credits: 40, IsActive: true})

	// Codes are case-insensitive on input
	resp, env := request(t, app, "POST", "/api/credits/redeem", token, fiber.Map{"code": " spring40 "})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Promo code redeemed successfully.", env.Message)

	var data struct {
		CreditsGranted int64 `json:"creditsGranted"`
		Balance        int64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(40), data.CreditsGranted)
	assert.Equal(t, int64(50), data.Balance)

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, user.ID).Error)
	assert.Equal(t, int64(50), refreshed.CreditBalance)

	var redemption models.PromoRedemption
	require.NoError(t, db.Where("promo_code_id = ? AND user_id = ?", promo.ID, user.ID).First(&redemption).Error)
	assert.Equal(t, int64(40), redemption.Credits)

	var entry models.CreditTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&entry).Error)
	assert.Equal(t, models.CreditTypePromoBonus, entry.TransactionType)
	assert.Equal(t, int64(10), entry.BalanceBefore)
	assert.Equal(t, int64(50), entry.BalanceAfter)
	assert.Equal(t, "SPRING40", entry.ReferenceID)

	var refreshedPromo models.PromoCode
	require.NoError(t, db.First(&refreshedPromo, promo.ID).Error)
	assert.Equal(t, 1, refreshedPromo.RedemptionCount)
}

func TestRedeemPromoOncePerUser(t *testing.T) {
	app, db := setupCreditsApp(t)
	user, token := seedUser(t, db, 0)
	seedPromo(t, db, models.PromoCode{Code: "ONCE10", Credits: 10, IsActive: true})

	resp, _ := request(t, app, "POST", "/api/credits/redeem", token, fiber.Map{"code": "ONCE10"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env := request(t, app, "POST", "/api/credits/redeem", token, fiber.Map{"code": "ONCE10"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "You have already redeemed this code!", env.Message)

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, user.ID).Error)
	assert.Equal(t, int64(10), refreshed.CreditBalance, "repeat redemption must not grant again")

	var ledgerRows int64
	db.Model(&models.CreditTransaction{}).Where("user_id = ?", user.ID).Count(&ledgerRows)
	assert.Equal(t, int64(1), ledgerRows)
}

func TestRedeemPromoExpired(t *testing.T) {
	app, db := setupCreditsApp(t)
	user, token := seedUser(t, db, 0)

	expired := time.Now().Add(-24 * time.Hour)
	seedPromo(t, db, models.PromoCode{Code: "OLDCODE", Credits: 10, IsActive: true, ExpiresAt: &expired})

	resp, env := request(t, app, "POST", "/api/credits/redeem", token, fiber.Map{"code": "OLDCODE"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "This promo code has expired!", env.Message)

	var redemptions int64
	db.Model(&models.PromoRedemption{}).Where("user_id = ?", user.ID).Count(&redemptions)
	assert.Equal(t, int64(0), redemptions)
}

func TestRedeemPromoInactive(t *testing.T) {
	app, db := setupCreditsApp(t)
	_, token := seedUser(t, db, 0)
	seedPromo(t, db, models.PromoCode{Code: "RETIRED", Credits: 10, IsActive: false})

	resp, env := request(t, app, "POST", "/api/credits/redeem", token, fiber.Map{"code": "RETIRED"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "This promo code is no longer active!", env.Message)
}

func TestRedeemPromoExhausted(t *testing.T) {
	app, db := setupCreditsApp(t)
	_, token := seedUser(t, db, 0)
	seedPromo(t, db, models.PromoCode{Code: "LIMITED", Credits: 10, IsActive: true, MaxRedemptions: 1, RedemptionCount: 1})

	resp, env := request(t, app, "POST", "/api/credits/redeem", token, fiber.Map{"code": "LIMITED"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "This promo code has been fully redeemed!", env.Message)
}

func TestRedeemPromoUnknownCode(t *testing.T) {
	app, db := setupCreditsApp(t)
	_, token := seedUser(t, db, 0)

	resp, env := request(t, app, "POST", "/api/credits/redeem", token, fiber.Map{"code": "NOSUCH"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Invalid promo code!", env.Message)
}

func TestBalanceIncludesPlanAllowance(t *testing.T) {
	app, db := setupCreditsApp(t)
	user, token := seedUser(t, db, 120)

	require.NoError(t, db.Create(&models.Plan{
		Key: "pro", Name: "Pro", MonthlyCredits: 200, MaxPortfolios: 5, MaxAlerts: 25, IsActive: true,
	}).Error)
	user.Plan = "pro"
	require.NoError(t, db.Save(user).Error)

	resp, env := request(t, app, "GET", "/api/credits/balance", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var data struct {
		Balance          int64  `json:"balance"`
		Plan             string `json:"plan"`
		PlanName         string `json:"planName"`
		MonthlyAllowance int64  `json:"monthlyAllowance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(120), data.Balance)
	assert.Equal(t, "pro", data.Plan)
	assert.Equal(t, "Pro", data.PlanName)
	assert.Equal(t, int64(200), data.MonthlyAllowance)
}

func TestCreditHistoryFiltersByType(t *testing.T) {
	app, db := setupCreditsApp(t)
	user, token := seedUser(t, db, 0)

	_, err := credits.Grant(db, user.ID, 25, models.CreditTypeSignupGrant, credits.Entry{Description: "Welcome signup grant"})
	require.NoError(t, err)
	_, err = credits.Spend(db, user.ID, 5, credits.Entry{ReferenceType: "analysis", ReferenceID: "an-1"})
	require.NoError(t, err)

	resp, env := request(t, app, "GET", "/api/credits/history?type=CONSUME", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var data struct {
		Transactions []models.CreditTransaction `json:"transactions"`
		Pagination   struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Transactions, 1)
	assert.Equal(t, models.CreditTypeConsume, data.Transactions[0].TransactionType)
	assert.Equal(t, 1, data.Pagination.Total)

	// Unfiltered view returns the whole ledger
	resp, env = request(t, app, "GET", "/api/credits/history", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Transactions, 2)
	assert.Equal(t, 2, data.Pagination.Total)
}

func TestCreditHistoryRejectsUnknownType(t *testing.T) {
	app, db := setupCreditsApp(t)
	_, token := seedUser(t, db, 0)

	resp, env := request(t, app, "GET", "/api/credits/history?type=JACKPOT", token, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Validation failed!", env.Message)
}
